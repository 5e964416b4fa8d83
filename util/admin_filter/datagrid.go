package admin_filter

import "fmt"

// Datagrid 列表页的过滤器集合，按注册顺序应用
type Datagrid struct {
	filters []Filter
	index   map[string]Filter
}

// NewDatagrid 创建过滤器集合
func NewDatagrid(filters ...Filter) *Datagrid {
	d := &Datagrid{index: make(map[string]Filter)}
	for _, f := range filters {
		d.Add(f)
	}
	return d
}

// Add 注册过滤器，同名时覆盖
func (d *Datagrid) Add(f Filter) {
	if _, ok := d.index[f.Name()]; ok {
		for i, existing := range d.filters {
			if existing.Name() == f.Name() {
				d.filters[i] = f
			}
		}
	} else {
		d.filters = append(d.filters, f)
	}
	d.index[f.Name()] = f
}

// Get 按名称获取过滤器
func (d *Datagrid) Get(name string) (Filter, bool) {
	f, ok := d.index[name]
	return f, ok
}

// Filters 返回全部过滤器
func (d *Datagrid) Filters() []Filter {
	out := make([]Filter, len(d.filters))
	copy(out, d.filters)
	return out
}

// Apply 应用提交的过滤值，未知名称忽略
func (d *Datagrid) Apply(q ProxyQuery, values map[string]*FilterValue) error {
	for _, f := range d.filters {
		value, ok := values[f.Name()]
		if !ok {
			continue
		}
		if err := Apply(q, f, value); err != nil {
			return err
		}
	}
	return nil
}

// Normalize 返回提交值的规范化副本，不修改入参
func (d *Datagrid) Normalize(values map[string]*FilterValue) map[string]*FilterValue {
	out := make(map[string]*FilterValue, len(values))
	for name, value := range values {
		out[name] = value
	}
	for _, f := range d.filters {
		n, ok := f.(interface {
			Normalize(*FilterValue) *FilterValue
		})
		if !ok {
			continue
		}
		if value, ok := out[f.Name()]; ok {
			out[f.Name()] = n.Normalize(value)
		}
	}
	return out
}

// ActiveFilters 返回已生效的过滤器名称
func (d *Datagrid) ActiveFilters() []string {
	var names []string
	for _, f := range d.filters {
		if f.IsActive() {
			names = append(names, f.Name())
		}
	}
	return names
}

// RenderSettings 返回每个过滤器的表单渲染设置
func (d *Datagrid) RenderSettings() map[string]RenderSettings {
	out := make(map[string]RenderSettings, len(d.filters))
	for _, f := range d.filters {
		out[f.Name()] = f.RenderSettings()
	}
	return out
}

func (d *Datagrid) String() string {
	names := make([]string, 0, len(d.filters))
	for _, f := range d.filters {
		names = append(names, f.Name())
	}
	return fmt.Sprintf("Datagrid%v", names)
}
