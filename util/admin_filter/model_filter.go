package admin_filter

import "strings"

// ModelFilter 关联实体过滤器
// 条件作用于 Association 返回的连接别名，字段参数不使用
type ModelFilter struct {
	BaseFilter
}

// NewModelFilter 创建关联实体过滤器，需通过 WithAssociation 指定关联
func NewModelFilter(name string, opts ...Option) *ModelFilter {
	defaults := Options{
		FieldType:    "entity",
		FieldOptions: map[string]any{},
		OperatorType: "equal",
	}
	return &ModelFilter{BaseFilter: newBaseFilter(name, defaults, opts)}
}

func (f *ModelFilter) Filter(q ProxyQuery, alias, _ string, value *FilterValue) {
	if value == nil || value.Value == nil {
		return
	}

	var items []any
	switch v := value.Value.(type) {
	case List:
		items = []any(v)
	case Scalar:
		if !truthy(v.V) {
			return
		}
		items = toList(v.V)
	default:
		return
	}

	f.handleMultiple(q, alias, value.Type, items)
}

func (f *ModelFilter) handleMultiple(q ProxyQuery, alias string, operator *int, items []any) {
	if len(items) == 0 {
		return
	}

	parameterName := f.NewParameterName(q)

	if operator != nil && *operator == NotEqual {
		or := Or{NotIn{Left: alias, Param: parameterName}}

		parentAlias := f.parentAlias(q, alias)
		if f.options.MappingType == ManyToMany {
			or = append(or, IsEmpty{Alias: parentAlias, Field: f.fieldName})
		} else {
			or = append(or, IsNull{Operand: Identity{Alias: parentAlias, Field: f.fieldName}})
		}

		f.ApplyWhere(q, or)
	} else {
		f.ApplyWhere(q, In{Left: alias, Param: parameterName})
	}

	q.SetParameter(parameterName, items)
}

// Association 校验关联类型后连接 父级关联链 + 自身关联
func (f *ModelFilter) Association(q ProxyQuery, _ *FilterValue) (string, string, error) {
	if !f.options.MappingType.Valid() {
		return "", "", ErrInvalidMappingType
	}
	if f.options.AssociationMapping == nil {
		return "", "", ErrMissingAssociation
	}

	mappings := make([]AssociationMapping, 0, len(f.options.ParentAssociationMappings)+1)
	mappings = append(mappings, f.options.ParentAssociationMappings...)
	mappings = append(mappings, *f.options.AssociationMapping)

	return q.EntityJoin(mappings), "", nil
}

// parentAlias 直接关联返回根别名，深度 >= 2 时返回连接源的别名
func (f *ModelFilter) parentAlias(q ProxyQuery, alias string) string {
	roots := q.RootAliases()
	if len(roots) == 0 {
		return ""
	}

	rootAlias := roots[0]
	for _, join := range q.JoinsFor(rootAlias) {
		if join.Alias == alias {
			return strings.SplitN(join.Join, ".", 2)[0]
		}
	}
	return rootAlias
}

func (f *ModelFilter) RenderSettings() RenderSettings {
	opts := f.renderOptions()
	opts["operator_type"] = f.options.OperatorType
	opts["operator_options"] = f.options.OperatorOptions
	return RenderSettings{Type: "default", Options: opts}
}
