package admin_filter

import (
	"fmt"
	"strings"
	"time"
)

// ========== 过滤器接口 ==========

// Filter 将过滤值翻译为查询条件
type Filter interface {
	Name() string
	FieldName() string
	// Association 建立过滤所需的连接，返回条件使用的别名与字段
	Association(q ProxyQuery, value *FilterValue) (alias string, field string, err error)
	// Filter 向查询追加条件；形态不合法的值不产生任何条件
	Filter(q ProxyQuery, alias, field string, value *FilterValue)
	IsActive() bool
	RenderSettings() RenderSettings
}

// Apply 解析关联后应用过滤器
func Apply(q ProxyQuery, f Filter, value *FilterValue) error {
	if value == nil || value.Value == nil {
		return nil
	}

	alias, field, err := f.Association(q, value)
	if err != nil {
		return fmt.Errorf("filter %s: %w", f.Name(), err)
	}

	f.Filter(q, alias, field, value)
	return nil
}

// RenderSettings 表单渲染设置
type RenderSettings struct {
	Type    string         `json:"type"`
	Options map[string]any `json:"options"`
}

// ========== 过滤器选项 ==========

// 输入类型
const (
	InputDateTime  = "datetime"
	InputTimestamp = "timestamp"
)

// 条件组合方式
const (
	ConditionAnd = "AND"
	ConditionOr  = "OR"
)

// Options 过滤器选项
type Options struct {
	InputType                 string
	MappingType               MappingType
	FieldType                 string
	FieldOptions              map[string]any
	OperatorType              string
	OperatorOptions           map[string]any
	Label                     string
	Condition                 string
	Location                  *time.Location
	AssociationMapping        *AssociationMapping
	ParentAssociationMappings []AssociationMapping
}

// Option 过滤器选项函数
type Option func(*BaseFilter)

// WithFieldName 设置实体字段名（默认与过滤器名相同）
func WithFieldName(fieldName string) Option {
	return func(f *BaseFilter) {
		f.fieldName = fieldName
	}
}

// WithInputType 设置输入类型：datetime 或 timestamp
func WithInputType(inputType string) Option {
	return func(f *BaseFilter) {
		f.options.InputType = inputType
	}
}

// WithLocation 设置时间戳按日历加一天时使用的时区
func WithLocation(loc *time.Location) Option {
	return func(f *BaseFilter) {
		f.options.Location = loc
	}
}

// WithCondition 设置与已有条件的组合方式：AND 或 OR
func WithCondition(condition string) Option {
	return func(f *BaseFilter) {
		f.options.Condition = strings.ToUpper(condition)
	}
}

// WithLabel 设置显示名称
func WithLabel(label string) Option {
	return func(f *BaseFilter) {
		f.options.Label = label
	}
}

// WithFieldType 设置表单字段类型与选项
func WithFieldType(fieldType string, fieldOptions map[string]any) Option {
	return func(f *BaseFilter) {
		f.options.FieldType = fieldType
		f.options.FieldOptions = fieldOptions
	}
}

// WithOperatorType 设置操作符表单类型与选项
func WithOperatorType(operatorType string, operatorOptions map[string]any) Option {
	return func(f *BaseFilter) {
		f.options.OperatorType = operatorType
		f.options.OperatorOptions = operatorOptions
	}
}

// WithAssociation 设置过滤器自身的关联，关联类型同时作为 mapping_type
func WithAssociation(mapping AssociationMapping) Option {
	return func(f *BaseFilter) {
		f.options.AssociationMapping = &mapping
		f.options.MappingType = mapping.Type
	}
}

// WithMappingType 单独覆盖 mapping_type
func WithMappingType(t MappingType) Option {
	return func(f *BaseFilter) {
		f.options.MappingType = t
	}
}

// WithParentAssociations 设置从根实体到所属实体的关联链
func WithParentAssociations(mappings ...AssociationMapping) Option {
	return func(f *BaseFilter) {
		f.options.ParentAssociationMappings = append(f.options.ParentAssociationMappings, mappings...)
	}
}

// ========== 过滤器基类 ==========

// BaseFilter 选项存储、参数名生成与条件追加
type BaseFilter struct {
	name      string
	fieldName string
	options   Options
	active    bool
}

func newBaseFilter(name string, defaults Options, opts []Option) BaseFilter {
	f := BaseFilter{
		name:      name,
		fieldName: name,
		options:   defaults,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	if f.options.Condition != ConditionOr {
		f.options.Condition = ConditionAnd
	}
	if f.options.Location == nil {
		f.options.Location = time.Local
	}
	if f.options.Label == "" {
		f.options.Label = name
	}
	return f
}

func (f *BaseFilter) Name() string {
	return f.name
}

func (f *BaseFilter) FieldName() string {
	return f.fieldName
}

func (f *BaseFilter) IsActive() bool {
	return f.active
}

// Association 默认实现：连接父级关联链，条件作用于字段本身
func (f *BaseFilter) Association(q ProxyQuery, _ *FilterValue) (string, string, error) {
	alias := q.EntityJoin(f.options.ParentAssociationMappings)
	return alias, f.fieldName, nil
}

// NewParameterName 生成构建器范围内唯一的参数名
func (f *BaseFilter) NewParameterName(q ProxyQuery) string {
	return fmt.Sprintf("%s_%d", strings.ReplaceAll(f.name, ".", "_"), q.UniqueParameterID())
}

// ApplyWhere 按组合方式追加条件，并标记过滤器已生效
func (f *BaseFilter) ApplyWhere(q ProxyQuery, e Expr) {
	if f.options.Condition == ConditionOr {
		q.OrWhere(e)
	} else {
		q.AndWhere(e)
	}
	f.active = true
}

func (f *BaseFilter) renderOptions() map[string]any {
	return map[string]any{
		"field_type":    f.options.FieldType,
		"field_options": f.options.FieldOptions,
		"label":         f.options.Label,
	}
}
