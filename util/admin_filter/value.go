package admin_filter

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ========== 过滤值（边界处校验的标签联合）==========

// Value 过滤值的具体形态：Scalar、Range 或 List
type Value interface {
	filterValue()
}

// Scalar 单值
type Scalar struct {
	V any
}

// Range 区间值，Start/End 为 nil 表示未提供
type Range struct {
	Start any
	End   any
}

// List 多值（关联实体标识列表）
type List []any

func (Scalar) filterValue() {}
func (Range) filterValue()  {}
func (List) filterValue()   {}

// Collection 集合容器，ModelFilter 会将其展开为 List
type Collection interface {
	Items() []any
}

// FilterValue 前端提交的过滤值
// Type 为 nil 表示未提供或不是数字；Value 为 nil 表示缺少 value 字段
type FilterValue struct {
	Type  *int
	Value Value
}

// NewScalarValue 创建单值过滤值
func NewScalarValue(v any) *FilterValue {
	return &FilterValue{Value: Scalar{V: v}}
}

// NewRangeValue 创建区间过滤值
func NewRangeValue(start, end any) *FilterValue {
	return &FilterValue{Value: Range{Start: start, End: end}}
}

// NewListValue 创建多值过滤值
func NewListValue(values ...any) *FilterValue {
	return &FilterValue{Value: List(values)}
}

// WithType 设置操作符代码
func (v *FilterValue) WithType(code int) *FilterValue {
	v.Type = &code
	return v
}

// TypeOr 返回操作符代码，未提供时返回 def
func (v *FilterValue) TypeOr(def int) int {
	if v == nil || v.Type == nil {
		return def
	}
	return *v.Type
}

// HasType 是否提供了操作符代码
func (v *FilterValue) HasType() bool {
	return v != nil && v.Type != nil
}

// ========== JSON 解码 ==========

type rawFilterValue struct {
	Type  json.RawMessage `json:"type"`
	Value json.RawMessage `json:"value"`
}

type rawRange struct {
	Start json.RawMessage `json:"start"`
	End   json.RawMessage `json:"end"`
}

// UnmarshalJSON 解析 {"type": ..., "value": ...}
// 形态不合法的值不会报错，而是留空，由过滤器按空值忽略
func (v *FilterValue) UnmarshalJSON(data []byte) error {
	var raw rawFilterValue
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v.Type = parseOperatorCode(raw.Type)
	v.Value = nil

	trimmed := bytes.TrimSpace(raw.Value)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '{':
		var r rawRange
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return err
		}
		v.Value = Range{Start: decodeScalar(r.Start), End: decodeScalar(r.End)}
	case '[':
		var items []any
		if err := decodeNumbers(trimmed, &items); err != nil {
			return err
		}
		v.Value = List(items)
	default:
		v.Value = Scalar{V: decodeScalar(trimmed)}
	}

	return nil
}

// parseOperatorCode 整数或整数字符串视为操作符代码，非整数数值为 UnknownOperator，其他情况视为未提供
func parseOperatorCode(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}

	var n json.Number
	if err := decodeNumbers(raw, &n); err == nil {
		if i, err := strconv.Atoi(n.String()); err == nil {
			return &i
		}
		// 非整数数值不匹配任何代码，也不回退为默认操作符
		i := UnknownOperator
		return &i
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return &i
		}
	}
	return nil
}

func decodeScalar(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var out any
	if err := decodeNumbers(raw, &out); err != nil {
		return nil
	}
	if n, ok := out.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return f
	}
	return out
}

func decodeNumbers(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if items, ok := dst.(*[]any); ok {
		for i, item := range *items {
			if n, ok := item.(json.Number); ok {
				if v, err := n.Int64(); err == nil {
					(*items)[i] = v
				} else {
					(*items)[i], _ = n.Float64()
				}
			}
		}
	}
	return nil
}

// ========== 日期规范化 ==========

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate 按支持的格式解析日期字符串，无时区信息时使用 loc
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDates 将日期字符串转换为 time.Time（表单层的视图到模型转换）
// 无法解析的值保持原样
func (v *FilterValue) NormalizeDates(loc *time.Location) {
	if v == nil {
		return
	}
	switch val := v.Value.(type) {
	case Scalar:
		v.Value = Scalar{V: normalizeDate(val.V, loc)}
	case Range:
		v.Value = Range{Start: normalizeDate(val.Start, loc), End: normalizeDate(val.End, loc)}
	}
}

func normalizeDate(v any, loc *time.Location) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	if t, ok := ParseDate(s, loc); ok {
		return t
	}
	return v
}

// ========== 真值判断 ==========

// truthy 判断值是否"非空"：nil、零时间、""、"0"、0、false、空集合均为空
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "0"
	case time.Time:
		return !val.IsZero()
	case *time.Time:
		return val != nil && !val.IsZero()
	case int:
		return val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case uint:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0
	case float32:
		return val != 0
	case List:
		return len(val) > 0
	case Collection:
		return len(val.Items()) > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.String:
		return rv.String() != "" && rv.String() != "0"
	}
	return true
}

// toList 将值规范化为列表：展开集合容器，单值包装为单元素列表
func toList(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case List:
		return []any(val)
	case []any:
		return val
	case Collection:
		return val.Items()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

// MarshalJSON 输出与 UnmarshalJSON 相同的形态，用于缓存键等场景
func (v FilterValue) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if v.Type != nil {
		out["type"] = *v.Type
	}
	switch val := v.Value.(type) {
	case Scalar:
		out["value"] = val.V
	case Range:
		out["value"] = map[string]any{"start": val.Start, "end": val.End}
	case List:
		out["value"] = []any(val)
	}
	return json.Marshal(out)
}
