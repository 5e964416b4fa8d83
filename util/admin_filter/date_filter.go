package admin_filter

import (
	"fmt"
	"time"
)

// rangeEndInflation 区间结束日期补足到当天末尾
// 模型时区下的结束值是视图时区的零点，补 23:59:59 以覆盖整天
const rangeEndInflation = 23*time.Hour + 59*time.Minute + 59*time.Second

// 日期过滤器的表单类型
const (
	DateType          = "date"
	DateTimeType      = "datetime"
	DateRangeType     = "date_range"
	DateTimeRangeType = "datetime_range"
)

// DateFilter 日期/时间过滤器
// time 为 false 时按整天过滤；range 为 true 时接受区间值
type DateFilter struct {
	BaseFilter
	time bool
	rng  bool
}

func newDateFilter(name string, withTime, withRange bool, opts []Option) *DateFilter {
	return &DateFilter{
		BaseFilter: newBaseFilter(name, Options{InputType: InputDateTime}, opts),
		time:       withTime,
		rng:        withRange,
	}
}

// NewDateFilter 按日期过滤
func NewDateFilter(name string, opts ...Option) *DateFilter {
	return newDateFilter(name, false, false, opts)
}

// NewDateTimeFilter 按时间点过滤
func NewDateTimeFilter(name string, opts ...Option) *DateFilter {
	return newDateFilter(name, true, false, opts)
}

// NewDateRangeFilter 按日期区间过滤
func NewDateRangeFilter(name string, opts ...Option) *DateFilter {
	return newDateFilter(name, false, true, opts)
}

// NewDateTimeRangeFilter 按时间区间过滤
func NewDateTimeRangeFilter(name string, opts ...Option) *DateFilter {
	return newDateFilter(name, true, true, opts)
}

// HasTime 是否精确到时间
func (f *DateFilter) HasTime() bool {
	return f.time
}

func (f *DateFilter) Filter(q ProxyQuery, alias, field string, value *FilterValue) {
	if value == nil || value.Value == nil {
		return
	}

	if f.rng {
		r, ok := value.Value.(Range)
		if !ok {
			return
		}
		f.filterRange(q, alias, field, value, r)
		return
	}

	s, ok := value.Value.(Scalar)
	if !ok {
		return
	}
	f.filterScalar(q, alias, field, value, s.V)
}

func (f *DateFilter) filterRange(q ProxyQuery, alias, field string, value *FilterValue, r Range) {
	start, end := asTime(r.Start), asTime(r.End)
	if !truthy(start) && !truthy(end) {
		return
	}

	if !f.time {
		if t, ok := end.(time.Time); ok {
			end = t.Add(rangeEndInflation)
		}
	}

	if f.timestampInput() {
		start = toTimestamp(start)
		end = toTimestamp(end)
	}

	operator := value.TypeOr(DateRangeBetween)

	startName := f.NewParameterName(q)
	endName := f.NewParameterName(q)
	column := alias + "." + field

	if operator == DateRangeNotBetween {
		f.ApplyWhere(q, Raw(fmt.Sprintf("%s < :%s OR %s > :%s", column, startName, column, endName)))
	} else {
		if truthy(start) {
			f.ApplyWhere(q, Raw(fmt.Sprintf("%s %s :%s", column, ">=", startName)))
		}
		if truthy(end) {
			f.ApplyWhere(q, Raw(fmt.Sprintf("%s %s :%s", column, "<=", endName)))
		}
	}

	if truthy(start) {
		q.SetParameter(startName, start)
	}
	if truthy(end) {
		q.SetParameter(endName, end)
	}
}

func (f *DateFilter) filterScalar(q ProxyQuery, alias, field string, value *FilterValue, v any) {
	v = asTime(v)
	if !truthy(v) {
		return
	}

	code := value.TypeOr(DateEqual)
	operator := DateOperator(code)

	if f.timestampInput() {
		v = toTimestamp(v)
	}

	column := alias + "." + field

	if isNullOperator(operator) {
		f.ApplyWhere(q, Raw(fmt.Sprintf("%s IS %s", column, operator)))
		return
	}

	parameterName := f.NewParameterName(q)

	if !f.time && code == DateEqual {
		f.ApplyWhere(q, Raw(fmt.Sprintf("%s %s :%s", column, ">=", parameterName)))
		q.SetParameter(parameterName, v)

		endName := f.NewParameterName(q)
		f.ApplyWhere(q, Raw(fmt.Sprintf("%s %s :%s", column, "<", endName)))
		q.SetParameter(endName, f.nextDay(v))
		return
	}

	f.ApplyWhere(q, Raw(fmt.Sprintf("%s %s :%s", column, operator, parameterName)))
	q.SetParameter(parameterName, v)
}

// nextDay 加一个日历日：时间戳按配置时区的日历计算，日期对象直接按日历相加
func (f *DateFilter) nextDay(v any) any {
	switch val := v.(type) {
	case int64:
		return time.Unix(val, 0).In(f.options.Location).AddDate(0, 0, 1).Unix()
	case time.Time:
		return val.AddDate(0, 0, 1)
	}
	return v
}

func (f *DateFilter) timestampInput() bool {
	return f.options.InputType == InputTimestamp
}

// asTime 解引用 *time.Time，nil 指针视为未提供
func asTime(v any) any {
	if t, ok := v.(*time.Time); ok {
		if t == nil {
			return nil
		}
		return *t
	}
	return v
}

// toTimestamp 日期转换为秒级时间戳，非日期值为 0
func toTimestamp(v any) int64 {
	if t, ok := asTime(v).(time.Time); ok {
		return t.Unix()
	}
	return 0
}

func (f *DateFilter) RenderSettings() RenderSettings {
	name := DateType
	switch {
	case f.time && f.rng:
		name = DateTimeRangeType
	case f.time:
		name = DateTimeType
	case f.rng:
		name = DateRangeType
	}
	return RenderSettings{Type: name, Options: f.renderOptions()}
}

// Normalize 返回规范化后的副本：日期字符串按配置时区解析为 time.Time
func (f *DateFilter) Normalize(value *FilterValue) *FilterValue {
	if value == nil {
		return nil
	}
	out := *value
	out.NormalizeDates(f.options.Location)
	return &out
}
