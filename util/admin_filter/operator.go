package admin_filter

// ========== 操作符代码（与后台表单的操作符类型一致）==========

// 日期单值操作符
const (
	DateGreaterEqual = 1
	DateGreaterThan  = 2
	DateEqual        = 3
	DateLessEqual    = 4
	DateLessThan     = 5
	DateNull         = 6
	DateNotNull      = 7
)

// 日期区间操作符
const (
	DateRangeBetween    = 1
	DateRangeNotBetween = 2
)

// 关联实体操作符
const (
	Equal    = 1
	NotEqual = 2
)

// UnknownOperator 提交了非整数的数值代码，渲染为普通比较
const UnknownOperator = -1

// DateChoices 日期操作符到 SQL 符号的映射
var DateChoices = map[int]string{
	DateEqual:        "=",
	DateGreaterEqual: ">=",
	DateGreaterThan:  ">",
	DateLessEqual:    "<=",
	DateLessThan:     "<",
	DateNull:         "NULL",
	DateNotNull:      "NOT NULL",
}

// DateOperator 解析日期操作符，未知代码回退为 "="
func DateOperator(code int) string {
	if op, ok := DateChoices[code]; ok {
		return op
	}
	return DateChoices[DateEqual]
}

func isNullOperator(op string) bool {
	return op == "NULL" || op == "NOT NULL"
}
