package admin_filter

import (
	"regexp"
	"strings"
)

// ========== 条件表达式 ==========

// Expr WHERE 条件片段
// 具体的 SQL 文本由 Dialect 决定，过滤器只描述结构
type Expr interface {
	expr()
}

// Raw 原样输出的条件文本，如 "o.created_at >= :created_at_0"
type Raw string

// In alias IN (:param)
type In struct {
	Left  string
	Param string
}

// NotIn alias NOT IN (:param)
type NotIn struct {
	Left  string
	Param string
}

// IsNull operand IS NULL
type IsNull struct {
	Operand Expr
}

// IsEmpty 集合型关联为空：alias.field IS EMPTY
type IsEmpty struct {
	Alias string
	Field string
}

// Identity 外键值：IDENTITY(alias.field)
type Identity struct {
	Alias string
	Field string
}

// Or 任一成立
type Or []Expr

// And 全部成立
type And []Expr

func (Raw) expr()      {}
func (In) expr()       {}
func (NotIn) expr()    {}
func (IsNull) expr()   {}
func (IsEmpty) expr()  {}
func (Identity) expr() {}
func (Or) expr()       {}
func (And) expr()      {}

// Dialect 决定表达式中与存储相关部分的写法
type Dialect interface {
	// Identifier 返回 IN/NOT IN 左侧 alias 对应的标识列
	Identifier(alias string) string
	// Empty 返回集合型关联为空的条件
	Empty(alias, field string) string
	// Identity 返回关联外键值的表达式
	Identity(alias, field string) string
}

// DQLDialect 对象查询语言写法
type DQLDialect struct{}

func (DQLDialect) Identifier(alias string) string {
	return alias
}

func (DQLDialect) Empty(alias, field string) string {
	return alias + "." + field + " IS EMPTY"
}

func (DQLDialect) Identity(alias, field string) string {
	return "IDENTITY(" + alias + "." + field + ")"
}

var logicalOperatorPattern = regexp.MustCompile(`(?i)\s(OR|AND)\s`)

// Render 渲染表达式
// 组合条件只有一项时直接输出；多项时，多项组合子条件或含 OR/AND 的文本加括号
func Render(e Expr, d Dialect) string {
	if d == nil {
		d = DQLDialect{}
	}

	switch v := e.(type) {
	case nil:
		return ""
	case Raw:
		return string(v)
	case In:
		return d.Identifier(v.Left) + " IN (:" + v.Param + ")"
	case NotIn:
		return d.Identifier(v.Left) + " NOT IN (:" + v.Param + ")"
	case IsNull:
		return Render(v.Operand, d) + " IS NULL"
	case IsEmpty:
		return d.Empty(v.Alias, v.Field)
	case Identity:
		return d.Identity(v.Alias, v.Field)
	case Or:
		return renderComposite([]Expr(v), " OR ", d)
	case And:
		return renderComposite([]Expr(v), " AND ", d)
	}
	return ""
}

func renderComposite(parts []Expr, separator string, d Dialect) string {
	if len(parts) == 1 {
		return Render(parts[0], d)
	}

	rendered := make([]string, 0, len(parts))
	for _, part := range parts {
		text := Render(part, d)
		if needsParentheses(part, text) {
			text = "(" + text + ")"
		}
		rendered = append(rendered, text)
	}
	return strings.Join(rendered, separator)
}

func needsParentheses(part Expr, text string) bool {
	switch v := part.(type) {
	case Or:
		if len(v) > 1 {
			return true
		}
	case And:
		if len(v) > 1 {
			return true
		}
	}
	return logicalOperatorPattern.MatchString(text)
}
