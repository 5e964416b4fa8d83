package admin_filter

import (
	"fmt"
	"sort"
	"strings"
)

// ========== 查询构建器契约 ==========

// Join 注册在根别名下的关联连接，Join 为 "源别名.字段" 形式
type Join struct {
	Join  string
	Alias string
}

// ProxyQuery 过滤器操作的查询构建器
// 参数 ID 在同一个构建器内单调递增，多个过滤器共用时也不会冲突
type ProxyQuery interface {
	UniqueParameterID() int
	AndWhere(e Expr)
	OrWhere(e Expr)
	SetParameter(name string, value any)
	EntityJoin(mappings []AssociationMapping) string
	RootAliases() []string
	JoinsFor(rootAlias string) []Join
}

// ========== 内存查询构建器 ==========

// QueryBuilder 以对象查询语言形式累积条件的构建器
type QueryBuilder struct {
	entity      string
	rootAlias   string
	joins       []Join
	joinAliases []string
	where       Expr
	parameters  map[string]any
	parameterID int
	dialect     Dialect
}

// NewQueryBuilder 创建构建器，如 NewQueryBuilder("App\\Entity\\Post", "o")
func NewQueryBuilder(entity, rootAlias string) *QueryBuilder {
	return &QueryBuilder{
		entity:     entity,
		rootAlias:  rootAlias,
		parameters: make(map[string]any),
		dialect:    DQLDialect{},
	}
}

// UniqueParameterID 返回构建器范围内唯一的参数序号
func (qb *QueryBuilder) UniqueParameterID() int {
	id := qb.parameterID
	qb.parameterID++
	return id
}

func (qb *QueryBuilder) AndWhere(e Expr) {
	qb.where = andWhere(qb.where, e)
}

func (qb *QueryBuilder) OrWhere(e Expr) {
	qb.where = orWhere(qb.where, e)
}

func (qb *QueryBuilder) SetParameter(name string, value any) {
	qb.parameters[name] = value
}

func (qb *QueryBuilder) RootAliases() []string {
	return []string{qb.rootAlias}
}

func (qb *QueryBuilder) JoinsFor(rootAlias string) []Join {
	if rootAlias != qb.rootAlias {
		return nil
	}
	out := make([]Join, len(qb.joins))
	copy(out, qb.joins)
	return out
}

// LeftJoin 手动注册连接，如 LeftJoin("o.author", "a")
func (qb *QueryBuilder) LeftJoin(join, alias string) {
	qb.joins = append(qb.joins, Join{Join: join, Alias: alias})
}

// EntityJoin 沿关联链建立（或复用）连接，返回最后一级的别名
func (qb *QueryBuilder) EntityJoin(mappings []AssociationMapping) string {
	alias, added := resolveEntityJoin(qb.rootAlias, qb.joins, &qb.joinAliases, mappings)
	for _, j := range added {
		qb.joins = append(qb.joins, j.Join)
	}
	return alias
}

// Where 渲染 WHERE 子句（不含关键字）
func (qb *QueryBuilder) Where() string {
	return Render(qb.where, qb.dialect)
}

// Parameters 返回已绑定参数的副本
func (qb *QueryBuilder) Parameters() map[string]any {
	out := make(map[string]any, len(qb.parameters))
	for k, v := range qb.parameters {
		out[k] = v
	}
	return out
}

// Parameter 返回单个已绑定参数
func (qb *QueryBuilder) Parameter(name string) (any, bool) {
	v, ok := qb.parameters[name]
	return v, ok
}

// DQL 渲染完整查询
func (qb *QueryBuilder) DQL() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s %s", qb.rootAlias, qb.entity, qb.rootAlias)
	for _, j := range qb.joins {
		fmt.Fprintf(&sb, " LEFT JOIN %s %s", j.Join, j.Alias)
	}
	if where := qb.Where(); where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	return sb.String()
}

// String 调试输出：查询与排序后的参数
func (qb *QueryBuilder) String() string {
	names := make([]string, 0, len(qb.parameters))
	for name := range qb.parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]string, 0, len(names))
	for _, name := range names {
		params = append(params, fmt.Sprintf("%s=%v", name, qb.parameters[name]))
	}
	return qb.DQL() + " [" + strings.Join(params, ", ") + "]"
}

// ========== 共用的组合与连接逻辑 ==========

func andWhere(where, e Expr) Expr {
	switch w := where.(type) {
	case nil:
		return And{e}
	case And:
		return append(w[:len(w):len(w)], e)
	default:
		return And{w, e}
	}
}

func orWhere(where, e Expr) Expr {
	switch w := where.(type) {
	case nil:
		return Or{e}
	case Or:
		return append(w[:len(w):len(w)], e)
	default:
		return Or{w, e}
	}
}

// entityJoin 新增的连接及其关联元数据
type entityJoin struct {
	Join
	Parent  string
	Mapping AssociationMapping
}

// resolveEntityJoin 已存在 "别名.字段" 连接时复用，否则生成 s_字段1_字段2 形式的别名
func resolveEntityJoin(rootAlias string, existing []Join, joinAliases *[]string, mappings []AssociationMapping) (string, []entityJoin) {
	alias := rootAlias
	newAlias := "s"
	var added []entityJoin

next:
	for _, mapping := range mappings {
		path := alias + "." + mapping.FieldName
		known := make([]Join, 0, len(existing)+len(added))
		known = append(known, existing...)
		for _, j := range added {
			known = append(known, j.Join)
		}
		for _, j := range known {
			if j.Join == path {
				*joinAliases = append(*joinAliases, j.Alias)
				alias = j.Alias
				continue next
			}
		}

		newAlias += "_" + mapping.FieldName
		if !containsString(*joinAliases, newAlias) {
			*joinAliases = append(*joinAliases, newAlias)
			added = append(added, entityJoin{
				Join:    Join{Join: path, Alias: newAlias},
				Parent:  alias,
				Mapping: mapping,
			})
		}
		alias = newAlias
	}

	return alias, added
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
