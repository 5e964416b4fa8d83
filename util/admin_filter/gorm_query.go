package admin_filter

import (
	"fmt"
	"regexp"

	"gorm.io/gorm"
)

// ========== GORM 查询构建器 ==========

// GormQuery 以 SQL 形式累积条件，最终应用到 *gorm.DB
// 关联通过 LEFT JOIN 建立；存在连接时以子查询筛选根表主键，避免一对多连接造成重复行
type GormQuery struct {
	table       string
	rootAlias   string
	primaryKey  string
	joins       []entityJoin
	joinAliases []string
	where       Expr
	parameters  map[string]any
	parameterID int
}

// NewGormQuery 创建 GORM 查询构建器，如 NewGormQuery("posts", "o")
func NewGormQuery(table, rootAlias string) *GormQuery {
	return &GormQuery{
		table:      table,
		rootAlias:  rootAlias,
		primaryKey: "id",
		parameters: make(map[string]any),
	}
}

// WithPrimaryKey 设置根表主键列（默认 id）
func (gq *GormQuery) WithPrimaryKey(column string) *GormQuery {
	gq.primaryKey = column
	return gq
}

func (gq *GormQuery) UniqueParameterID() int {
	id := gq.parameterID
	gq.parameterID++
	return id
}

func (gq *GormQuery) AndWhere(e Expr) {
	gq.where = andWhere(gq.where, e)
}

func (gq *GormQuery) OrWhere(e Expr) {
	gq.where = orWhere(gq.where, e)
}

func (gq *GormQuery) SetParameter(name string, value any) {
	gq.parameters[name] = value
}

func (gq *GormQuery) RootAliases() []string {
	return []string{gq.rootAlias}
}

func (gq *GormQuery) JoinsFor(rootAlias string) []Join {
	if rootAlias != gq.rootAlias {
		return nil
	}
	out := make([]Join, 0, len(gq.joins))
	for _, j := range gq.joins {
		out = append(out, j.Join)
	}
	return out
}

func (gq *GormQuery) EntityJoin(mappings []AssociationMapping) string {
	known := gq.JoinsFor(gq.rootAlias)
	alias, added := resolveEntityJoin(gq.rootAlias, known, &gq.joinAliases, mappings)
	gq.joins = append(gq.joins, added...)
	return alias
}

// Parameters 返回已绑定参数的副本
func (gq *GormQuery) Parameters() map[string]any {
	out := make(map[string]any, len(gq.parameters))
	for k, v := range gq.parameters {
		out[k] = v
	}
	return out
}

// JoinClauses 渲染 LEFT JOIN 子句
func (gq *GormQuery) JoinClauses() []string {
	clauses := make([]string, 0, len(gq.joins))
	for _, j := range gq.joins {
		m := j.Mapping
		if m.Type == ManyToMany && m.JoinTable != nil {
			link := j.Alias + "_jt"
			clauses = append(clauses,
				fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = %s.%s", m.JoinTable.Name, link, link, m.JoinTable.SourceColumn, j.Parent, m.SourceColumn),
				fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = %s.%s", m.TargetEntity, j.Alias, j.Alias, m.TargetColumn, link, m.JoinTable.TargetColumn),
			)
			continue
		}
		clauses = append(clauses,
			fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = %s.%s", m.TargetEntity, j.Alias, j.Alias, m.TargetColumn, j.Parent, m.SourceColumn),
		)
	}
	return clauses
}

var parameterPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// WhereSQL 渲染 WHERE 条件，命名参数按出现顺序替换为 ?
func (gq *GormQuery) WhereSQL() (string, []any, error) {
	if gq.where == nil {
		return "", nil, nil
	}

	d := &sqlDialect{query: gq}
	text := Render(gq.where, d)
	if d.err != nil {
		return "", nil, d.err
	}

	var vars []any
	var missing string
	sql := parameterPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1:]
		value, ok := gq.parameters[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		vars = append(vars, value)
		return "?"
	})
	if missing != "" {
		return "", nil, fmt.Errorf("%w: %s", ErrUnboundParameter, missing)
	}

	return sql, vars, nil
}

// Build 将条件应用到 db：外层查询使用不带别名的根表，
// 条件与连接放在子查询中按根表主键筛选，避免一对多连接造成重复行
func (gq *GormQuery) Build(db *gorm.DB) (*gorm.DB, error) {
	tx := db.Table(gq.table)

	sql, vars, err := gq.WhereSQL()
	if err != nil {
		return nil, err
	}
	if sql == "" && len(gq.joins) == 0 {
		return tx, nil
	}

	sub := db.Session(&gorm.Session{NewDB: true}).
		Table(gq.table + " " + gq.rootAlias).
		Select(gq.rootAlias + "." + gq.primaryKey)
	for _, clause := range gq.JoinClauses() {
		sub = sub.Joins(clause)
	}
	if sql != "" {
		sub = sub.Where(sql, vars...)
	}

	return tx.Where(gq.table+"."+gq.primaryKey+" IN (?)", sub), nil
}

// ========== SQL 写法 ==========

type sqlDialect struct {
	query *GormQuery
	err   error
}

func (d *sqlDialect) join(alias string) (entityJoin, bool) {
	for _, j := range d.query.joins {
		if j.Alias == alias {
			return j, true
		}
	}
	return entityJoin{}, false
}

func (d *sqlDialect) association(parent, field string) (entityJoin, bool) {
	for _, j := range d.query.joins {
		if j.Parent == parent && j.Mapping.FieldName == field {
			return j, true
		}
	}
	d.fail(UnknownAliasError{Alias: parent + "." + field})
	return entityJoin{}, false
}

func (d *sqlDialect) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *sqlDialect) Identifier(alias string) string {
	if alias == d.query.rootAlias {
		return alias + "." + d.query.primaryKey
	}
	j, ok := d.join(alias)
	if !ok {
		d.fail(UnknownAliasError{Alias: alias})
		return alias
	}
	return alias + "." + j.Mapping.TargetKeyColumn()
}

func (d *sqlDialect) Empty(alias, field string) string {
	j, ok := d.association(alias, field)
	if !ok {
		return "1 = 0"
	}
	m := j.Mapping
	if m.Type == ManyToMany && m.JoinTable != nil {
		return fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s WHERE %s.%s = %s.%s)",
			m.JoinTable.Name, m.JoinTable.Name, m.JoinTable.SourceColumn, alias, m.SourceColumn)
	}
	return fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s WHERE %s.%s = %s.%s)",
		m.TargetEntity, m.TargetEntity, m.TargetColumn, alias, m.SourceColumn)
}

func (d *sqlDialect) Identity(alias, field string) string {
	j, ok := d.association(alias, field)
	if !ok {
		return "NULL"
	}
	m := j.Mapping
	if m.Owning() {
		return alias + "." + m.SourceColumn
	}
	return fmt.Sprintf("(SELECT %s.%s FROM %s WHERE %s.%s = %s.%s LIMIT 1)",
		m.TargetEntity, m.TargetColumn, m.TargetEntity, m.TargetEntity, m.TargetColumn, alias, m.SourceColumn)
}
