package admin_filter

// MappingType 关联类型
type MappingType int

const (
	OneToOne   MappingType = 1
	ManyToOne  MappingType = 2
	OneToMany  MappingType = 4
	ManyToMany MappingType = 8
)

func (t MappingType) String() string {
	switch t {
	case OneToOne:
		return "one_to_one"
	case ManyToOne:
		return "many_to_one"
	case OneToMany:
		return "one_to_many"
	case ManyToMany:
		return "many_to_many"
	}
	return "invalid"
}

// Valid 是否为四种标准关联类型之一
func (t MappingType) Valid() bool {
	switch t {
	case OneToOne, ManyToOne, OneToMany, ManyToMany:
		return true
	}
	return false
}

// JoinTable 多对多中间表
type JoinTable struct {
	Name         string // 中间表名
	SourceColumn string // 指向拥有方的列
	TargetColumn string // 指向目标方的列
}

// AssociationMapping 关联元数据
//
// SourceColumn/TargetColumn 只在生成 SQL 时使用：
// 非多对多时连接条件为 target.TargetColumn = source.SourceColumn；
// 多对多时 SourceColumn/TargetColumn 分别为两端主键，中间表见 JoinTable。
type AssociationMapping struct {
	FieldName    string
	Type         MappingType
	TargetEntity string
	MappedBy     string
	SourceColumn string
	TargetColumn string
	TargetKey    string
	JoinTable    *JoinTable
}

// TargetKeyColumn 目标表主键列，未指定时拥有方与多对多取 TargetColumn，其余为 id
func (m AssociationMapping) TargetKeyColumn() string {
	if m.TargetKey != "" {
		return m.TargetKey
	}
	if m.Owning() || m.Type == ManyToMany {
		return m.TargetColumn
	}
	return "id"
}

// Owning 关联外键是否保存在拥有方
func (m AssociationMapping) Owning() bool {
	return m.MappedBy == "" && (m.Type == ManyToOne || m.Type == OneToOne)
}
