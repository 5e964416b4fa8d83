package model

import (
	"time"

	"AdminFilter/util/admin_filter"
)

// ========== 列表页模型 ==========

type Author struct {
	ID   uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:100"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:50"`
}

type Post struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"size:200"`
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at"`
	AuthorID    *uint      `json:"author_id"`
	Author      *Author    `json:"author,omitempty"`
	Tags        []Tag      `json:"tags,omitempty" gorm:"many2many:post_tags;"`
}

// ========== 关联映射 ==========

var (
	TagsMapping = admin_filter.AssociationMapping{
		FieldName:    "tags",
		Type:         admin_filter.ManyToMany,
		TargetEntity: "tags",
		SourceColumn: "id",
		TargetColumn: "id",
		JoinTable:    &admin_filter.JoinTable{Name: "post_tags", SourceColumn: "post_id", TargetColumn: "tag_id"},
	}
	AuthorMapping = admin_filter.AssociationMapping{
		FieldName:    "author",
		Type:         admin_filter.ManyToOne,
		TargetEntity: "authors",
		SourceColumn: "author_id",
		TargetColumn: "id",
	}
)

// NewPostDatagrid 文章列表页的过滤器集合
func NewPostDatagrid(loc *time.Location) func() *admin_filter.Datagrid {
	return func() *admin_filter.Datagrid {
		return admin_filter.NewDatagrid(
			admin_filter.NewDateFilter("createdAt",
				admin_filter.WithFieldName("created_at"),
				admin_filter.WithLocation(loc),
				admin_filter.WithLabel("Created")),
			admin_filter.NewDateTimeRangeFilter("publishedAt",
				admin_filter.WithFieldName("published_at"),
				admin_filter.WithLocation(loc)),
			admin_filter.NewModelFilter("author",
				admin_filter.WithAssociation(AuthorMapping)),
			admin_filter.NewModelFilter("tags",
				admin_filter.WithAssociation(TagsMapping),
				admin_filter.WithCondition(admin_filter.ConditionOr)),
		)
	}
}
