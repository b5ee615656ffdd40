package model

// Project is the top-level entity grouping repositories for one import. List
// columns are JSON-serialized text; sqlite has no array type. The request's
// types list is stored in the categories column.
type Project struct {
	ID           uint64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string   `gorm:"column:name;type:text;not null"`
	Slug         string   `gorm:"column:slug;type:text;not null"`
	Categories   []string `gorm:"column:categories;type:text;serializer:json;not null"`
	Purposes     []string `gorm:"column:purposes;type:text;serializer:json;not null"`
	StackLevels  []string `gorm:"column:stack_levels;type:text;serializer:json;not null"`
	Technologies []string `gorm:"column:technologies;type:text;serializer:json;not null"`
}

func (Project) TableName() string {
	return "projects"
}
