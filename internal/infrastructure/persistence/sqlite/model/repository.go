package model

// Repository links one source repository to its owning project. The request's
// label is stored in the slug column.
type Repository struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Slug      string `gorm:"column:slug;type:text;not null"`
	ProjectID uint64 `gorm:"column:project_id;not null;index"`
}

func (Repository) TableName() string {
	return "repositories"
}
