package model

// Issue is one imported open issue. There is deliberately no uniqueness on
// (number, repository_id): re-running an import duplicates rows.
type Issue struct {
	IssueID        uint64   `gorm:"column:issue_id;primaryKey;autoIncrement"`
	Number         int64    `gorm:"column:number;not null"`
	Title          string   `gorm:"column:title;type:text;not null"`
	Labels         []string `gorm:"column:labels;type:text;serializer:json;not null"`
	RepositoryID   uint64   `gorm:"column:repository_id;not null;index"`
	IssueCreatedAt string   `gorm:"column:issue_created_at;type:text;not null"`
}

func (Issue) TableName() string {
	return "issues"
}
