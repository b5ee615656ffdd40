package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"kudosimport/internal/domain/kudos"
	"kudosimport/internal/infrastructure/persistence/sqlite/model"
	"kudosimport/internal/ports"
)

// ImportRepository implements ports.ImportStore with gorm. Each write is a
// single statement; failures surface as kudos.StoreWriteError.
type ImportRepository struct {
	db *gorm.DB
}

var _ ports.ImportStore = (*ImportRepository)(nil)

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

func (r *ImportRepository) CreateProject(ctx context.Context, record ports.ProjectRecord) (uint64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	row := model.Project{
		Name:         record.Name,
		Slug:         record.Slug,
		Categories:   emptyIfNil(record.Types),
		Purposes:     emptyIfNil(record.Purposes),
		StackLevels:  emptyIfNil(record.StackLevels),
		Technologies: emptyIfNil(record.Technologies),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, &kudos.StoreWriteError{Op: "insert project", Err: err}
	}
	return row.ID, nil
}

func (r *ImportRepository) CreateRepository(ctx context.Context, label string, projectID uint64) (uint64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	row := model.Repository{
		Slug:      label,
		ProjectID: projectID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, &kudos.StoreWriteError{Op: "insert repository", Err: err}
	}
	return row.ID, nil
}

// InsertIssues writes all issues in one multi-row statement. An empty input
// never reaches the database: a multi-row insert with zero parameter groups
// is not a valid statement.
func (r *ImportRepository) InsertIssues(ctx context.Context, repositoryID uint64, issues []kudos.Issue) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if len(issues) == 0 {
		return 0, nil
	}

	rows := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, model.Issue{
			Number:         issue.Number,
			Title:          issue.Title,
			Labels:         emptyIfNil(issue.Labels),
			RepositoryID:   repositoryID,
			IssueCreatedAt: issue.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	result := r.db.WithContext(ctx).Create(&rows)
	if result.Error != nil {
		return 0, &kudos.StoreWriteError{Op: "insert issues", Err: result.Error}
	}

	// The reported count is what the store says it wrote, not len(issues).
	return result.RowsAffected, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
