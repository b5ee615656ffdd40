package ports

import (
	"context"

	"kudosimport/internal/domain/kudos"
)

// ProjectRecord carries the project attributes to persist. The Types list
// lands in the store's categories column.
type ProjectRecord struct {
	Name         string
	Slug         string
	Types        []string
	Purposes     []string
	StackLevels  []string
	Technologies []string
}

// ImportStore is the insert-only persistence boundary of the import pipeline.
// Every method is a single statement; there is no enclosing transaction across
// an import, so writes committed before a failure stay durable.
type ImportStore interface {
	// CreateProject inserts the project row and returns the generated id.
	CreateProject(ctx context.Context, record ProjectRecord) (uint64, error)

	// CreateRepository inserts a repository row linked to projectID and
	// returns the generated id. The label is persisted in the slug column.
	CreateRepository(ctx context.Context, label string, projectID uint64) (uint64, error)

	// InsertIssues writes all issues in one multi-row statement and returns
	// the row count the store reports. An empty input performs no database
	// operation and reports 0.
	InsertIssues(ctx context.Context, repositoryID uint64, issues []kudos.Issue) (int64, error)
}
