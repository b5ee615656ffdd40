package ports

import (
	"context"

	"kudosimport/internal/domain/kudos"
)

// IssueSource lists open issues from the upstream tracker.
//
// Only the first page is fetched; a repository with more open issues than the
// page size has the remainder omitted. That is a scope boundary of the import
// pipeline, not a defect of implementations.
type IssueSource interface {
	ListOpenIssues(ctx context.Context, owner string, name string) ([]kudos.TrackerIssue, error)
}
