package importer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"kudosimport/internal/bootstrap/logging"
	"kudosimport/internal/domain/kudos"
	"kudosimport/internal/errs"
	"kudosimport/internal/ports"
)

type importReceipt struct {
	RunID      string `json:"run_id"`
	ProjectID  uint64 `json:"project_id"`
	Total      int64  `json:"total"`
	FinishedAt string `json:"finished_at"`
}

// ImportProject runs one fresh, insert-only import: create the project row,
// then per linked repository resolve identity, create the repository row,
// fetch and classify open issues, and batch-insert the survivors.
// Repositories are processed strictly in input order; the first failure
// aborts the request, remaining repositories are never attempted, and writes
// already committed stay durable.
func (s *Service) ImportProject(ctx context.Context, input ImportProjectInput) (ImportProjectResult, error) {
	if ctx == nil {
		return ImportProjectResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ImportProjectResult{}, errs.Wrap(err, "check context")
	}
	if s.store == nil {
		return ImportProjectResult{}, errors.New("import store is required")
	}
	if s.source == nil {
		return ImportProjectResult{}, errors.New("issue source is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ImportProjectResult{}, errors.New("project name is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return ImportProjectResult{}, errors.New("project slug is required")
	}

	runID := uuid.NewString()
	ctx = logging.WithAttrs(
		ctx,
		slog.String("run_id", runID),
		slog.String("project_slug", slug),
	)

	projectID, err := s.store.CreateProject(ctx, ports.ProjectRecord{
		Name:         name,
		Slug:         slug,
		Types:        input.Attributes.Types,
		Purposes:     input.Attributes.Purposes,
		StackLevels:  input.Attributes.StackLevels,
		Technologies: input.Attributes.Technologies,
	})
	if err != nil {
		return ImportProjectResult{}, errs.Wrap(err, "create project")
	}

	logging.Info(
		ctx,
		"project created",
		slog.Uint64("project_id", projectID),
		slog.Int("repository_count", len(input.Repositories)),
	)

	var total int64
	for _, link := range input.Repositories {
		count, err := s.importRepository(ctx, projectID, link)
		if err != nil {
			return ImportProjectResult{}, errs.Wrapf(err, "import repository %q", link.URL)
		}
		total += count
	}

	receipt, err := json.Marshal(importReceipt{
		RunID:      runID,
		ProjectID:  projectID,
		Total:      total,
		FinishedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err == nil {
		s.setCacheBestEffort(ctx, lastImportKey(slug), string(receipt))
	}

	logging.Info(ctx, "import finished", slog.Int64("total_issues_imported", total))

	return ImportProjectResult{
		RunID:               runID,
		ProjectID:           projectID,
		TotalIssuesImported: total,
	}, nil
}

func (s *Service) importRepository(ctx context.Context, projectID uint64, link RepositoryLink) (int64, error) {
	info, err := kudos.ParseRepoURL(link.URL)
	if err != nil {
		return 0, err
	}

	ctx = logging.WithAttrs(
		ctx,
		slog.String("owner", info.Owner),
		slog.String("name", info.Name),
	)

	repositoryID, err := s.store.CreateRepository(ctx, link.Label, projectID)
	if err != nil {
		return 0, err
	}

	items, err := s.source.ListOpenIssues(ctx, info.Owner, info.Name)
	if err != nil {
		return 0, err
	}

	issues := kudos.CanonicalIssues(items)

	count, err := s.store.InsertIssues(ctx, repositoryID, issues)
	if err != nil {
		return 0, err
	}

	logging.Info(
		ctx,
		"repository imported",
		slog.Uint64("repository_id", repositoryID),
		slog.Int("fetched", len(items)),
		slog.Int("surviving", len(issues)),
		slog.Int64("inserted", count),
	)
	return count, nil
}
