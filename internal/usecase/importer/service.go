package importer

import (
	"context"
	"fmt"

	"kudosimport/internal/ports"
)

// Service drives project imports against the store and the issue source.
type Service struct {
	store  ports.ImportStore
	source ports.IssueSource
	cache  ports.Cache
}

// NewService wires the import pipeline; cache is optional.
func NewService(store ports.ImportStore, source ports.IssueSource, cache ports.Cache) *Service {
	return &Service{
		store:  store,
		source: source,
		cache:  cache,
	}
}

type RepositoryLink struct {
	Label string
	URL   string
}

type ProjectAttributes struct {
	Purposes     []string
	StackLevels  []string
	Technologies []string
	Types        []string
}

type ImportProjectInput struct {
	Name         string
	Slug         string
	Attributes   ProjectAttributes
	Repositories []RepositoryLink
}

type ImportProjectResult struct {
	RunID               string
	ProjectID           uint64
	TotalIssuesImported int64
}

func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, value, 0)
}

func lastImportKey(slug string) string {
	return fmt.Sprintf("import:last:%s", slug)
}
