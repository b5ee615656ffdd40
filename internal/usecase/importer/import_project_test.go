package importer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"kudosimport/internal/domain/kudos"
	"kudosimport/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "kudosimport/internal/infrastructure/persistence/sqlite/repository"
	"kudosimport/internal/ports"
)

type testCache struct {
	data map[string]string
}

func newTestCache() *testCache {
	return &testCache{
		data: make(map[string]string),
	}
}

func (c *testCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *testCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *testCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

// stubSource serves canned pages per owner/name and records fetch order.
type stubSource struct {
	pages map[string][]kudos.TrackerIssue
	fails map[string]error
	calls []string
}

func newStubSource() *stubSource {
	return &stubSource{
		pages: make(map[string][]kudos.TrackerIssue),
		fails: make(map[string]error),
	}
}

func (s *stubSource) ListOpenIssues(_ context.Context, owner string, name string) ([]kudos.TrackerIssue, error) {
	key := owner + "/" + name
	s.calls = append(s.calls, key)
	if err := s.fails[key]; err != nil {
		return nil, err
	}
	return s.pages[key], nil
}

// failingStore fails the nth issue batch insert and delegates otherwise.
type failingStore struct {
	ports.ImportStore
	failOnBatch int
	batches     int
}

func (f *failingStore) InsertIssues(ctx context.Context, repositoryID uint64, issues []kudos.Issue) (int64, error) {
	f.batches++
	if f.batches == f.failOnBatch {
		return 0, &kudos.StoreWriteError{Op: "insert issues", Err: errors.New("constraint violation")}
	}
	return f.ImportStore.InsertIssues(ctx, repositoryID, issues)
}

func setupService(t *testing.T) (*Service, *stubSource, *testCache, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Project{},
		&model.Repository{},
		&model.Issue{},
		&model.ImportKV{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	source := newStubSource()
	cache := newTestCache()
	svc := NewService(sqliterepo.NewImportRepository(db), source, cache)
	return svc, source, cache, db
}

func openIssues(numbers ...int) []kudos.TrackerIssue {
	items := make([]kudos.TrackerIssue, 0, len(numbers))
	for _, n := range numbers {
		items = append(items, kudos.TrackerIssue{
			Number:    n,
			Title:     "issue",
			CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Author:    "alice",
		})
	}
	return items
}

func sampleInput(urls ...string) ImportProjectInput {
	repositories := make([]RepositoryLink, 0, len(urls))
	for _, url := range urls {
		repositories = append(repositories, RepositoryLink{Label: "repo", URL: url})
	}
	return ImportProjectInput{
		Name: "Acme Tools",
		Slug: "acme-tools",
		Attributes: ProjectAttributes{
			Purposes:     []string{"education"},
			StackLevels:  []string{"backend"},
			Technologies: []string{"go"},
			Types:        []string{"oss"},
		},
		Repositories: repositories,
	}
}

func TestImportProjectAccumulatesTotals(t *testing.T) {
	svc, source, cache, db := setupService(t)
	ctx := context.Background()

	// First repository yields 3 open issues, second yields none: the second
	// batch insert is skipped and the total is 3.
	source.pages["acme/widgets"] = openIssues(1, 2, 3)
	source.pages["acme/gadgets"] = nil

	result, err := svc.ImportProject(ctx, sampleInput(
		"https://github.com/acme/widgets/",
		"https://github.com/acme/gadgets",
	))
	if err != nil {
		t.Fatalf("ImportProject() error = %v", err)
	}

	if result.TotalIssuesImported != 3 {
		t.Fatalf("total = %d, want 3", result.TotalIssuesImported)
	}
	if result.ProjectID == 0 {
		t.Fatal("ProjectID = 0, want generated id")
	}
	if result.RunID == "" {
		t.Fatal("RunID is empty")
	}

	var repoCount int64
	if err := db.Model(&model.Repository{}).Count(&repoCount).Error; err != nil {
		t.Fatalf("count repositories: %v", err)
	}
	if repoCount != 2 {
		t.Fatalf("repository rows = %d, want 2", repoCount)
	}

	var issueCount int64
	if err := db.Model(&model.Issue{}).Count(&issueCount).Error; err != nil {
		t.Fatalf("count issues: %v", err)
	}
	if issueCount != 3 {
		t.Fatalf("issue rows = %d, want 3", issueCount)
	}

	receipt, ok := cache.data["import:last:acme-tools"]
	if !ok {
		t.Fatal("import receipt missing from cache")
	}
	if !strings.Contains(receipt, `"total":3`) {
		t.Fatalf("receipt = %s", receipt)
	}
}

func TestImportProjectFiltersPullRequests(t *testing.T) {
	svc, source, _, db := setupService(t)
	ctx := context.Background()

	// Five fetched items, two of them pull requests: three canonical issues.
	source.pages["acme/widgets"] = []kudos.TrackerIssue{
		{Number: 1},
		{Number: 2, PullRequest: true},
		{Number: 3},
		{Number: 4, PullRequest: true},
		{Number: 5},
	}

	result, err := svc.ImportProject(ctx, sampleInput("https://github.com/acme/widgets"))
	if err != nil {
		t.Fatalf("ImportProject() error = %v", err)
	}
	if result.TotalIssuesImported != 3 {
		t.Fatalf("total = %d, want 3", result.TotalIssuesImported)
	}

	var rows []model.Issue
	if err := db.Order("issue_id asc").Find(&rows).Error; err != nil {
		t.Fatalf("query issues: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("issue rows = %d, want 3", len(rows))
	}
	for i, want := range []int64{1, 3, 5} {
		if rows[i].Number != want {
			t.Fatalf("rows[%d].Number = %d, want %d", i, rows[i].Number, want)
		}
	}
}

func TestImportProjectBadRepoURLAborts(t *testing.T) {
	svc, source, cache, db := setupService(t)
	ctx := context.Background()

	_, err := svc.ImportProject(ctx, sampleInput("widgets"))
	if err == nil {
		t.Fatal("ImportProject() error = nil, want IdentityResolutionError")
	}

	var identityErr *kudos.IdentityResolutionError
	if !errors.As(err, &identityErr) {
		t.Fatalf("error = %T, want *IdentityResolutionError", err)
	}
	if len(source.calls) != 0 {
		t.Fatalf("fetch calls = %v, want none", source.calls)
	}

	// The project row was written before the failure and stays durable.
	var projectCount int64
	if err := db.Model(&model.Project{}).Count(&projectCount).Error; err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if projectCount != 1 {
		t.Fatalf("project rows = %d, want 1", projectCount)
	}

	if _, ok := cache.data["import:last:acme-tools"]; ok {
		t.Fatal("receipt written for failed import")
	}
}

func TestImportProjectUpstreamFailureAbortsRemaining(t *testing.T) {
	svc, source, _, db := setupService(t)
	ctx := context.Background()

	source.pages["acme/first"] = openIssues(1, 2)
	source.fails["acme/second"] = &kudos.UpstreamAPIError{Owner: "acme", Name: "second", Err: errors.New("boom")}
	source.pages["acme/third"] = openIssues(3)

	_, err := svc.ImportProject(ctx, sampleInput(
		"https://github.com/acme/first",
		"https://github.com/acme/second",
		"https://github.com/acme/third",
	))

	var upstreamErr *kudos.UpstreamAPIError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("error = %v, want *UpstreamAPIError", err)
	}

	// The third repository is never attempted.
	if len(source.calls) != 2 {
		t.Fatalf("fetch calls = %v, want first and second only", source.calls)
	}

	// The first repository's issues stay persisted; no rollback happens.
	var issueCount int64
	if err := db.Model(&model.Issue{}).Count(&issueCount).Error; err != nil {
		t.Fatalf("count issues: %v", err)
	}
	if issueCount != 2 {
		t.Fatalf("issue rows = %d, want 2", issueCount)
	}
}

func TestImportProjectStoreFailureAbortsRemaining(t *testing.T) {
	svc, source, _, db := setupService(t)
	ctx := context.Background()

	source.pages["acme/first"] = openIssues(1, 2, 3)
	source.pages["acme/second"] = openIssues(4)
	source.pages["acme/third"] = openIssues(5)

	svc.store = &failingStore{ImportStore: svc.store, failOnBatch: 2}

	_, err := svc.ImportProject(ctx, sampleInput(
		"https://github.com/acme/first",
		"https://github.com/acme/second",
		"https://github.com/acme/third",
	))

	var storeErr *kudos.StoreWriteError
	if !errors.As(err, &storeErr) {
		t.Fatalf("error = %v, want *StoreWriteError", err)
	}

	if len(source.calls) != 2 {
		t.Fatalf("fetch calls = %v, want 2", source.calls)
	}

	var issueCount int64
	if err := db.Model(&model.Issue{}).Count(&issueCount).Error; err != nil {
		t.Fatalf("count issues: %v", err)
	}
	if issueCount != 3 {
		t.Fatalf("issue rows = %d, want first repository's 3", issueCount)
	}
}

func TestImportProjectValidatesInput(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.ImportProject(ctx, ImportProjectInput{Slug: "s"}); err == nil {
		t.Fatal("missing name: error = nil")
	}
	if _, err := svc.ImportProject(ctx, ImportProjectInput{Name: "n"}); err == nil {
		t.Fatal("missing slug: error = nil")
	}
}

func TestImportProjectNoRepositories(t *testing.T) {
	svc, _, cache, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.ImportProject(ctx, sampleInput())
	if err != nil {
		t.Fatalf("ImportProject() error = %v", err)
	}
	if result.TotalIssuesImported != 0 {
		t.Fatalf("total = %d, want 0", result.TotalIssuesImported)
	}
	if _, ok := cache.data["import:last:acme-tools"]; !ok {
		t.Fatal("receipt missing for empty import")
	}
}
