package tracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"kudosimport/internal/bootstrap/config"
	"kudosimport/internal/bootstrap/logging"
	"kudosimport/internal/domain/kudos"
	"kudosimport/internal/errs"
	"kudosimport/internal/ports"
)

// GitHubSource implements ports.IssueSource over the GitHub REST API.
//
// Only the first page of open issues is requested. A repository with more
// open issues than the page size has the remainder omitted; a full page is
// logged as a warning so operators can spot truncated imports.
type GitHubSource struct {
	client   *gh.Client
	pageSize int
	timeout  time.Duration
}

var _ ports.IssueSource = (*GitHubSource)(nil)

// NewGitHubSource builds a source from config: GitHub App installation auth
// when app credentials are set, bearer token auth when a token is set,
// unauthenticated otherwise.
func NewGitHubSource(ctx context.Context, cfg config.GitHubConfig) (*GitHubSource, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var httpClient *http.Client
	switch {
	case cfg.AppID != 0 && cfg.InstallationID != 0 && cfg.PrivateKeyPath != "":
		transport, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.AppID, cfg.InstallationID, cfg.PrivateKeyPath)
		if err != nil {
			return nil, errs.Wrap(err, "build github app transport")
		}
		httpClient = &http.Client{Transport: transport}
	case cfg.Token != "":
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	}

	client := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		enterprise, err := client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, errs.Wrap(err, "set github base url")
		}
		client = enterprise
	}

	return NewGitHubSourceWithClient(client, cfg.PageSize, cfg.Timeout), nil
}

// NewGitHubSourceWithClient wires a prebuilt client; tests pair it with an
// httptest server via WithEnterpriseURLs.
func NewGitHubSourceWithClient(client *gh.Client, pageSize int, timeout time.Duration) *GitHubSource {
	if pageSize < 1 || pageSize > 100 {
		pageSize = 100
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GitHubSource{
		client:   client,
		pageSize: pageSize,
		timeout:  timeout,
	}
}

func (s *GitHubSource) ListOpenIssues(ctx context.Context, owner string, name string) ([]kudos.TrackerIssue, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, _, err := s.client.Issues.ListByRepo(ctx, owner, name, &gh.IssueListByRepoOptions{
		State: "open",
		ListOptions: gh.ListOptions{
			PerPage: s.pageSize,
		},
	})
	if err != nil {
		return nil, &kudos.UpstreamAPIError{Owner: owner, Name: name, Err: err}
	}

	if len(items) == s.pageSize {
		logging.Warn(
			ctx,
			"open issue page is full, remainder is not fetched",
			slog.String("owner", owner),
			slog.String("name", name),
			slog.Int("page_size", s.pageSize),
		)
	}

	result := make([]kudos.TrackerIssue, 0, len(items))
	for _, item := range items {
		result = append(result, mapIssue(item))
	}
	return result, nil
}

func mapIssue(item *gh.Issue) kudos.TrackerIssue {
	labels := make([]string, 0, len(item.Labels))
	for _, label := range item.Labels {
		labels = append(labels, label.GetName())
	}

	return kudos.TrackerIssue{
		Number:      item.GetNumber(),
		Title:       item.GetTitle(),
		HTMLURL:     item.GetHTMLURL(),
		CreatedAt:   item.GetCreatedAt().Time,
		UpdatedAt:   item.GetUpdatedAt().Time,
		Author:      item.GetUser().GetLogin(),
		Labels:      labels,
		PullRequest: item.IsPullRequest(),
	}
}
