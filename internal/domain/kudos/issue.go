package kudos

import "time"

// TrackerIssue is one raw item from the upstream tracker's issue listing.
// GitHub's issues endpoint returns pull requests as issue-shaped objects;
// PullRequest marks those so the classifier can drop them.
type TrackerIssue struct {
	Number      int
	Title       string
	HTMLURL     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Author      string
	Labels      []string
	PullRequest bool
}

// Issue is the canonical, storage-ready record for a surviving tracker issue.
// Labels keep the upstream order and are not deduplicated.
type Issue struct {
	Number    int64
	Title     string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
	Author    string
	Labels    []string
}

// CanonicalIssues drops pull requests and maps the surviving items to
// canonical records, preserving the upstream order.
func CanonicalIssues(items []TrackerIssue) []Issue {
	issues := make([]Issue, 0, len(items))
	for _, item := range items {
		if item.PullRequest {
			continue
		}
		issues = append(issues, Issue{
			Number:    int64(item.Number),
			Title:     item.Title,
			URL:       item.HTMLURL,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
			Author:    item.Author,
			Labels:    item.Labels,
		})
	}
	return issues
}
