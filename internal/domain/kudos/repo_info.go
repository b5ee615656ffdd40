package kudos

import "strings"

// RepoInfo identifies a repository on the upstream tracker. It is derived from
// a repository URL and never persisted.
type RepoInfo struct {
	Owner string
	Name  string
}

// ParseRepoURL takes the last two non-empty path segments of rawURL as
// (owner, name), after stripping a trailing slash. Segment contents are
// trusted verbatim; only the segment count is checked.
func ParseRepoURL(rawURL string) (RepoInfo, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(rawURL), "/")

	segments := make([]string, 0, 8)
	for _, part := range strings.Split(trimmed, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}

	if len(segments) < 2 {
		return RepoInfo{}, &IdentityResolutionError{URL: rawURL}
	}

	return RepoInfo{
		Owner: segments[len(segments)-2],
		Name:  segments[len(segments)-1],
	}, nil
}
