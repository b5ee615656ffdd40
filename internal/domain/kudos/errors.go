package kudos

import "fmt"

// IdentityResolutionError reports a repository URL that does not carry at
// least two non-empty path segments.
type IdentityResolutionError struct {
	URL string
}

func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve owner/name from repository url %q", e.URL)
}

// UpstreamAPIError reports a failed open-issue listing: network failure, auth
// failure, or a non-success status from the issue tracker.
type UpstreamAPIError struct {
	Owner string
	Name  string
	Err   error
}

func (e *UpstreamAPIError) Error() string {
	return fmt.Sprintf("list open issues for %s/%s: %v", e.Owner, e.Name, e.Err)
}

func (e *UpstreamAPIError) Unwrap() error { return e.Err }

// StoreWriteError reports a failed insert: connection failure or constraint
// violation.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }
