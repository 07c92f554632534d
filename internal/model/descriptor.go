package model

// FileDescriptor identifies one remote file and whatever metadata is known
// about it before download. Size and MD5 are nil when the server (or the
// caller) did not supply them; consumers must branch on presence.
type FileDescriptor struct {
	RemotePath string
	Size       *int64
	MD5        *string
}

// Outcome aggregates the result of one download pass. Entries appear in
// remote listing order. Skipped is reserved for a future skip-existing-file
// policy and is never populated today.
type Outcome struct {
	Downloaded []string
	Skipped    []string
	Errors     []string
}

// ValidationResult is the per-file verdict of the post-download checks.
// When OK is false, Reasons holds every violated check, not just the first.
type ValidationResult struct {
	OK      bool
	Reasons []string
}
