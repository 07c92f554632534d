package model

import "time"

// PullSummary captures metrics from a single download pass.
type PullSummary struct {
	BatchID          string
	FilesListed      int
	FilesDownloaded  int
	FilesFailed      int
	DurationConnect  time.Duration
	DurationList     time.Duration
	DurationDownload time.Duration
	DurationTotal    time.Duration
}
