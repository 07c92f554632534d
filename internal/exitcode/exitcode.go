package exitcode

const (
	Success        = 0
	UsageError     = 1
	ConnectError   = 2
	ListError      = 3
	PartialFailure = 4
	RenderError    = 5
	DBConnError    = 6
)
