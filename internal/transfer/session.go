package transfer

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Transport selects which protocol variant Dial opens.
const (
	TransportSFTP = "sftp"
	TransportFTP  = "ftp"
)

// Endpoint describes one remote server. Port 0 means the protocol default
// (22 for SFTP, 21 for FTP).
type Endpoint struct {
	Transport string
	Host      string
	Port      int
	Username  string
	Password  string
	Timeout   time.Duration
}

func (e Endpoint) addr() string {
	port := e.Port
	if port == 0 {
		if e.Transport == TransportFTP {
			port = 21
		} else {
			port = 22
		}
	}
	return net.JoinHostPort(e.Host, strconv.Itoa(port))
}

// Stat is the shared best-effort metadata shape for both variants.
// Size is nil when the server cannot report it.
type Stat struct {
	Size *int64
}

// Session is the narrow capability the ingest core needs from a transfer
// protocol. Implementations are not safe for concurrent use; one session
// serves one pass at a time.
type Session interface {
	// List returns the entry names in dir, in server order.
	List(dir string) ([]string, error)
	// Stat reports best-effort metadata for one remote path.
	Stat(path string) (Stat, error)
	// Retrieve copies the full remote byte stream to localPath, creating
	// missing parent directories.
	Retrieve(remotePath, localPath string) error
	// Close releases the underlying connection. Safe to call more than once.
	Close() error
}

// Dial opens a session for the endpoint's configured transport.
func Dial(ep Endpoint) (Session, error) {
	switch ep.Transport {
	case TransportSFTP:
		return dialSFTP(ep)
	case TransportFTP:
		return dialFTP(ep)
	default:
		return nil, fmt.Errorf("unknown transport %q", ep.Transport)
	}
}

// OpError wraps a failed session operation with the operation name and the
// remote path involved, so batch error reports stay readable.
type OpError struct {
	Op   string // "connect", "list", "stat" or "retrieve"
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
