package transfer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/jlaffaye/ftp"
)

// ftpSession adapts a jlaffaye ServerConn. FTP keeps a single working
// directory per connection, so listing has to save and restore it.
type ftpSession struct {
	conn   *ftp.ServerConn
	closed bool
}

func dialFTP(ep Endpoint) (Session, error) {
	conn, err := ftp.Dial(ep.addr(), ftp.DialWithTimeout(ep.Timeout))
	if err != nil {
		return nil, &OpError{Op: "connect", Err: err}
	}

	if err := conn.Login(ep.Username, ep.Password); err != nil {
		conn.Quit()
		return nil, &OpError{Op: "connect", Err: err}
	}

	return &ftpSession{conn: conn}, nil
}

func (s *ftpSession) List(dir string) ([]string, error) {
	orig, err := s.conn.CurrentDir()
	if err != nil {
		return nil, &OpError{Op: "list", Path: dir, Err: err}
	}
	if err := s.conn.ChangeDir(dir); err != nil {
		return nil, &OpError{Op: "list", Path: dir, Err: err}
	}

	names, listErr := s.conn.NameList("")

	// Restore the working directory even when the listing failed, so the
	// next call on this session does not inherit dir.
	if err := s.conn.ChangeDir(orig); err != nil && listErr == nil {
		listErr = err
	}
	if listErr != nil {
		return nil, &OpError{Op: "list", Path: dir, Err: listErr}
	}
	return names, nil
}

// Stat asks the server for SIZE. Plenty of FTP servers reject the command,
// so a refusal degrades to size-unknown instead of an error.
func (s *ftpSession) Stat(path string) (Stat, error) {
	size, err := s.conn.FileSize(path)
	if err != nil {
		return Stat{}, nil
	}
	return Stat{Size: &size}, nil
}

func (s *ftpSession) Retrieve(remotePath, localPath string) error {
	r, err := s.conn.Retr(remotePath)
	if err != nil {
		return &OpError{Op: "retrieve", Path: remotePath, Err: err}
	}
	defer r.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return &OpError{Op: "retrieve", Path: remotePath, Err: err}
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return &OpError{Op: "retrieve", Path: remotePath, Err: err}
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return &OpError{Op: "retrieve", Path: remotePath, Err: err}
	}
	return nil
}

func (s *ftpSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Quit()
}
