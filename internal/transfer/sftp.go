package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// sftpSession authenticates once and issues every list/stat/retrieve over
// the same SSH channel.
type sftpSession struct {
	conn   *ssh.Client
	client *sftp.Client
	closed bool
}

func dialSFTP(ep Endpoint) (Session, error) {
	cfg := &ssh.ClientConfig{
		User: ep.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(ep.Password),
		},
		// Batch hosts are provisioned out of band; pinning host keys is the
		// deployment's job, not this client's.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         ep.Timeout,
	}

	conn, err := ssh.Dial("tcp", ep.addr(), cfg)
	if err != nil {
		return nil, &OpError{Op: "connect", Err: err}
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, &OpError{Op: "connect", Err: fmt.Errorf("open sftp subsystem: %w", err)}
	}

	return &sftpSession{conn: conn, client: client}, nil
}

func (s *sftpSession) List(dir string) ([]string, error) {
	entries, err := s.client.ReadDir(dir)
	if err != nil {
		return nil, &OpError{Op: "list", Path: dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *sftpSession) Stat(path string) (Stat, error) {
	fi, err := s.client.Stat(path)
	if err != nil {
		return Stat{}, &OpError{Op: "stat", Path: path, Err: err}
	}
	size := fi.Size()
	return Stat{Size: &size}, nil
}

func (s *sftpSession) Retrieve(remotePath, localPath string) error {
	src, err := s.client.Open(remotePath)
	if err != nil {
		return &OpError{Op: "retrieve", Path: remotePath, Err: err}
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return &OpError{Op: "retrieve", Path: remotePath, Err: err}
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return &OpError{Op: "retrieve", Path: remotePath, Err: err}
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return &OpError{Op: "retrieve", Path: remotePath, Err: err}
	}
	return nil
}

func (s *sftpSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs *multierror.Error
	if err := s.client.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := s.conn.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}
