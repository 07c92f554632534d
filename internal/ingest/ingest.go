package ingest

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/costfeed/internal/catalog"
	"github.com/gyeh/costfeed/internal/config"
	"github.com/gyeh/costfeed/internal/model"
	"github.com/gyeh/costfeed/internal/transfer"
)

// PipelineError wraps a batch-fatal error with the phase where it occurred.
// Per-file failures never surface this way; they land in Outcome.Errors.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// DialFunc opens a transfer session for an endpoint.
type DialFunc func(transfer.Endpoint) (transfer.Session, error)

// Ingestor pulls matching files from one remote endpoint into local storage.
// Each ListRemote/DownloadAll call opens and closes its own session; nothing
// is held between calls.
type Ingestor struct {
	cfg  *config.Config
	log  zerolog.Logger
	dial DialFunc
}

func New(cfg *config.Config, log zerolog.Logger) *Ingestor {
	return NewWithDialer(cfg, log, transfer.Dial)
}

// NewWithDialer lets callers substitute the session dialer.
func NewWithDialer(cfg *config.Config, log zerolog.Logger, dial DialFunc) *Ingestor {
	return &Ingestor{cfg: cfg, log: log, dial: dial}
}

// ListRemote returns the descriptors of every remote file matching the
// configured glob, with best-effort sizes.
func (ing *Ingestor) ListRemote() ([]model.FileDescriptor, error) {
	sess, err := ing.dial(ing.cfg.Endpoint())
	if err != nil {
		return nil, &PipelineError{Phase: "connect", Err: err}
	}
	defer sess.Close()

	descs, err := catalog.List(sess, ing.cfg.RemoteDir, ing.cfg.FilenameGlob, ing.cfg.MD5Sums)
	if err != nil {
		return nil, &PipelineError{Phase: "list", Err: err}
	}
	return descs, nil
}

// DownloadAll runs one complete pass: list, then download and validate each
// match in listing order. A failed file is recorded in the outcome and the
// pass moves on; only connect and list failures abort the batch. The session
// is closed on every exit path.
func (ing *Ingestor) DownloadAll() (*model.Outcome, *model.PullSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New()
	log := ing.log.With().Str("batch_id", batchID.String()).Logger()

	log.Info().
		Str("transport", ing.cfg.Transport).
		Str("host", ing.cfg.Host).
		Str("remote_dir", ing.cfg.RemoteDir).
		Msg("connecting")

	connectStart := time.Now()
	sess, err := ing.dial(ing.cfg.Endpoint())
	if err != nil {
		return nil, nil, &PipelineError{Phase: "connect", Err: err}
	}
	defer sess.Close()
	connectDur := time.Since(connectStart)

	listStart := time.Now()
	descs, err := catalog.List(sess, ing.cfg.RemoteDir, ing.cfg.FilenameGlob, ing.cfg.MD5Sums)
	if err != nil {
		return nil, nil, &PipelineError{Phase: "list", Err: err}
	}
	listDur := time.Since(listStart)
	log.Info().Int("matched", len(descs)).Str("glob", ing.cfg.FilenameGlob).Msg("listing complete")

	outcome := &model.Outcome{}
	downloadStart := time.Now()

	for _, desc := range descs {
		localPath := filepath.Join(ing.cfg.LocalDir, path.Base(desc.RemotePath))

		log.Info().Str("remote", desc.RemotePath).Str("local", localPath).Msg("downloading")
		if err := sess.Retrieve(desc.RemotePath, localPath); err != nil {
			log.Warn().Err(err).Str("remote", desc.RemotePath).Msg("download failed")
			// OpError already names the path; unwrap so the report does not
			// repeat it.
			msg := err.Error()
			var oe *transfer.OpError
			if errors.As(err, &oe) {
				msg = oe.Err.Error()
			}
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %s", desc.RemotePath, msg))
			continue
		}

		if res := Validate(desc, localPath, ing.cfg); !res.OK {
			log.Warn().
				Str("remote", desc.RemotePath).
				Strs("reasons", res.Reasons).
				Msg("validation failed, local copy untrusted")
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("validation failed for %s: %s", desc.RemotePath, strings.Join(res.Reasons, ", ")))
			continue
		}

		outcome.Downloaded = append(outcome.Downloaded, localPath)
	}

	summary := &model.PullSummary{
		BatchID:          batchID.String(),
		FilesListed:      len(descs),
		FilesDownloaded:  len(outcome.Downloaded),
		FilesFailed:      len(outcome.Errors),
		DurationConnect:  connectDur,
		DurationList:     listDur,
		DurationDownload: time.Since(downloadStart),
		DurationTotal:    time.Since(totalStart),
	}

	log.Info().
		Int("listed", summary.FilesListed).
		Int("downloaded", summary.FilesDownloaded).
		Int("failed", summary.FilesFailed).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("pull complete")

	return outcome, summary, nil
}
