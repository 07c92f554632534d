package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/gyeh/costfeed/internal/config"
	"github.com/gyeh/costfeed/internal/digest"
	"github.com/gyeh/costfeed/internal/model"
)

// Validate runs the configured post-download checks on localPath against the
// descriptor's known metadata. A check whose expectation is absent (unknown
// remote size, no expected hash) is skipped, never failed. All violated
// checks are reported, not just the first.
func Validate(desc model.FileDescriptor, localPath string, cfg *config.Config) model.ValidationResult {
	var reasons []string

	if cfg.EnforceSizeMatch && desc.Size != nil {
		fi, err := os.Stat(localPath)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("stat local file: %v", err))
		} else if fi.Size() != *desc.Size {
			reasons = append(reasons, fmt.Sprintf("size mismatch local=%d remote=%d", fi.Size(), *desc.Size))
		}
	}

	if cfg.EnforceMD5Match && desc.MD5 != nil {
		sum, err := digest.MD5File(localPath)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("digest local file: %v", err))
		} else if !strings.EqualFold(sum, *desc.MD5) {
			reasons = append(reasons, fmt.Sprintf("md5 mismatch local=%s remote=%s", sum, *desc.MD5))
		}
	}

	return model.ValidationResult{OK: len(reasons) == 0, Reasons: reasons}
}
