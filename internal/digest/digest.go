package digest

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
)

// MD5File computes the hex-encoded MD5 of the file at path, streaming so
// large feed files never need to fit in memory.
func MD5File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for digest: %w", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
