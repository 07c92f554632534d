// Package catalog turns a raw remote directory listing into file
// descriptors: glob filtering plus best-effort size metadata.
package catalog

import (
	"fmt"
	"path"
	"strings"

	"github.com/gyeh/costfeed/internal/model"
	"github.com/gyeh/costfeed/internal/transfer"
)

// List enumerates remoteDir through sess and returns a descriptor for every
// entry whose name matches glob (case-sensitive *, ? and [...] semantics).
// Order follows the server listing. A failed stat leaves that descriptor's
// size absent rather than failing the pass. Expected MD5s, keyed by entry
// name, are caller-supplied; servers do not publish them.
func List(sess transfer.Session, remoteDir, glob string, md5s map[string]string) ([]model.FileDescriptor, error) {
	entries, err := sess.List(remoteDir)
	if err != nil {
		return nil, err
	}

	var descs []model.FileDescriptor
	for _, name := range entries {
		matched, err := path.Match(glob, name)
		if err != nil {
			return nil, fmt.Errorf("bad filename glob %q: %w", glob, err)
		}
		if !matched {
			continue
		}

		remotePath := strings.TrimRight(remoteDir, "/") + "/" + name

		desc := model.FileDescriptor{RemotePath: remotePath}
		if st, err := sess.Stat(remotePath); err == nil {
			desc.Size = st.Size
		}
		if sum, ok := md5s[name]; ok {
			desc.MD5 = &sum
		}
		descs = append(descs, desc)
	}
	return descs, nil
}
