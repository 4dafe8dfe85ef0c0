package exporter

import (
	"bytes"
	"io"

	"github.com/sitepack/sitepack/fsutil"
	"github.com/sitepack/sitepack/vtree"
)

// Digest fingerprints the resolved entries of an export. Two exports with
// the same paths and contents produce the same digest, regardless of
// archive format.
func Digest(files []vtree.RecordedFile) string {
	paths := make([]string, 0, len(files))
	byPath := make(map[string][]byte, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
		byPath[f.Path] = f.Content
	}
	digest, err := fsutil.HashFiles(paths, func(p string) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(byPath[p])), nil
	})
	if err != nil {
		// the digest is informational, never fail an export over it
		return ""
	}
	return digest
}
