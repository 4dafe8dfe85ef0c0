package fsutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rogpeppe/go-internal/dirhash"
	"github.com/zeebo/xxh3"
)

// HashFiles fingerprints a set of named contents in the go.sum dirhash
// line format, with xxh3 as the hash. The result is stable across orderings
// of files.
func HashFiles(files []string, open func(string) (io.ReadCloser, error)) (string, error) {
	h := xxh3.New()
	files = append([]string(nil), files...)
	sort.Strings(files)
	for _, file := range files {
		if strings.Contains(file, "\n") {
			return "", errors.New("dirhash: filenames with newlines are not supported")
		}
		r, err := open(file)
		if err != nil {
			return "", err
		}
		hf := xxh3.New()
		_, err = io.Copy(hf, r)
		r.Close()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%x  %s\n", hf.Sum(nil), file)
	}
	return "xxh3:" + base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// FileChecksum fingerprints a single file on disk.
func FileChecksum(filePath string) (string, error) {
	return HashFiles([]string{filePath}, func(name string) (io.ReadCloser, error) {
		return os.Open(name)
	})
}

// DirFingerprint fingerprints a directory tree on disk. Two trees with the
// same relative paths and contents produce the same fingerprint.
func DirFingerprint(dir string) (string, error) {
	return dirhash.HashDir(dir, "", HashFiles)
}
