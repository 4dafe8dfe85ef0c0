// Package dirsaver writes archives into a directory through a billy
// filesystem, so exports can target the host disk, a chroot jail, or an
// in-memory filesystem alike.
package dirsaver

import (
	"context"
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

type dirSaver struct {
	fsys billy.Filesystem
}

// New returns a saver that writes into fsys.
func New(fsys billy.Filesystem) *dirSaver {
	return &dirSaver{fsys: fsys}
}

// NewDir returns a saver rooted at dir on the host filesystem. Filenames
// cannot escape dir.
func NewDir(dir string) *dirSaver {
	return New(osfs.New(dir))
}

func (s *dirSaver) Save(_ context.Context, filename string, data []byte) error {
	if dir := path.Dir(filename); dir != "." && dir != "/" {
		if err := s.fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	f, err := s.fsys.Create(filename)
	if err != nil {
		return fmt.Errorf("create %q: %w", filename, err)
	}
	if _, err = f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %q: %w", filename, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", filename, err)
	}
	return nil
}
