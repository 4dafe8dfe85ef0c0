package vtree

import (
	"context"
	"fmt"
	"io/fs"
	"path"
)

// FromFS returns a Provider that mirrors fsys into the tree. The subtree
// is rebuilt on every resolution, so exports observe live file contents.
// Children appear in fs.ReadDir order.
func FromFS(fsys fs.FS) Provider {
	return func(_ context.Context, _ Source) (Node, error) {
		return dirFromFS(fsys, ".")
	}
}

func dirFromFS(fsys fs.FS, dir string) (Node, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}
	out := NewDir()
	for _, entry := range entries {
		name := entry.Name()
		sub := path.Join(dir, name)
		if entry.IsDir() {
			child, err := dirFromFS(fsys, sub)
			if err != nil {
				return nil, err
			}
			out.Set(name, child)
			continue
		}
		content, err := fs.ReadFile(fsys, sub)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", sub, err)
		}
		out.Set(name, Leaf(content))
	}
	return out, nil
}
