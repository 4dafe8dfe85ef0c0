// Package manifest loads declarative site trees from YAML or JSON files.
//
// A manifest maps names to file content or nested directories, in document
// order. A mapping whose only key is "$include" pulls a directory from disk
// into the tree at resolution time.
package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/sitepack/sitepack/fsutil"
	"github.com/sitepack/sitepack/vtree"
)

// SupportedMajor is the highest manifest format major version this build
// understands. Minor bumps are assumed to be backward compatible.
const SupportedMajor = 1

const includeKey = "$include"

// Manifest is a site tree loaded from a manifest file. Root is either a
// directory or a provider that yields one.
type Manifest struct {
	Version string
	Root    vtree.Node
}

// Load reads a manifest file, picking the parser by extension. Relative
// $include targets resolve against the manifest's directory.
func Load(pth string) (*Manifest, error) {
	data, err := os.ReadFile(pth)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m *Manifest
	baseDir := filepath.Dir(pth)
	switch strings.ToLower(filepath.Ext(pth)) {
	case ".json":
		m, err = ParseJSON(data, baseDir)
	case ".yaml", ".yml":
		m, err = ParseYAML(data, baseDir)
	default:
		return nil, fmt.Errorf("%s: unsupported manifest extension", pth)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pth, err)
	}
	return m, nil
}

func checkVersion(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("$.version: invalid version %s: %w", version, err)
	}
	if v.Major > SupportedMajor {
		return fmt.Errorf("$.version: manifest version %s is not supported, expected %d.x", version, SupportedMajor)
	}
	return nil
}

func includeNode(baseDir, target, pth string) (vtree.Node, error) {
	if target == "" {
		return nil, fmt.Errorf("%s: include target cannot be empty", pth)
	}
	dir := target
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, dir)
	}
	return includeProvider(dir), nil
}

// includeProvider defers the directory read to resolution time, so an export
// always sees the directory's current contents.
func includeProvider(dir string) vtree.Provider {
	inner := vtree.FromFS(os.DirFS(dir))
	return func(ctx context.Context, src vtree.Source) (vtree.Node, error) {
		if slog.Default().Enabled(ctx, slog.LevelDebug) {
			if fp, err := fsutil.DirFingerprint(dir); err == nil {
				slog.Debug("Bundling directory", slog.String("dir", dir), slog.String("fingerprint", fp))
			}
		}
		node, err := inner(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("include %s: %w", dir, err)
		}
		return node, nil
	}
}
