package initcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sitepack/sitepack/exporter"
	"github.com/sitepack/sitepack/fsutil"
	"github.com/sitepack/sitepack/internal/app/command"
	"github.com/sitepack/sitepack/vtree"
)

type InitOptions struct {
	From string
}

func New(ctx context.Context) *cobra.Command {
	initOpts := InitOptions{}
	cmd := &cobra.Command{
		Use:   "init [<dir>]",
		Short: "scaffold a site directory with a starter manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetDir := "."
			if len(args) > 0 {
				targetDir = args[0]
			}

			return command.WrapError(execute(ctx, targetDir, initOpts))
		},
	}

	cmd.Flags().StringVar(&initOpts.From, "from", "", "seed the public directory from an existing directory")
	return cmd
}

const starterManifest = `version: "1.0"
root:
  $include: ./public
`

var starterPage = exporter.StaticState{
	Body:   "<h1>My site</h1>\n<p>Edit public/index.html to get started.</p>",
	Styles: "body {\n  font-family: sans-serif;\n  margin: 2rem;\n}\n",
}

func execute(ctx context.Context, targetDir string, opts InitOptions) error {
	manifestPath := filepath.Join(targetDir, "site.yaml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("%s already exists", manifestPath)
	}

	publicDir := filepath.Join(targetDir, "public")
	if opts.From != "" {
		if err := fsutil.ReplaceWithCopy(opts.From, publicDir); err != nil {
			return fmt.Errorf("seed public directory: %w", err)
		}
	} else if err := writeStarterPage(ctx, publicDir); err != nil {
		return err
	}

	if err := os.WriteFile(manifestPath, []byte(starterManifest), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	fp, err := fsutil.DirFingerprint(publicDir)
	if err != nil {
		return fmt.Errorf("fingerprint public directory: %w", err)
	}

	slog.Info("Site scaffolded",
		slog.String("manifest", manifestPath),
		slog.String("fingerprint", fp))
	return nil
}

// writeStarterPage renders the default page layout once and writes the
// result under publicDir.
func writeStarterPage(ctx context.Context, publicDir string) error {
	rec := &vtree.Recorder{}
	var r vtree.Resolver
	if err := r.Resolve(ctx, exporter.DefaultRoot(), starterPage, rec); err != nil {
		return fmt.Errorf("render starter page: %w", err)
	}

	for _, f := range rec.Files() {
		pth := filepath.Join(publicDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(pth), os.ModePerm); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(pth), err)
		}
		if err := os.WriteFile(pth, f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", pth, err)
		}
	}
	return nil
}
