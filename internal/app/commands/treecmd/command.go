package treecmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sitepack/sitepack/exporter"
	"github.com/sitepack/sitepack/internal/app/command"
	"github.com/sitepack/sitepack/manifest"
	"github.com/sitepack/sitepack/vtree"
)

func New(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <manifest>",
		Short: "list the files a manifest resolves to, without archiving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WrapError(execute(ctx, cmd.OutOrStdout(), args[0]))
		},
	}
}

func execute(ctx context.Context, out io.Writer, manifestPath string) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	rec := &vtree.Recorder{}
	var r vtree.Resolver
	if err := r.Resolve(ctx, m.Root, nil, rec); err != nil {
		return fmt.Errorf("resolve manifest tree: %w", err)
	}

	files := rec.Files()
	var total int
	for _, f := range files {
		kind := "text"
		if f.Binary {
			kind = "bin"
		}
		fmt.Fprintf(out, "%8d  %-4s  %s\n", len(f.Content), kind, f.Path)
		total += len(f.Content)
	}
	fmt.Fprintf(out, "%d files, %d bytes, digest %s\n", len(files), total, exporter.Digest(files))
	return nil
}
