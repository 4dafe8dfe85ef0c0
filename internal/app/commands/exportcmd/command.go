package exportcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sitepack/sitepack/exporter"
	"github.com/sitepack/sitepack/internal/app/command"
	"github.com/sitepack/sitepack/manifest"
	"github.com/sitepack/sitepack/saver"
	"github.com/sitepack/sitepack/saver/dirsaver"
	"github.com/sitepack/sitepack/saver/s3saver"
	"github.com/sitepack/sitepack/vtree"
)

type ExportOptions struct {
	Format     ArchiveFormat
	Prefix     string
	Name       string
	StatePath  string
	HTMLPath   string
	CSSPath    string
	S3Bucket   string
	S3Prefix   string
	S3Region   string
	S3Endpoint string
}

func New(ctx context.Context) *cobra.Command {
	exportOpts := ExportOptions{Format: ArchiveFormatZip}
	cmd := &cobra.Command{
		Use:   "export [<manifest>...]",
		Short: "export site manifests into archives",
		Long: "Export resolves each manifest into a file tree and archives it. " +
			"Without manifests it exports the default page layout, which needs " +
			"a state snapshot to render from.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir, err := command.GetOutputDir(cmd)
			if err != nil {
				return fmt.Errorf("get output directory: %w", err)
			}

			return command.WrapError(execute(ctx, outputDir, args, exportOpts))
		},
	}

	command.AddOutputDirFlag(cmd)
	cmd.Flags().VarP(&exportOpts.Format, "format", "f", "archive format, one of "+strings.Join(ListArchiveFormats, ","))
	cmd.Flags().StringVar(&exportOpts.Prefix, "prefix", "", "archive name prefix, defaults to the manifest name")
	cmd.Flags().StringVar(&exportOpts.Name, "name", "", "exact archive filename, disables the timestamped name")
	cmd.Flags().StringVar(&exportOpts.StatePath, "state", "", "JSON state snapshot that fills page providers")
	cmd.Flags().StringVar(&exportOpts.HTMLPath, "html-path", "", "state path of the page markup")
	cmd.Flags().StringVar(&exportOpts.CSSPath, "css-path", "", "state path of the page styles")
	cmd.Flags().StringVar(&exportOpts.S3Bucket, "s3-bucket", "", "upload archives to this S3 bucket instead of the output directory")
	cmd.Flags().StringVar(&exportOpts.S3Prefix, "s3-prefix", "", "key prefix for uploaded archives")
	cmd.Flags().StringVar(&exportOpts.S3Region, "s3-region", "", "region of the S3 bucket")
	cmd.Flags().StringVar(&exportOpts.S3Endpoint, "s3-endpoint", "", "endpoint URL for S3-compatible storage")
	return cmd
}

func execute(ctx context.Context, outputDir string, manifests []string, opts ExportOptions) error {
	if len(manifests) == 0 && opts.StatePath == "" {
		return errors.New("nothing to export, pass a manifest or --state")
	}
	if opts.Name != "" && len(manifests) > 1 {
		return fmt.Errorf("--name fixes one filename, cannot export %d manifests with it", len(manifests))
	}

	sv, err := newSaver(ctx, outputDir, opts)
	if err != nil {
		return fmt.Errorf("build saver: %w", err)
	}

	src, err := newSource(opts)
	if err != nil {
		return err
	}

	exp, err := exporter.New(
		exporter.WithBuilder(opts.Format.NewBuilder),
		exporter.WithSaver(sv),
	)
	if err != nil {
		return fmt.Errorf("build exporter: %w", err)
	}

	if len(manifests) == 0 {
		slog.Info("Exporting default page layout", slog.String("format", string(opts.Format)))
		return exp.Run(ctx, src, nameOptions(opts.Prefix, opts.Name)...)
	}

	slog.Info("Exporting manifests", slog.Int("count", len(manifests)), slog.String("format", string(opts.Format)))

	// Failing manifests do not stop their siblings, Wait reports the
	// first failure after all runs finish.
	var g errgroup.Group
	for _, pth := range manifests {
		g.Go(func() error {
			m, err := manifest.Load(pth)
			if err != nil {
				return err
			}
			runOpts := append(
				[]exporter.Option{exporter.WithRoot(m.Root)},
				nameOptions(prefixFor(pth, opts.Prefix), opts.Name)...,
			)
			return exp.Run(ctx, src, runOpts...)
		})
	}
	return g.Wait()
}

func nameOptions(prefix, name string) []exporter.Option {
	var runOpts []exporter.Option
	if prefix != "" {
		runOpts = append(runOpts, exporter.WithFilenamePrefix(prefix))
	}
	if name != "" {
		runOpts = append(runOpts, exporter.WithFilename(func(context.Context, vtree.Source) (string, error) {
			return name, nil
		}))
	}
	return runOpts
}

func prefixFor(manifestPath, override string) string {
	if override != "" {
		return override
	}
	base := filepath.Base(manifestPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newSource(opts ExportOptions) (vtree.Source, error) {
	if opts.StatePath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(opts.StatePath)
	if err != nil {
		return nil, fmt.Errorf("read state snapshot: %w", err)
	}
	state, err := exporter.NewJSONState(data)
	if err != nil {
		return nil, fmt.Errorf("parse state snapshot: %w", err)
	}
	state.HTMLPath = opts.HTMLPath
	state.CSSPath = opts.CSSPath
	return state, nil
}

func newSaver(ctx context.Context, outputDir string, opts ExportOptions) (saver.Saver, error) {
	if opts.S3Bucket == "" {
		return dirsaver.NewDir(outputDir), nil
	}
	return s3saver.New(ctx, s3saver.Config{
		Bucket:    opts.S3Bucket,
		KeyPrefix: opts.S3Prefix,
		Region:    opts.S3Region,
		Endpoint:  opts.S3Endpoint,
	})
}
