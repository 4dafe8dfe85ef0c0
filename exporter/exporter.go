// Package exporter resolves virtual trees into archives and hands them to
// a save mechanism.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitepack/sitepack/archiver"
	"github.com/sitepack/sitepack/archiver/zipbuilder"
	"github.com/sitepack/sitepack/saver"
	"github.com/sitepack/sitepack/saver/dirsaver"
	"github.com/sitepack/sitepack/vtree"
)

// DefaultFilenamePrefix names archives when no prefix or filename is
// configured.
const DefaultFilenamePrefix = "site"

// FilenameFunc produces the full archive filename for a run. Its result
// is used verbatim; no prefix, timestamp, or extension is appended.
type FilenameFunc func(ctx context.Context, src vtree.Source) (string, error)

// Exporter turns a virtual tree into one archive per Run. The zero value
// is not usable; construct with New.
type Exporter struct {
	// FilenamePrefix prefixes generated archive names when Filename is
	// not set.
	FilenamePrefix string
	// Filename overrides archive naming entirely.
	Filename FilenameFunc
	// Root is the tree to export. It may be a Provider.
	Root vtree.Node
	// Classify overrides the default text/binary classifier.
	Classify vtree.ClassifyFunc
	// MaxDepth bounds provider chains. Zero means vtree.DefaultMaxDepth.
	MaxDepth int
	// NewBuilder supplies a fresh archive builder per run.
	NewBuilder func() archiver.Builder
	// Saver receives the finished archive.
	Saver saver.Saver
	// Done is called after a successful save, with no arguments.
	Done func()
	// OnError is called with the failure of any step. Exactly one of
	// Done and OnError fires per run.
	OnError func(error)

	now func() time.Time
}

// Option configures an Exporter. Options passed to Run apply to that run
// only, fully replacing the configured default field by field.
type Option func(*Exporter) error

// WithFilenamePrefix sets the prefix of generated archive names.
func WithFilenamePrefix(prefix string) Option {
	return func(e *Exporter) error {
		e.FilenamePrefix = prefix
		return nil
	}
}

// WithFilename sets the full filename override.
func WithFilename(fn FilenameFunc) Option {
	return func(e *Exporter) error {
		e.Filename = fn
		return nil
	}
}

// WithRoot sets the tree to export.
func WithRoot(root vtree.Node) Option {
	return func(e *Exporter) error {
		e.Root = root
		return nil
	}
}

// WithClassifier replaces the text/binary classifier.
func WithClassifier(fn vtree.ClassifyFunc) Option {
	return func(e *Exporter) error {
		e.Classify = fn
		return nil
	}
}

// WithMaxDepth bounds provider chains.
func WithMaxDepth(depth int) Option {
	return func(e *Exporter) error {
		if depth < 0 {
			return fmt.Errorf("max depth must not be negative, got %d", depth)
		}
		e.MaxDepth = depth
		return nil
	}
}

// WithBuilder sets the archive format by its builder factory.
func WithBuilder(newBuilder func() archiver.Builder) Option {
	return func(e *Exporter) error {
		e.NewBuilder = newBuilder
		return nil
	}
}

// WithSaver sets the save mechanism.
func WithSaver(s saver.Saver) Option {
	return func(e *Exporter) error {
		e.Saver = s
		return nil
	}
}

// WithDone sets the success callback.
func WithDone(fn func()) Option {
	return func(e *Exporter) error {
		e.Done = fn
		return nil
	}
}

// WithOnError sets the failure callback.
func WithOnError(fn func(error)) Option {
	return func(e *Exporter) error {
		e.OnError = fn
		return nil
	}
}

// New builds an Exporter. Without options it exports the default page
// layout as a zip into the current directory, logging failures.
func New(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		FilenamePrefix: DefaultFilenamePrefix,
		Root:           DefaultRoot(),
		NewBuilder:     func() archiver.Builder { return zipbuilder.New() },
		Saver:          dirsaver.NewDir("."),
		OnError:        logFailure,
		now:            time.Now,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	return e, nil
}

// Run resolves the effective tree with src, serializes it, names the
// archive, and saves it. Options apply to this run only. On success the
// effective Done callback fires and Run returns nil; on any failure the
// effective OnError callback fires and Run returns the error. Never both.
//
// Concurrent Runs on one Exporter are safe; every run works on its own
// copy of the configuration and its own builder.
func (e *Exporter) Run(ctx context.Context, src vtree.Source, opts ...Option) error {
	run := *e
	for _, opt := range opts {
		if err := opt(&run); err != nil {
			err = fmt.Errorf("apply option: %w", err)
			if run.OnError != nil {
				run.OnError(err)
			}
			return err
		}
	}

	if err := run.export(ctx, src); err != nil {
		if run.OnError != nil {
			run.OnError(err)
		}
		return err
	}
	if run.Done != nil {
		run.Done()
	}
	return nil
}

func (e *Exporter) export(ctx context.Context, src vtree.Source) error {
	builder := e.NewBuilder()
	recorder := &vtree.Recorder{}
	resolver := &vtree.Resolver{Classify: e.Classify, MaxDepth: e.MaxDepth}

	if err := resolver.Resolve(ctx, e.Root, src, vtree.Tee(builder, recorder)); err != nil {
		return fmt.Errorf("resolve tree: %w", err)
	}

	blob, err := builder.Bytes()
	if err != nil {
		return fmt.Errorf("serialize archive: %w", err)
	}

	filename, err := e.filename(ctx, src, builder.Ext())
	if err != nil {
		return fmt.Errorf("build filename: %w", err)
	}

	if err := e.Saver.Save(ctx, filename, blob); err != nil {
		return fmt.Errorf("save %q: %w", filename, err)
	}

	slog.Info("Export complete",
		slog.String("filename", filename),
		slog.String("digest", Digest(recorder.Files())),
		slog.Int("entries", len(recorder.Files())),
		slog.Int("bytes", len(blob)))
	return nil
}

func (e *Exporter) filename(ctx context.Context, src vtree.Source, ext string) (string, error) {
	if e.Filename != nil {
		return e.Filename(ctx, src)
	}
	prefix := e.FilenamePrefix
	if prefix == "" {
		prefix = DefaultFilenamePrefix
	}
	return fmt.Sprintf("%s_%d.%s", prefix, e.now().UnixMilli(), ext), nil
}

func logFailure(err error) {
	slog.Error("Export failed", slog.String("error", err.Error()))
}
