package exporter

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sitepack/sitepack/archiver"
	"github.com/sitepack/sitepack/archiver/tgzbuilder"
	"github.com/sitepack/sitepack/vtree"
)

type captureSaver struct {
	filename string
	data     []byte
	calls    int
	err      error
}

func (s *captureSaver) Save(_ context.Context, filename string, data []byte) error {
	s.calls++
	s.filename = filename
	s.data = data
	return s.err
}

func readZip(t *testing.T, blob []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	entries := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[f.Name] = string(data)
	}
	return entries
}

func twoFileRoot() vtree.Node {
	return vtree.NewDir(
		vtree.Entry{Name: "index.html", Node: vtree.Leaf("<h1>hi</h1>")},
		vtree.Entry{Name: "css", Node: vtree.NewDir(
			vtree.Entry{Name: "style.css", Node: vtree.Leaf("body{}")},
		)},
	)
}

func Test_RunEndToEnd(t *testing.T) {
	sink := &captureSaver{}
	doneCalls := 0
	var gotErr error

	e, err := New(
		WithRoot(twoFileRoot()),
		WithSaver(sink),
		WithFilenamePrefix("tpl"),
		WithDone(func() { doneCalls++ }),
		WithOnError(func(err error) { gotErr = err }),
	)
	require.NoError(t, err)

	require.NoError(t, e.Run(context.Background(), nil))

	require.Equal(t, 1, sink.calls)
	require.Equal(t, 1, doneCalls)
	require.NoError(t, gotErr)

	entries := readZip(t, sink.data)
	require.Len(t, entries, 2)
	require.Equal(t, "<h1>hi</h1>", entries["index.html"])
	require.Equal(t, "body{}", entries["css/style.css"])
}

func Test_RunDefaultFilename(t *testing.T) {
	sink := &captureSaver{}
	e, err := New(WithRoot(twoFileRoot()), WithSaver(sink), WithFilenamePrefix("tpl"))
	require.NoError(t, err)

	require.NoError(t, e.Run(context.Background(), nil))
	require.Regexp(t, regexp.MustCompile(`^tpl_\d+\.zip$`), sink.filename)

	e.now = func() time.Time { return time.UnixMilli(1700000000000) }
	require.NoError(t, e.Run(context.Background(), nil))
	require.Equal(t, "tpl_1700000000000.zip", sink.filename)
}

func Test_RunFilenameOverrideIsVerbatim(t *testing.T) {
	sink := &captureSaver{}
	e, err := New(
		WithRoot(twoFileRoot()),
		WithSaver(sink),
		WithFilename(func(_ context.Context, _ vtree.Source) (string, error) {
			return "exact-name.bin", nil
		}),
	)
	require.NoError(t, err)

	require.NoError(t, e.Run(context.Background(), nil))
	require.Equal(t, "exact-name.bin", sink.filename)
}

func Test_RunFilenameFollowsFormat(t *testing.T) {
	sink := &captureSaver{}
	e, err := New(
		WithRoot(twoFileRoot()),
		WithSaver(sink),
		WithBuilder(func() archiver.Builder { return tgzbuilder.New() }),
	)
	require.NoError(t, err)

	require.NoError(t, e.Run(context.Background(), nil))
	require.Regexp(t, regexp.MustCompile(`^site_\d+\.tgz$`), sink.filename)
}

func Test_RunOverridesApplyToOneRunOnly(t *testing.T) {
	sink := &captureSaver{}
	e, err := New(WithRoot(twoFileRoot()), WithSaver(sink), WithFilenamePrefix("base"))
	require.NoError(t, err)

	require.NoError(t, e.Run(context.Background(), nil, WithFilenamePrefix("special")))
	require.Regexp(t, regexp.MustCompile(`^special_\d+\.zip$`), sink.filename)

	require.NoError(t, e.Run(context.Background(), nil))
	require.Regexp(t, regexp.MustCompile(`^base_\d+\.zip$`), sink.filename)
}

func Test_RunOverrideRoot(t *testing.T) {
	sink := &captureSaver{}
	e, err := New(WithRoot(twoFileRoot()), WithSaver(sink))
	require.NoError(t, err)

	override := vtree.NewDir(vtree.Entry{Name: "only.txt", Node: vtree.Leaf("alone")})
	require.NoError(t, e.Run(context.Background(), nil, WithRoot(override)))

	entries := readZip(t, sink.data)
	require.Len(t, entries, 1)
	require.Equal(t, "alone", entries["only.txt"])
}

func Test_RunProviderFailure(t *testing.T) {
	boom := errors.New("editor unavailable")
	failing := vtree.NewDir(vtree.Entry{Name: "page.html", Node: vtree.Provider(
		func(_ context.Context, _ vtree.Source) (vtree.Node, error) {
			return nil, boom
		},
	)})

	sink := &captureSaver{}
	doneCalls := 0
	errCalls := 0
	var gotErr error

	e, err := New(
		WithRoot(failing),
		WithSaver(sink),
		WithDone(func() { doneCalls++ }),
		WithOnError(func(err error) { errCalls++; gotErr = err }),
	)
	require.NoError(t, err)

	err = e.Run(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, errCalls)
	require.ErrorIs(t, gotErr, boom)
	require.Zero(t, doneCalls, "done must not fire on failure")
	require.Zero(t, sink.calls, "nothing may be saved on failure")
}

func Test_RunNilRootResult(t *testing.T) {
	nilRoot := vtree.Provider(func(_ context.Context, _ vtree.Source) (vtree.Node, error) {
		var d *vtree.Dir
		return d, nil
	})

	sink := &captureSaver{}
	doneCalls := 0
	errCalls := 0
	e, err := New(
		WithRoot(nilRoot),
		WithSaver(sink),
		WithDone(func() { doneCalls++ }),
		WithOnError(func(error) { errCalls++ }),
	)
	require.NoError(t, err)

	err = e.Run(context.Background(), nil)
	require.ErrorIs(t, err, vtree.ErrNilNode)
	require.Equal(t, 1, errCalls)
	require.Zero(t, doneCalls)
	require.Zero(t, sink.calls)
}

func Test_RunSaveFailure(t *testing.T) {
	sink := &captureSaver{err: errors.New("disk full")}
	errCalls := 0
	e, err := New(
		WithRoot(twoFileRoot()),
		WithSaver(sink),
		WithOnError(func(error) { errCalls++ }),
	)
	require.NoError(t, err)

	err = e.Run(context.Background(), nil)
	require.Error(t, err)
	require.Equal(t, 1, errCalls)
}

func Test_RunDefaultRoot(t *testing.T) {
	sink := &captureSaver{}
	e, err := New(WithSaver(sink))
	require.NoError(t, err)

	src := StaticState{Body: "<main>content</main>", Styles: "main{color:red}"}
	require.NoError(t, e.Run(context.Background(), src))

	entries := readZip(t, sink.data)
	require.Len(t, entries, 2)
	require.Contains(t, entries["index.html"], "<main>content</main>")
	require.Contains(t, entries["index.html"], `<link rel="stylesheet" href="./css/style.css">`)
	require.Equal(t, "main{color:red}", entries["css/style.css"])
}

func Test_RunDefaultRootNeedsPageSource(t *testing.T) {
	sink := &captureSaver{}
	errCalls := 0
	e, err := New(WithSaver(sink), WithOnError(func(error) { errCalls++ }))
	require.NoError(t, err)

	err = e.Run(context.Background(), struct{}{})
	require.ErrorIs(t, err, ErrNoPageSource)
	require.Equal(t, 1, errCalls)
	require.Zero(t, sink.calls)
}

func Test_RunProviderDepthBound(t *testing.T) {
	var endless vtree.Provider
	endless = func(_ context.Context, _ vtree.Source) (vtree.Node, error) {
		return endless, nil
	}
	root := vtree.NewDir(vtree.Entry{Name: "loop.txt", Node: endless})

	sink := &captureSaver{}
	e, err := New(WithRoot(root), WithSaver(sink), WithMaxDepth(4), WithOnError(func(error) {}))
	require.NoError(t, err)

	err = e.Run(context.Background(), nil)
	require.ErrorIs(t, err, vtree.ErrProviderDepth)
	require.Zero(t, sink.calls)
}

func Test_NewRejectsNegativeDepth(t *testing.T) {
	_, err := New(WithMaxDepth(-1))
	require.Error(t, err)
}

func Test_DigestStableAcrossFormats(t *testing.T) {
	zipSink := &captureSaver{}
	tgzSink := &captureSaver{}

	zipExp, err := New(WithRoot(twoFileRoot()), WithSaver(zipSink))
	require.NoError(t, err)
	tgzExp, err := New(
		WithRoot(twoFileRoot()),
		WithSaver(tgzSink),
		WithBuilder(func() archiver.Builder { return tgzbuilder.New() }),
	)
	require.NoError(t, err)

	require.NoError(t, zipExp.Run(context.Background(), nil))
	require.NoError(t, tgzExp.Run(context.Background(), nil))

	rec := func() *vtree.Recorder {
		r := &vtree.Recorder{}
		require.NoError(t, (&vtree.Resolver{}).Resolve(context.Background(), twoFileRoot(), nil, r))
		return r
	}
	require.Equal(t, Digest(rec().Files()), Digest(rec().Files()))
	require.NotEqual(t, zipSink.data, tgzSink.data)
}
