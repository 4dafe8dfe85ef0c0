package treecmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ExecuteListsTree(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "demo.yaml")
	content := `root:
  index.html: <html></html>
  css:
    style.css: body{}
`
	require.NoError(t, os.WriteFile(manifestPath, []byte(content), 0o644))

	var out bytes.Buffer
	require.NoError(t, execute(context.Background(), &out, manifestPath))

	listing := out.String()
	require.Contains(t, listing, "index.html")
	require.Contains(t, listing, "css/style.css")
	require.Contains(t, listing, "2 files")
	require.Contains(t, listing, "digest xxh3:")
}

func Test_ExecuteBadManifest(t *testing.T) {
	var out bytes.Buffer
	err := execute(context.Background(), &out, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
