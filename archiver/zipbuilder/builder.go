// Package zipbuilder assembles zip archives in memory. Text entries are
// deflated, binary entries are stored uncompressed.
package zipbuilder

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/sitepack/sitepack/archiver"
	"github.com/sitepack/sitepack/vtree"
)

type zipBuilder struct {
	buf    bytes.Buffer
	zw     *zip.Writer
	closed bool
}

var _ archiver.Builder = (*zipBuilder)(nil)

func New() *zipBuilder {
	b := &zipBuilder{}
	b.zw = zip.NewWriter(&b.buf)
	return b
}

func (b *zipBuilder) AddFile(name string, content []byte, binary bool) error {
	return scope{b: b}.AddFile(name, content, binary)
}

func (b *zipBuilder) AddFolder(name string) (vtree.Sink, error) {
	return scope{b: b}.AddFolder(name)
}

func (b *zipBuilder) Bytes() ([]byte, error) {
	if b.closed {
		return nil, archiver.ErrClosed
	}
	b.closed = true
	if err := b.zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip writer: %w", err)
	}
	return b.buf.Bytes(), nil
}

func (b *zipBuilder) Ext() string {
	return "zip"
}

// scope prefixes entry names with the folder path it was created under.
// Folders never become entries of their own.
type scope struct {
	b      *zipBuilder
	prefix string
}

func (s scope) AddFile(name string, content []byte, binary bool) error {
	if s.b.closed {
		return archiver.ErrClosed
	}
	method := zip.Deflate
	if binary {
		method = zip.Store
	}
	w, err := s.b.zw.CreateHeader(&zip.FileHeader{
		Name:   s.prefix + name,
		Method: method,
	})
	if err != nil {
		return fmt.Errorf("create file in archive: %w", err)
	}
	if _, err = w.Write(content); err != nil {
		return fmt.Errorf("write bytes into file: %w", err)
	}
	return nil
}

func (s scope) AddFolder(name string) (vtree.Sink, error) {
	if s.b.closed {
		return nil, archiver.ErrClosed
	}
	return scope{b: s.b, prefix: s.prefix + name + "/"}, nil
}
