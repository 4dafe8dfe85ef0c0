// Package tgzbuilder assembles gzip-compressed tar archives in memory.
package tgzbuilder

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"

	"github.com/sitepack/sitepack/archiver"
	"github.com/sitepack/sitepack/vtree"
)

type tgzBuilder struct {
	buf    bytes.Buffer
	gw     *gzip.Writer
	tw     *tar.Writer
	closed bool
}

var _ archiver.Builder = (*tgzBuilder)(nil)

func New() *tgzBuilder {
	b := &tgzBuilder{}
	b.gw = gzip.NewWriter(&b.buf)
	b.tw = tar.NewWriter(b.gw)
	return b
}

func (b *tgzBuilder) AddFile(name string, content []byte, binary bool) error {
	return scope{b: b}.AddFile(name, content, binary)
}

func (b *tgzBuilder) AddFolder(name string) (vtree.Sink, error) {
	return scope{b: b}.AddFolder(name)
}

func (b *tgzBuilder) Bytes() ([]byte, error) {
	if b.closed {
		return nil, archiver.ErrClosed
	}
	b.closed = true
	if err := b.tw.Close(); err != nil {
		return nil, fmt.Errorf("close tar writer: %w", err)
	}
	if err := b.gw.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}
	return b.buf.Bytes(), nil
}

func (b *tgzBuilder) Ext() string {
	return "tgz"
}

type scope struct {
	b      *tgzBuilder
	prefix string
}

// AddFile ignores the binary hint; gzip compresses the whole stream.
func (s scope) AddFile(name string, content []byte, _ bool) error {
	if s.b.closed {
		return archiver.ErrClosed
	}
	header := &tar.Header{
		Name:     s.prefix + name,
		Size:     int64(len(content)),
		Mode:     0600,
		Typeflag: tar.TypeReg,
	}
	if err := s.b.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write file header: %w", err)
	}
	if _, err := s.b.tw.Write(content); err != nil {
		return fmt.Errorf("write file content: %w", err)
	}
	return nil
}

func (s scope) AddFolder(name string) (vtree.Sink, error) {
	if s.b.closed {
		return nil, archiver.ErrClosed
	}
	return scope{b: s.b, prefix: s.prefix + name + "/"}, nil
}
