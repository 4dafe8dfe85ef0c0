// Package cpiobuilder assembles SVR4 cpio archives in memory.
package cpiobuilder

import (
	"bytes"
	"fmt"

	"github.com/cavaliergopher/cpio"

	"github.com/sitepack/sitepack/archiver"
	"github.com/sitepack/sitepack/vtree"
)

type cpioBuilder struct {
	buf    bytes.Buffer
	cw     *cpio.Writer
	closed bool
}

var _ archiver.Builder = (*cpioBuilder)(nil)

func New() *cpioBuilder {
	b := &cpioBuilder{}
	b.cw = cpio.NewWriter(&b.buf)
	return b
}

func (b *cpioBuilder) AddFile(name string, content []byte, binary bool) error {
	return scope{b: b}.AddFile(name, content, binary)
}

func (b *cpioBuilder) AddFolder(name string) (vtree.Sink, error) {
	return scope{b: b}.AddFolder(name)
}

func (b *cpioBuilder) Bytes() ([]byte, error) {
	if b.closed {
		return nil, archiver.ErrClosed
	}
	b.closed = true
	if err := b.cw.Close(); err != nil {
		return nil, fmt.Errorf("close cpio writer: %w", err)
	}
	return b.buf.Bytes(), nil
}

func (b *cpioBuilder) Ext() string {
	return "cpio"
}

type scope struct {
	b      *cpioBuilder
	prefix string
}

// AddFile ignores the binary hint; cpio applies no compression at all.
func (s scope) AddFile(name string, content []byte, _ bool) error {
	if s.b.closed {
		return archiver.ErrClosed
	}
	header := &cpio.Header{
		Name: s.prefix + name,
		Mode: cpio.TypeReg | 0600,
		Size: int64(len(content)),
	}
	if err := s.b.cw.WriteHeader(header); err != nil {
		return fmt.Errorf("write header for %s: %w", header.Name, err)
	}
	if _, err := s.b.cw.Write(content); err != nil {
		return fmt.Errorf("write body for %s: %w", header.Name, err)
	}
	return nil
}

func (s scope) AddFolder(name string) (vtree.Sink, error) {
	if s.b.closed {
		return nil, archiver.ErrClosed
	}
	return scope{b: s.b, prefix: s.prefix + name + "/"}, nil
}
