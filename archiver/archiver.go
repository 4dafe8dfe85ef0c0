// Package archiver defines the in-memory archive builders a tree
// resolution writes into.
package archiver

import (
	"errors"

	"github.com/sitepack/sitepack/vtree"
)

// ErrClosed is returned by Builder methods after Bytes has been called.
var ErrClosed = errors.New("archive already serialized")

// Builder assembles one archive in memory. It is the vtree.Sink a
// resolution writes into; Bytes serializes the archive and closes the
// Builder, so a Builder serves exactly one export.
type Builder interface {
	vtree.Sink

	// Bytes finishes the archive and returns its serialized form. Any
	// use of the Builder afterwards returns ErrClosed.
	Bytes() ([]byte, error)

	// Ext is the filename extension of the builder's format, without
	// the leading dot.
	Ext() string
}
