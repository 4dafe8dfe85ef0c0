// Package saver defines where finished archives go.
package saver

import "context"

// Saver persists a serialized archive under the given filename. A nil
// error means the archive has left the exporter's hands; nothing is ever
// read back.
type Saver interface {
	Save(ctx context.Context, filename string, data []byte) error
}
