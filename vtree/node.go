// Package vtree models virtual file trees and resolves them into archive
// sinks. A tree mixes literal leaves, ordered directories, and providers
// that compute subtrees from the host application's state at resolve time.
package vtree

import "context"

// Node is one node of a virtual tree: a Leaf, a *Dir, or a Provider.
type Node interface {
	isNode()
}

// Source carries the host application's state through a resolution pass.
// The resolver hands it to every Provider untouched and never inspects it.
type Source any

// Leaf is literal file content. Its bytes reach the archive verbatim
// regardless of how the entry is classified.
type Leaf string

// Provider computes a node on demand. It may block; the resolver invokes
// providers strictly one at a time. A Provider may return any Node,
// including another Provider.
type Provider func(ctx context.Context, src Source) (Node, error)

func (Leaf) isNode()     {}
func (Provider) isNode() {}
func (*Dir) isNode()     {}
