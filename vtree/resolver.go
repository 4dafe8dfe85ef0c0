package vtree

import (
	"context"
	"fmt"
)

// DefaultMaxDepth bounds successive provider substitutions for a single
// tree position when no explicit bound is configured.
const DefaultMaxDepth = 32

// Sink receives resolved entries. AddFolder scopes a child sink under
// name without writing an entry of its own, so an empty directory
// contributes nothing to the archive.
type Sink interface {
	AddFile(name string, content []byte, binary bool) error
	AddFolder(name string) (Sink, error)
}

// Resolver walks a virtual tree depth-first and writes every leaf it
// reaches into a Sink. The walk is strictly sequential: providers run one
// at a time, in directory order, and the first error aborts the walk,
// leaving whatever the sink already received in place.
type Resolver struct {
	// Classify replaces the default classifier when set, including the
	// html/css extension rule.
	Classify ClassifyFunc

	// MaxDepth bounds provider chains. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Materialize applies provider substitution to node until it is a Leaf or
// a *Dir. maxDepth bounds the number of substitutions; zero or negative
// means DefaultMaxDepth. Nil nodes fail with ErrNilNode, including typed
// nils: a nil Provider value and a nil *Dir both satisfy Node but hold
// nothing resolvable.
func Materialize(ctx context.Context, node Node, src Source, maxDepth int) (Node, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	for depth := 0; ; depth++ {
		switch n := node.(type) {
		case nil:
			return nil, ErrNilNode
		case Provider:
			if n == nil {
				return nil, ErrNilNode
			}
			if depth >= maxDepth {
				return nil, fmt.Errorf("%w (depth %d)", ErrProviderDepth, depth)
			}
			next, err := n(ctx, src)
			if err != nil {
				return nil, err
			}
			node = next
		case *Dir:
			if n == nil {
				return nil, ErrNilNode
			}
			return node, nil
		default:
			return node, nil
		}
	}
}

// Resolve materializes root, which must yield a directory, and walks it
// into sink. Errors are wrapped with the virtual path they occurred at.
func (r *Resolver) Resolve(ctx context.Context, root Node, src Source, sink Sink) error {
	node, err := Materialize(ctx, root, src, r.MaxDepth)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	dir, ok := node.(*Dir)
	if !ok {
		return fmt.Errorf("resolve root: %w", ErrRootNotDir)
	}
	return r.resolveDir(ctx, dir, src, sink, "")
}

func (r *Resolver) resolveDir(ctx context.Context, dir *Dir, src Source, sink Sink, base string) error {
	for pair := dir.children.Oldest(); pair != nil; pair = pair.Next() {
		name := pair.Key
		path := joinPath(base, name)
		if err := ValidateName(name); err != nil {
			return fmt.Errorf("resolve %q: %w", path, err)
		}
		node, err := Materialize(ctx, pair.Value, src, r.MaxDepth)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", path, err)
		}
		switch n := node.(type) {
		case Leaf:
			content := string(n)
			classify := r.Classify
			if classify == nil {
				classify = Classify
			}
			if err := sink.AddFile(name, []byte(content), classify(name, content)); err != nil {
				return fmt.Errorf("resolve %q: %w", path, err)
			}
		case *Dir:
			child, err := sink.AddFolder(name)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", path, err)
			}
			if err := r.resolveDir(ctx, n, src, child, path); err != nil {
				return err
			}
		default:
			return fmt.Errorf("resolve %q: unsupported node type %T", path, node)
		}
	}
	return nil
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}
