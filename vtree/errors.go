package vtree

import "errors"

var (
	// ErrNilNode is returned when a tree position holds no node at all.
	ErrNilNode = errors.New("nil node")

	// ErrBadName is returned for empty entry names and names containing
	// path separators.
	ErrBadName = errors.New("invalid entry name")

	// ErrProviderDepth is returned when a provider chain exceeds the
	// resolver's depth bound without yielding a leaf or directory.
	ErrProviderDepth = errors.New("provider chain too deep")

	// ErrRootNotDir is returned when the root of a resolution does not
	// materialize to a directory.
	ErrRootNotDir = errors.New("root is not a directory")
)
