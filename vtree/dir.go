package vtree

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry is a named child of a Dir.
type Entry struct {
	Name string
	Node Node
}

// Dir is an ordered mapping of child names to nodes. Children resolve in
// insertion order; Set on an existing name replaces the child in place
// without moving its position.
type Dir struct {
	children *orderedmap.OrderedMap[string, Node]
}

// NewDir builds a directory from entries, keeping their order.
func NewDir(entries ...Entry) *Dir {
	d := &Dir{children: orderedmap.New[string, Node]()}
	for _, e := range entries {
		d.children.Set(e.Name, e.Node)
	}
	return d
}

// Set adds or replaces the child under name.
func (d *Dir) Set(name string, node Node) {
	d.children.Set(name, node)
}

// Get returns the child under name.
func (d *Dir) Get(name string) (Node, bool) {
	return d.children.Get(name)
}

// Len returns the number of children.
func (d *Dir) Len() int {
	return d.children.Len()
}

// Entries returns a snapshot of the children in insertion order.
func (d *Dir) Entries() []Entry {
	entries := make([]Entry, 0, d.children.Len())
	for pair := d.children.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, Entry{Name: pair.Key, Node: pair.Value})
	}
	return entries
}

// ValidateName checks that name can appear in an archive path: non-empty
// and free of path separators.
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q: %w", name, ErrBadName)
	}
	return nil
}
