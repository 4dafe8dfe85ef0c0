package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sitepack/sitepack/vtree"
)

// ParseYAML parses a YAML manifest. Mapping order in the document becomes
// the resolution order of the tree.
func ParseYAML(data []byte, baseDir string) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("manifest is empty")
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("manifest must be a mapping")
	}

	m := &Manifest{}
	var rootNode *yaml.Node
	for i := 0; i < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "version":
			if value.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("$.version: must be a string")
			}
			m.Version = value.Value
		case "root":
			rootNode = value
		default:
			return nil, fmt.Errorf("$.%s: unknown field", key.Value)
		}
	}
	if err := checkVersion(m.Version); err != nil {
		return nil, err
	}
	if rootNode == nil {
		return nil, fmt.Errorf("$.root: required field is missing")
	}
	if rootNode.Kind != yaml.MappingNode && rootNode.Kind != yaml.AliasNode {
		return nil, fmt.Errorf("$.root: must be a mapping")
	}

	w := &yamlWalker{baseDir: baseDir, expanding: map[*yaml.Node]bool{}}
	root, err := w.tree(rootNode, "root")
	if err != nil {
		return nil, err
	}
	if _, ok := root.(vtree.Leaf); ok {
		return nil, fmt.Errorf("$.root: must be a mapping")
	}
	m.Root = root
	return m, nil
}

type yamlWalker struct {
	baseDir string
	// expanding tracks anchors on the current descent path, so an alias
	// that refers back into its own value is caught instead of looping.
	expanding map[*yaml.Node]bool
}

func (w *yamlWalker) tree(n *yaml.Node, pth string) (vtree.Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if w.expanding[n.Alias] {
			return nil, fmt.Errorf("%s: alias cycle through anchor %q", pth, n.Value)
		}
		w.expanding[n.Alias] = true
		node, err := w.tree(n.Alias, pth)
		delete(w.expanding, n.Alias)
		return node, err
	case yaml.ScalarNode:
		if n.Tag != "!!str" {
			return nil, fmt.Errorf("%s: file content must be a string, got %s", pth, n.Tag)
		}
		return vtree.Leaf(n.Value), nil
	case yaml.MappingNode:
		if target, ok := includeTarget(n); ok {
			return includeNode(w.baseDir, target, pth)
		}
		dir := vtree.NewDir()
		for i := 0; i < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.Tag == "!!merge" {
				return nil, fmt.Errorf("%s: yaml merge keys are not supported", pth)
			}
			name := key.Value
			if name == includeKey {
				return nil, fmt.Errorf("%s: %s must be the only key of its mapping", pth, includeKey)
			}
			if err := vtree.ValidateName(name); err != nil {
				return nil, fmt.Errorf("%s: %w", pth, err)
			}
			child, err := w.tree(value, pth+"/"+name)
			if err != nil {
				return nil, err
			}
			dir.Set(name, child)
		}
		return dir, nil
	default:
		return nil, fmt.Errorf("%s: unsupported yaml node", pth)
	}
}

func includeTarget(n *yaml.Node) (string, bool) {
	if len(n.Content) == 2 && n.Content[0].Value == includeKey && n.Content[1].Kind == yaml.ScalarNode {
		return n.Content[1].Value, true
	}
	return "", false
}
