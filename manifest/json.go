package manifest

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/sitepack/sitepack/vtree"
)

//go:embed schema.json
var manifestSchema string

var compiledSchema = mustCompileSchema(manifestSchema)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Errorf("compile schema: %w", err))
	}
	return s
}

// ParseJSON parses a JSON manifest. The document is validated against the
// manifest schema first, then walked in member order.
func ParseJSON(data []byte, baseDir string) (*Manifest, error) {
	res, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validate: %w", err)
	}
	if !res.Valid() {
		messages := make([]string, 0, len(res.Errors()))
		for _, errResult := range res.Errors() {
			messages = append(messages, fmt.Sprintf("$.%s: %s", errResult.Context().String("."), errResult.Description()))
		}
		return nil, fmt.Errorf("invalid manifest: %s", strings.Join(messages, "; "))
	}

	doc := gjson.ParseBytes(data)
	m := &Manifest{Version: doc.Get("version").String()}
	if err := checkVersion(m.Version); err != nil {
		return nil, err
	}
	root, err := jsonTree(doc.Get("root"), "root", baseDir)
	if err != nil {
		return nil, err
	}
	m.Root = root
	return m, nil
}

func jsonTree(v gjson.Result, pth, baseDir string) (vtree.Node, error) {
	if v.Type == gjson.String {
		return vtree.Leaf(v.String()), nil
	}
	if !v.IsObject() {
		return nil, fmt.Errorf("%s: file content must be a string", pth)
	}

	type member struct {
		name  string
		value gjson.Result
	}
	var members []member
	v.ForEach(func(key, value gjson.Result) bool {
		members = append(members, member{name: key.String(), value: value})
		return true
	})
	if len(members) == 1 && members[0].name == includeKey {
		return includeNode(baseDir, members[0].value.String(), pth)
	}

	dir := vtree.NewDir()
	for _, mb := range members {
		if err := vtree.ValidateName(mb.name); err != nil {
			return nil, fmt.Errorf("%s: %w", pth, err)
		}
		child, err := jsonTree(mb.value, pth+"/"+mb.name, baseDir)
		if err != nil {
			return nil, err
		}
		dir.Set(mb.name, child)
	}
	return dir, nil
}
