package exporter

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// JSONState reads page content from a JSON snapshot of editor state, such
// as a project file the hosting editor wrote to disk. HTMLPath and
// CSSPath are gjson paths into the document; they default to "html" and
// "css", and support nested lookups like "pages.0.html".
type JSONState struct {
	HTMLPath string
	CSSPath  string

	data []byte
}

// NewJSONState validates data as JSON and wraps it as a PageSource.
func NewJSONState(data []byte) (*JSONState, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("state snapshot is not valid json")
	}
	return &JSONState{data: data}, nil
}

func (s *JSONState) HTML(context.Context) (string, error) {
	return s.lookup(s.HTMLPath, "html")
}

func (s *JSONState) CSS(context.Context) (string, error) {
	return s.lookup(s.CSSPath, "css")
}

func (s *JSONState) lookup(path, fallback string) (string, error) {
	if path == "" {
		path = fallback
	}
	result := gjson.GetBytes(s.data, path)
	if !result.Exists() {
		return "", fmt.Errorf("state snapshot has no value at %q", path)
	}
	return result.String(), nil
}
