package vtree

import "strings"

// ClassifyFunc reports whether content should be archived as binary.
// name is the final path segment of the entry being classified.
type ClassifyFunc func(name, content string) bool

// Classify is the default classifier. Names whose extension, everything
// after the first dot, is html or css are always text. Any other content
// is binary as soon as one byte falls outside the printable 7-bit ASCII
// range. Names without a dot get the byte test; empty content is text.
func Classify(name, content string) bool {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		switch name[i+1:] {
		case "html", "css":
			return false
		}
	}
	for i := 0; i < len(content); i++ {
		if content[i] < 0x20 || content[i] > 0x7e {
			return true
		}
	}
	return false
}
