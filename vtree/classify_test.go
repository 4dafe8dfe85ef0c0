package vtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Classify(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
		binary   bool
	}{
		{"HtmlStaysText", "index.html", "<p>café ☕</p>", false},
		{"CssStaysText", "style.css", "/* café */", false},
		{"PrintableText", "notes.txt", "plain words, digits 123", false},
		{"NonAsciiIsBinary", "notes.txt", "café", true},
		{"ControlByteIsBinary", "data.bin", "a\x00b", true},
		{"NewlineIsOutsidePrintable", "app.js", "a\nb", true},
		{"NoExtensionPrintable", "Makefile", "all: build", false},
		{"NoExtensionHighByte", "blob", "\xff\xfe", true},
		{"ExtensionAfterFirstDot", "style.min.css", "body{content:'é'}", true},
		{"HtmlAfterFirstDot", "page.html", "\x01\x02", false},
		{"EmptyContent", "empty.dat", "", false},
		{"EmptyNameEmptyContent", "", "", false},
		{"LeadingDot", ".gitignore", "*.log", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.binary, Classify(tt.fileName, tt.content))
		})
	}
}
