package exportcmd

import (
	"errors"
	"strings"

	"github.com/sitepack/sitepack/archiver"
	"github.com/sitepack/sitepack/archiver/cpiobuilder"
	"github.com/sitepack/sitepack/archiver/tgzbuilder"
	"github.com/sitepack/sitepack/archiver/zipbuilder"
)

type ArchiveFormat string

const (
	ArchiveFormatZip  ArchiveFormat = "zip"
	ArchiveFormatTgz  ArchiveFormat = "tgz"
	ArchiveFormatCpio ArchiveFormat = "cpio"
)

var ListArchiveFormats = []string{string(ArchiveFormatZip), string(ArchiveFormatTgz), string(ArchiveFormatCpio)}

// String is used both by fmt.Print and by Cobra in help text
func (e *ArchiveFormat) String() string {
	return string(*e)
}

// Set must have pointer receiver so it doesn't change the value of a copy
func (e *ArchiveFormat) Set(v string) error {
	switch v {
	case string(ArchiveFormatZip), string(ArchiveFormatTgz), string(ArchiveFormatCpio):
		*e = ArchiveFormat(v)
		return nil
	default:
		return errors.New(`must be one of ` + strings.Join(ListArchiveFormats, ","))
	}
}

// Type is only used in help text
func (e *ArchiveFormat) Type() string {
	return "archiveFormat"
}

// NewBuilder returns a fresh builder for the format. Unknown values fall
// back to zip, the flag setter never lets one through.
func (e ArchiveFormat) NewBuilder() archiver.Builder {
	switch e {
	case ArchiveFormatTgz:
		return tgzbuilder.New()
	case ArchiveFormatCpio:
		return cpiobuilder.New()
	default:
		return zipbuilder.New()
	}
}
