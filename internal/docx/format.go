package docx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/richardlehane/mscfb"
)

// Format identifies the on-disk flavor of a word-processing file.
type Format int

const (
	FormatUnknown Format = iota
	// FormatDocx is the OOXML zip package this package reads and writes.
	FormatDocx
	// FormatLegacyDoc is the OLE compound-file binary format, which is not
	// supported and gets a targeted error.
	FormatLegacyDoc
)

var (
	zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}
	oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
)

// DetectFormat sniffs the file content. OLE containers are only reported as
// legacy Word documents when they actually carry a WordDocument stream; other
// compound files stay unknown.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatDocx
	case bytes.HasPrefix(data, oleMagic):
		if hasWordDocumentStream(data) {
			return FormatLegacyDoc
		}
		return FormatUnknown
	default:
		return FormatUnknown
	}
}

func hasWordDocumentStream(data []byte) bool {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return false
	}
	for entry, err := doc.Next(); err != io.EOF; entry, err = doc.Next() {
		if err != nil {
			return false
		}
		if entry.Name == "WordDocument" {
			return true
		}
	}
	return false
}

// CheckFormat returns a descriptive error unless the content is an OOXML
// package.
func CheckFormat(data []byte) error {
	switch DetectFormat(data) {
	case FormatDocx:
		return nil
	case FormatLegacyDoc:
		return fmt.Errorf("legacy binary .doc file: convert it to .docx first")
	default:
		return fmt.Errorf("not a .docx file")
	}
}
