package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

var formatByExtension = map[string]Format{
	"md":    FormatMarkdown,
	"txt":   FormatText,
	"html":  FormatHTML,
	"htm":   FormatHTML,
	"shtml": FormatHTML,
	"pdf":   FormatPDF,
}

// UnsupportedFormatError reports a file whose extension has no loader.
type UnsupportedFormatError struct {
	FileName string
	Ext      string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("file %s with extension %q is not supported", e.FileName, e.Ext)
}

// DetectFormat maps a file name to its content format by extension alone.
func DetectFormat(fileName string) (Format, error) {
	base := filepath.Base(fileName)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))

	format, ok := formatByExtension[ext]
	if !ok {
		return "", &UnsupportedFormatError{FileName: base, Ext: ext}
	}
	return format, nil
}
