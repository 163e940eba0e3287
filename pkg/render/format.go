package render

import (
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/devinventory/pkg/errors"
)

// Format is a dependency graph output format.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatSVG, FormatDOT, FormatJSON}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatPNG, FormatSVG, FormatDOT, FormatJSON:
		return f, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidFormat, "unknown graph format %q (use png, svg, dot or json)", s)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to
// PNG when the extension is not recognized.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatPNG
	}
	return f
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Binary reports whether the format is not text.
func (f Format) Binary() bool { return f == FormatPNG }
