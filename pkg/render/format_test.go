package render

import (
	"testing"

	errs "github.com/matzehuels/devinventory/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", FormatPNG},
		{"SVG", FormatSVG},
		{" dot ", FormatDOT},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
		})
	}

	if _, err := ParseFormat("pdf"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(pdf) error = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"results/dependency_graph.png": FormatPNG,
		"graph.svg":                    FormatSVG,
		"graph.DOT":                    FormatDOT,
		"graph.json":                   FormatJSON,
		"graph":                        FormatPNG,
		"graph.gif":                    FormatPNG,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
