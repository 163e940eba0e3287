package report

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/devinventory/pkg/errors"
)

// DocFormat is a structured export format.
type DocFormat string

// Document formats.
const (
	FormatJSON DocFormat = "json"
	FormatYAML DocFormat = "yaml"
)

// ParseDocFormat parses "json", "yaml" or "yml".
func ParseDocFormat(s string) (DocFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidFormat, "unknown export format %q (use json or yaml)", s)
	}
}

// FileName returns export.json or export.yaml.
func (f DocFormat) FileName() string { return "export." + string(f) }

// Document is the structured export. Field order is the output key order.
type Document struct {
	Packages   []Pair `json:"packages" yaml:"packages"`
	Languages  []Pair `json:"languages" yaml:"languages"`
	Frameworks []Pair `json:"frameworks" yaml:"frameworks"`
}

// NewDocument builds a Document from tables. Nil tables become empty lists.
func NewDocument(t Tables) Document {
	return Document{
		Packages:   nonNil(t.Packages),
		Languages:  nonNil(t.Languages),
		Frameworks: nonNil(t.Frameworks),
	}
}

func nonNil(p []Pair) []Pair {
	if p == nil {
		return []Pair{}
	}
	return p
}

// Encode writes doc in format f. Non-ASCII text is written as is.
func (f DocFormat) Encode(w io.Writer, doc Document) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unknown export format %q", string(f))
	}
}

// WriteDocument writes export.json or export.yaml and returns its path.
func (e *Exporter) WriteDocument(ctx context.Context, format DocFormat, t Tables) (string, error) {
	if format != FormatJSON && format != FormatYAML {
		return "", errs.New(errs.ErrCodeInvalidFormat, "unknown export format %q", string(format))
	}
	doc := NewDocument(t)

	var path string
	err := e.withLock(ctx, func() error {
		start := time.Now()
		p, err := e.writeAtomic(format.FileName(), func(w io.Writer) error {
			return format.Encode(w, doc)
		})
		e.track(ctx, string(format), p, start, err)
		path = p
		return err
	})
	return path, err
}

// WriteJSON writes export.json.
func (e *Exporter) WriteJSON(ctx context.Context, t Tables) (string, error) {
	return e.WriteDocument(ctx, FormatJSON, t)
}

// WriteYAML writes export.yaml.
func (e *Exporter) WriteYAML(ctx context.Context, t Tables) (string, error) {
	return e.WriteDocument(ctx, FormatYAML, t)
}
