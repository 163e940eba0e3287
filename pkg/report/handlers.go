package report

import (
	errs "github.com/matzehuels/devinventory/pkg/errors"
)

// handler describes how one category becomes a table.
type handler struct {
	file    string
	sheet   string
	headers []string
	rows    func(Tables) [][]any
}

func handlerFor(c Category) (handler, error) {
	switch c {
	case Languages:
		return handler{
			file:    "languages.xlsx",
			sheet:   "Languages",
			headers: []string{"Language", "Version"},
			rows:    func(t Tables) [][]any { return pairRows(t.Languages) },
		}, nil
	case Packages:
		return handler{
			file:    "packages.xlsx",
			sheet:   "Packages",
			headers: []string{"Package", "Version"},
			rows:    func(t Tables) [][]any { return pairRows(t.Packages) },
		}, nil
	case Frameworks:
		return handler{
			file:    "frameworks.xlsx",
			sheet:   "Frameworks",
			headers: []string{"Framework", "Version"},
			rows:    func(t Tables) [][]any { return pairRows(t.Frameworks) },
		}, nil
	case Requirements:
		return handler{
			file:    "requirements.xlsx",
			sheet:   "Requirements",
			headers: []string{"Package", "Required", "Installed", "Matches"},
			rows: func(t Tables) [][]any {
				out := make([][]any, len(t.Requirements))
				for i, r := range t.Requirements {
					out[i] = []any{r.Name, r.Required, r.Installed, r.Matches}
				}
				return out
			},
		}, nil
	default:
		return handler{}, errs.New(errs.ErrCodeInternal, "no export handler for category %d", int(c))
	}
}

func pairRows(pairs []Pair) [][]any {
	out := make([][]any, len(pairs))
	for i, p := range pairs {
		out[i] = []any{p.Name, p.Version}
	}
	return out
}

// Headers returns the column headers of c.
func Headers(c Category) []string {
	h, err := handlerFor(c)
	if err != nil {
		return nil
	}
	return h.headers
}

// Rows returns the table rows of c as strings, for terminal display.
func Rows(c Category, t Tables) [][]string {
	h, err := handlerFor(c)
	if err != nil {
		return nil
	}
	rows := h.rows(t)
	out := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = cellString(v)
		}
		out[i] = cells
	}
	return out
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// FileName returns the per-category workbook name of c.
func FileName(c Category) string {
	h, err := handlerFor(c)
	if err != nil {
		return ""
	}
	return h.file
}
