// Package report exports inventory tables as spreadsheets, JSON and YAML.
//
// # Categories and modes
//
// There are four table categories: languages, packages, frameworks and
// requirements. A [Mode] selects either one category or all of them; the
// mapping is a closed switch, so adding a category without a handler fails
// to export rather than silently writing nothing.
//
// # Files
//
// By default each category is its own workbook in the output directory:
//
//	languages.xlsx     Language, Version
//	packages.xlsx      Package, Version
//	frameworks.xlsx    Framework, Version
//	requirements.xlsx  Package, Required, Installed, Matches
//
// Setting [Exporter.Workbook] writes one workbook with a sheet per
// category instead. JSON and YAML documents go to export.json and
// export.yaml.
//
// # Concurrency
//
// Every write holds an advisory lock on <dir>/.devinventory.lock and goes
// through a temporary file that is renamed into place, so two concurrent
// invocations never interleave bytes in one artifact and readers never
// observe a partial file.
package report

import (
	"strings"

	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/inventory"
	"github.com/matzehuels/devinventory/pkg/manifest"
	"github.com/matzehuels/devinventory/pkg/probe"
)

// Category is one exportable table.
type Category int

// Categories in export order.
const (
	Languages Category = iota
	Packages
	Frameworks
	Requirements
)

// AllCategories lists every category in export order.
var AllCategories = []Category{Languages, Packages, Frameworks, Requirements}

func (c Category) String() string {
	switch c {
	case Languages:
		return "languages"
	case Packages:
		return "packages"
	case Frameworks:
		return "frameworks"
	case Requirements:
		return "requirements"
	default:
		return "unknown"
	}
}

// ParseCategory parses a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories {
		if strings.EqualFold(strings.TrimSpace(s), c.String()) {
			return c, nil
		}
	}
	return 0, errs.New(errs.ErrCodeInvalidMode, "unknown category %q (use languages, packages, frameworks or requirements)", s)
}

// Mode selects which categories a run collects and exports.
type Mode string

// Modes.
const (
	ModeAll          Mode = "all"
	ModeLanguages    Mode = "languages"
	ModePackages     Mode = "packages"
	ModeFrameworks   Mode = "frameworks"
	ModeRequirements Mode = "requirements"
)

// ParseMode parses a mode name. The empty string means all.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "":
		return ModeAll, nil
	case ModeAll, ModeLanguages, ModePackages, ModeFrameworks, ModeRequirements:
		return m, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidMode, "unknown mode %q (use all, languages, packages, frameworks or requirements)", s)
	}
}

// Categories returns the categories the mode covers.
func (m Mode) Categories() []Category {
	switch m {
	case ModeAll:
		return AllCategories
	case ModeLanguages:
		return []Category{Languages}
	case ModePackages:
		return []Category{Packages}
	case ModeFrameworks:
		return []Category{Frameworks}
	case ModeRequirements:
		return []Category{Requirements}
	default:
		return nil
	}
}

// Includes reports whether the mode covers c.
func (m Mode) Includes(c Category) bool {
	for _, x := range m.Categories() {
		if x == c {
			return true
		}
	}
	return false
}

// Pair is a name/version row.
type Pair struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Tables holds collected rows for every category. Categories outside the
// collected mode are left nil.
type Tables struct {
	Languages    []Pair
	Packages     []Pair
	Frameworks   []Pair
	Requirements []manifest.Row
}

// FromResults converts probe results to pairs.
func FromResults(results []probe.Result) []Pair {
	out := make([]Pair, len(results))
	for i, r := range results {
		out[i] = Pair{Name: r.Name, Version: r.Version}
	}
	return out
}

// FromPackages converts inventory packages to pairs.
func FromPackages(pkgs []inventory.Package) []Pair {
	out := make([]Pair, len(pkgs))
	for i, p := range pkgs {
		out[i] = Pair{Name: p.Name, Version: p.Version}
	}
	return out
}
