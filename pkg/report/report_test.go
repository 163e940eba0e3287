package report

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/manifest"
)

func sampleTables() Tables {
	return Tables{
		Languages:  []Pair{{"Python", "3.11.4"}, {"Rust", "not found"}},
		Packages:   []Pair{{"numpy", "1.24.0"}, {"pandas", "2.0.0"}},
		Frameworks: []Pair{{"Vue.js", "not found"}},
		Requirements: []manifest.Row{
			{Name: "pandas", Required: "2.0.0", Installed: "2.0.0", Matches: true},
			{Name: "scipy", Required: "1.9.0", Installed: manifest.NotInstalled, Matches: false},
		},
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		cats []Category
	}{
		{"", ModeAll, AllCategories},
		{"all", ModeAll, AllCategories},
		{"Languages", ModeLanguages, []Category{Languages}},
		{"packages", ModePackages, []Category{Packages}},
		{"frameworks", ModeFrameworks, []Category{Frameworks}},
		{" requirements ", ModeRequirements, []Category{Requirements}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if err != nil || got != tt.want {
				t.Fatalf("ParseMode(%q) = %q, %v", tt.in, got, err)
			}
			if !reflect.DeepEqual(got.Categories(), tt.cats) {
				t.Errorf("Categories() = %v, want %v", got.Categories(), tt.cats)
			}
		})
	}

	if _, err := ParseMode("everything"); !errs.Is(err, errs.ErrCodeInvalidMode) {
		t.Errorf("ParseMode(everything) error = %v", err)
	}
}

func TestEveryCategoryHasHandler(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range AllCategories {
		h, err := handlerFor(c)
		if err != nil {
			t.Fatalf("handlerFor(%s): %v", c, err)
		}
		if seen[h.file] {
			t.Errorf("duplicate file %s", h.file)
		}
		seen[h.file] = true
		if got, err := ParseCategory(c.String()); err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := handlerFor(Category(99)); !errs.Is(err, errs.ErrCodeInternal) {
		t.Errorf("handlerFor(99) error = %v", err)
	}
}

func TestRows(t *testing.T) {
	got := Rows(Requirements, sampleTables())
	want := [][]string{
		{"pandas", "2.0.0", "2.0.0", "true"},
		{"scipy", "1.9.0", "not installed", "false"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
	if h := Headers(Languages); !reflect.DeepEqual(h, []string{"Language", "Version"}) {
		t.Errorf("Headers(Languages) = %v", h)
	}
}

func TestWriteSpreadsheets(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, nil)

	paths, err := e.WriteSpreadsheets(context.Background(), ModeAll, sampleTables())
	if err != nil {
		t.Fatalf("WriteSpreadsheets() error = %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("wrote %d files, want 4", len(paths))
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "requirements.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows("Requirements")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"Package", "Required", "Installed", "Matches"},
		{"pandas", "2.0.0", "2.0.0", "TRUE"},
		{"scipy", "1.9.0", "not installed", "FALSE"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}

	entries, _ := os.ReadDir(dir)
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temporary file left behind: %s", entry.Name())
		}
	}
}

func TestWriteSpreadsheetsSingleMode(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewExporter(dir, nil).WriteSpreadsheets(context.Background(), ModeLanguages, sampleTables())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "languages.xlsx" {
		t.Errorf("paths = %v", paths)
	}
	if _, err := os.Stat(filepath.Join(dir, "packages.xlsx")); !os.IsNotExist(err) {
		t.Error("packages.xlsx should not be written in languages mode")
	}
}

func TestWriteSpreadsheetsWorkbook(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, nil)
	e.Workbook = "inventory.xlsx"

	paths, err := e.WriteSpreadsheets(context.Background(), ModeAll, sampleTables())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("paths = %v", paths)
	}

	f, err := excelize.OpenFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	want := []string{"Languages", "Packages", "Frameworks", "Requirements"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Errorf("sheets = %v, want %v", got, want)
	}
}

func TestWriteDocument(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, nil)
	ctx := context.Background()

	jsonPath, err := e.WriteJSON(ctx, sampleTables())
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(jsonPath)
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(doc, NewDocument(sampleTables())) {
		t.Errorf("JSON document = %+v", doc)
	}
	if i, j := strings.Index(string(raw), `"packages"`), strings.Index(string(raw), `"languages"`); i > j {
		t.Error("packages should precede languages")
	}

	yamlPath, err := e.WriteYAML(ctx, Tables{Packages: []Pair{{"café", "1.0"}}})
	if err != nil {
		t.Fatal(err)
	}
	raw, _ = os.ReadFile(yamlPath)
	if !strings.Contains(string(raw), "café") {
		t.Errorf("YAML should keep non-ASCII text:\n%s", raw)
	}
	var ydoc Document
	if err := yaml.Unmarshal(raw, &ydoc); err != nil {
		t.Fatal(err)
	}
	if len(ydoc.Packages) != 1 || ydoc.Packages[0].Name != "café" {
		t.Errorf("YAML packages = %+v", ydoc.Packages)
	}
	if !strings.Contains(string(raw), "languages: []") {
		t.Errorf("empty category should be an empty list:\n%s", raw)
	}
}

func TestParseDocFormat(t *testing.T) {
	for in, want := range map[string]DocFormat{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML} {
		if got, err := ParseDocFormat(in); err != nil || got != want {
			t.Errorf("ParseDocFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDocFormat("toml"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ParseDocFormat(toml) error = %v", err)
	}
}

func TestLockContention(t *testing.T) {
	dir := t.TempDir()
	held := flock.New(filepath.Join(dir, LockFile))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock() = %v, %v", ok, err)
	}
	defer held.Unlock()

	e := NewExporter(dir, nil)
	e.LockTimeout = 150 * time.Millisecond

	_, err = e.WriteJSON(context.Background(), sampleTables())
	if !errs.Is(err, errs.ErrCodeLocked) {
		t.Fatalf("WriteJSON() error = %v, want %s", err, errs.ErrCodeLocked)
	}
	if _, err := os.Stat(filepath.Join(dir, "export.json")); !os.IsNotExist(err) {
		t.Error("nothing should be written while locked")
	}

	if err := held.Unlock(); err != nil {
		t.Fatal(err)
	}
	if _, err := e.WriteJSON(context.Background(), sampleTables()); err != nil {
		t.Errorf("WriteJSON() after unlock error = %v", err)
	}
}

func TestExportUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewExporter(file, nil).WriteJSON(context.Background(), sampleTables())
	if !errs.Is(err, errs.ErrCodeExport) {
		t.Errorf("WriteJSON() error = %v, want %s", err, errs.ErrCodeExport)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, nil)

	path, err := e.WriteFile(context.Background(), "txt", "notes.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, "hello\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if path != filepath.Join(dir, "notes.txt") {
		t.Errorf("WriteFile() path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello\n" {
		t.Errorf("notes.txt = %q, %v", data, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temporary file left behind: %s", entry.Name())
		}
	}
}
