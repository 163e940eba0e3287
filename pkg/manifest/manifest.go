// Package manifest loads dependency manifests and reconciles them against
// an installed package inventory.
//
// A manifest is a requirements.txt-style file: one requirement per line,
// either pinned (name==version) or bare (name). Reconciliation is plain
// string comparison; "1.0" and "1.0.0" do not match.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/matzehuels/devinventory/pkg/textenc"
)

// DefaultPath is the manifest read when none is configured.
const DefaultPath = "requirements.txt"

// Sentinel version strings.
const (
	// Unspecified is the required version of a bare requirement.
	Unspecified = "unspecified"
	// NotInstalled is the installed version of a package missing from the
	// inventory.
	NotInstalled = "not installed"
)

// Requirement is one manifest line.
type Requirement struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Pinned  bool   `json:"pinned" yaml:"pinned"`
}

// Manifest is a loaded manifest file.
type Manifest struct {
	Path         string
	Charset      string
	BestEffort   bool // charset was guessed
	Requirements []Requirement
}

// Load reads and parses the manifest at path.
//
// A missing file yields an empty manifest and no error. Other read failures
// and undecodable content are returned as errors.
func Load(path string, dec *textenc.Decoder) (Manifest, error) {
	m := Manifest{Path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}

	if dec == nil {
		dec = textenc.NewDecoder()
	}
	text, err := dec.Decode(raw)
	if err != nil {
		return m, err
	}

	m.Charset = text.Charset
	m.BestEffort = text.BestEffort
	m.Requirements = Parse(text.Content)
	return m, nil
}

// Parse parses manifest text.
//
// Each line is trimmed and runs of whitespace collapse to one space before
// splitting on "==". Empty lines and '#' comments are skipped.
func Parse(text string) []Requirement {
	var reqs []Requirement
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		// Skipping '#' lines is an extension: pip requirement files allow
		// comments, and a comment must not become a package named "#...".
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reqs = append(reqs, parseLine(line))
	}
	return reqs
}

func parseLine(line string) Requirement {
	parts := strings.Split(line, "==")
	req := Requirement{Name: strings.TrimSpace(parts[0]), Version: Unspecified}
	if len(parts) > 1 {
		req.Version = strings.TrimSpace(parts[1])
		req.Pinned = true
	}
	return req
}

// Row is the reconciliation outcome for one requirement.
type Row struct {
	Name      string `json:"name" yaml:"name"`
	Required  string `json:"required" yaml:"required"`
	Installed string `json:"installed" yaml:"installed"`
	Matches   bool   `json:"matches" yaml:"matches"`
}

// Reconcile compares requirements with installed versions keyed by exact,
// case-sensitive package name. One row is produced per requirement, in
// manifest order.
func Reconcile(reqs []Requirement, installed map[string]string) []Row {
	rows := make([]Row, 0, len(reqs))
	for _, r := range reqs {
		have, ok := installed[r.Name]
		if !ok {
			have = NotInstalled
		}
		rows = append(rows, Row{
			Name:      r.Name,
			Required:  r.Version,
			Installed: have,
			Matches:   r.Version == have,
		})
	}
	return rows
}
