// Package inventory enumerates the packages installed by a package manager.
//
// The collector shells out to the package manager (pip by default) and
// parses its plain-text output:
//
//	<tool> list          two header lines, then "name version" rows
//	<tool> show <name>   "Key: value" metadata including "Requires: a, b"
//
// A missing package-manager executable is an explicit error
// (errors.ErrCodeToolNotFound) rather than an empty inventory, so that an
// absent tool is never mistaken for a machine with nothing installed.
package inventory

import (
	"bufio"
	"context"
	"strings"

	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/probe"
)

// DefaultTool is the package manager queried when none is configured.
const DefaultTool = "pip"

// headerLines is the number of leading lines of `<tool> list` output that
// carry column titles and rules rather than packages.
const headerLines = 2

// Package is one installed package.
type Package struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Metadata holds the fields of `<tool> show <name>` that the tool uses.
type Metadata struct {
	Name     string
	Version  string
	Requires []string
	// Warnings is the raw stderr of the show command, if any.
	Warnings string
}

// ParseList parses `<tool> list` output. The first two lines are discarded,
// blank lines are skipped, and each remaining line contributes its first two
// whitespace-separated tokens. Lines with fewer than two tokens are skipped.
// Order is preserved and duplicates are kept; use [Index] for lookups.
func ParseList(text string) []Package {
	var pkgs []Package
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for line := 0; scanner.Scan(); line++ {
		if line < headerLines {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		pkgs = append(pkgs, Package{Name: fields[0], Version: fields[1]})
	}
	return pkgs
}

// Index maps package names to versions. Later entries overwrite earlier
// ones with the same name.
func Index(pkgs []Package) map[string]string {
	idx := make(map[string]string, len(pkgs))
	for _, p := range pkgs {
		idx[p.Name] = p.Version
	}
	return idx
}

// ParseShow parses `<tool> show` output into Metadata.
func ParseShow(text string) Metadata {
	var md Metadata
	seenRequires := false
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Name":
			md.Name = value
		case "Version":
			md.Version = value
		case "Requires":
			if !seenRequires {
				md.Requires = splitRequires(value)
				seenRequires = true
			}
		}
	}
	return md
}

// ParseRequires returns the dependency names on the first "Requires:" line
// of text, or nil when there is none.
func ParseRequires(text string) []string {
	return ParseShow(text).Requires
}

func splitRequires(value string) []string {
	var deps []string
	for _, d := range strings.Split(value, ",") {
		if d = strings.TrimSpace(d); d != "" {
			deps = append(deps, d)
		}
	}
	return deps
}

// Collector queries a package manager through a probe.Runner.
type Collector struct {
	runner probe.Runner
	tool   string
}

// NewCollector creates a Collector for tool (DefaultTool when empty).
func NewCollector(r probe.Runner, tool string) *Collector {
	if r == nil {
		r = probe.ExecRunner{}
	}
	if tool == "" {
		tool = DefaultTool
	}
	return &Collector{runner: r, tool: tool}
}

// Tool returns the package manager executable name.
func (c *Collector) Tool() string { return c.tool }

// List returns the installed packages.
func (c *Collector) List(ctx context.Context) ([]Package, error) {
	out, err := c.runner.Run(ctx, []string{c.tool, "list"})
	if err != nil {
		return nil, err
	}
	if out.ExitCode != 0 {
		return nil, errs.New(errs.ErrCodeToolFailed, "%s list exited with status %d: %s",
			c.tool, out.ExitCode, strings.TrimSpace(string(out.Stderr)))
	}
	return ParseList(string(out.Stdout)), nil
}

// Show returns the metadata of one package. A non-zero exit (unknown
// package) is reported as errors.ErrCodeNotFound.
func (c *Collector) Show(ctx context.Context, name string) (Metadata, error) {
	if err := errs.ValidateName("package", name); err != nil {
		return Metadata{}, err
	}
	out, err := c.runner.Run(ctx, []string{c.tool, "show", name})
	if err != nil {
		return Metadata{}, err
	}
	md := ParseShow(string(out.Stdout))
	md.Warnings = strings.TrimSpace(string(out.Stderr))
	if out.ExitCode != 0 {
		return md, errs.New(errs.ErrCodeNotFound, "%s show %s exited with status %d", c.tool, name, out.ExitCode)
	}
	return md, nil
}

// Requires returns the declared dependencies of name. It lets a Collector
// serve as a depgraph metadata source.
func (c *Collector) Requires(ctx context.Context, name string) ([]string, error) {
	md, err := c.Show(ctx, name)
	if err != nil {
		return nil, err
	}
	return md.Requires, nil
}
