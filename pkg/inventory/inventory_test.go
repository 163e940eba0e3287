package inventory

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/probe/probetest"
)

const pipList = `Package    Version
---------- -------
numpy      1.24.0
pandas     2.0.0
pip        23.3.1 /usr/lib/python3/dist-packages
`

func TestParseList(t *testing.T) {
	got := ParseList(pipList)
	want := []Package{
		{Name: "numpy", Version: "1.24.0"},
		{Name: "pandas", Version: "2.0.0"},
		{Name: "pip", Version: "23.3.1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseList() = %v, want %v", got, want)
	}
}

func TestParseListPreservesCountAndOrder(t *testing.T) {
	for _, n := range []int{0, 1, 7, 250} {
		t.Run(fmt.Sprintf("%d lines", n), func(t *testing.T) {
			var b strings.Builder
			b.WriteString("Package Version\n------- -------\n")
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, "pkg%03d %d.0.0\n", i, i)
			}

			got := ParseList(b.String())
			if len(got) != n {
				t.Fatalf("ParseList() returned %d pairs, want %d", len(got), n)
			}
			for i, p := range got {
				if p.Name != fmt.Sprintf("pkg%03d", i) || p.Version != fmt.Sprintf("%d.0.0", i) {
					t.Errorf("pair %d = %+v", i, p)
				}
			}
		})
	}
}

func TestParseListEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Package
	}{
		{"empty", "", nil},
		{"headers only", "Package Version\n------- -------\n", nil},
		{"blank lines skipped", "h1\nh2\n\nrequests 2.31.0\n\n\n", []Package{{"requests", "2.31.0"}}},
		{"crlf", "h1\r\nh2\r\nclick 8.1.7\r\n", []Package{{"click", "8.1.7"}}},
		{"single token skipped", "h1\nh2\norphan\nattrs 23.1.0\n", []Package{{"attrs", "23.1.0"}}},
		{"tabs and spaces", "h1\nh2\n\tsix \t 1.16.0  editable\n", []Package{{"six", "1.16.0"}}},
		{"duplicates kept", "h1\nh2\na 1\na 2\n", []Package{{"a", "1"}, {"a", "2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseList(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndexLastSeenWins(t *testing.T) {
	idx := Index([]Package{{"a", "1"}, {"b", "2"}, {"a", "3"}})
	if idx["a"] != "3" || idx["b"] != "2" || len(idx) != 2 {
		t.Errorf("Index() = %v", idx)
	}
}

func TestParseShow(t *testing.T) {
	text := `Name: pandas
Version: 2.0.0
Summary: Powerful data structures
Requires: numpy, python-dateutil, pytz, tzdata
Required-by: seaborn
`
	md := ParseShow(text)
	if md.Name != "pandas" || md.Version != "2.0.0" {
		t.Errorf("ParseShow() name/version = %q/%q", md.Name, md.Version)
	}
	want := []string{"numpy", "python-dateutil", "pytz", "tzdata"}
	if !reflect.DeepEqual(md.Requires, want) {
		t.Errorf("Requires = %v, want %v", md.Requires, want)
	}
}

func TestParseRequires(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "Name: six\nVersion: 1.16.0\n", nil},
		{"blank", "Name: six\nRequires: \nRequired-by: x\n", nil},
		{"single", "Requires: idna", []string{"idna"}},
		{"empty entries dropped", "Requires: a, , b,", []string{"a", "b"}},
		{"first line wins", "Requires: a\nRequires: b", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRequires(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRequires() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectorList(t *testing.T) {
	runner := probetest.NewRunner(map[string]probetest.Response{
		"pip list": {Stdout: pipList},
	})
	c := NewCollector(runner, "")

	pkgs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(pkgs) != 3 {
		t.Errorf("List() returned %d packages, want 3", len(pkgs))
	}
}

func TestCollectorListErrors(t *testing.T) {
	t.Run("missing tool", func(t *testing.T) {
		c := NewCollector(probetest.NewRunner(nil), "pip")
		_, err := c.List(context.Background())
		if !errs.Is(err, errs.ErrCodeToolNotFound) {
			t.Errorf("List() error = %v, want %s", err, errs.ErrCodeToolNotFound)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		c := NewCollector(probetest.NewRunner(map[string]probetest.Response{
			"pip3 list": {ExitCode: 1, Stderr: "boom"},
		}), "pip3")
		_, err := c.List(context.Background())
		if !errs.Is(err, errs.ErrCodeToolFailed) {
			t.Errorf("List() error = %v, want %s", err, errs.ErrCodeToolFailed)
		}
	})
}

func TestCollectorShow(t *testing.T) {
	runner := probetest.NewRunner(map[string]probetest.Response{
		"pip show requests": {
			Stdout: "Name: requests\nVersion: 2.31.0\nRequires: certifi, idna\n",
			Stderr: "WARNING: Package(s) not found: extra",
		},
		"pip show ghost": {ExitCode: 1, Stderr: "WARNING: Package(s) not found: ghost"},
	})
	c := NewCollector(runner, "pip")
	ctx := context.Background()

	md, err := c.Show(ctx, "requests")
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if md.Warnings == "" {
		t.Error("Show() should keep stderr in Warnings")
	}

	deps, err := c.Requires(ctx, "requests")
	if err != nil || !reflect.DeepEqual(deps, []string{"certifi", "idna"}) {
		t.Errorf("Requires() = %v, %v", deps, err)
	}

	if _, err := c.Show(ctx, "ghost"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Show(ghost) error = %v, want %s", err, errs.ErrCodeNotFound)
	}

	if _, err := c.Show(ctx, "--all"); !errs.Is(err, errs.ErrCodeInvalidName) {
		t.Errorf("Show(--all) error = %v, want %s", err, errs.ErrCodeInvalidName)
	}
}
