// Package probe runs external query commands and extracts values from their
// text output.
//
// A probe is a single command invocation whose only purpose is to yield a
// version or metadata string through a regular expression with exactly one
// capture group. Probes never fail their caller: a missing executable, a
// non-zero exit status, a timeout, or output that does not match all produce
// the [NotFound] sentinel.
//
// # Running Commands
//
// Command execution goes through the [Runner] interface so that callers (and
// tests) can substitute the process layer. [ExecRunner] is the os/exec
// implementation and enforces a bounded timeout on every call:
//
//	parser := probe.NewParser(probe.ExecRunner{Timeout: 10 * time.Second}, logger)
//	v := parser.Version(ctx, []string{"go", "version"}, `go version go(\d+\.\d+(?:\.\d+)?)`)
//
// # Catalogs
//
// [Languages] and [Frameworks] are the fixed probe tables for language
// runtimes and globally installed front-end framework CLIs. [Parser.Collect]
// runs a table and returns one [Result] per entry in table order.
package probe
