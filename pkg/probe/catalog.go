package probe

import "regexp"

// semver is the capture group shared by most catalog patterns.
const semver = `(\d+\.\d+\.\d+)`

// Languages probes language runtimes and compilers.
var Languages = []Spec{
	{Name: "Python", Argv: []string{"python", "--version"}, Pattern: `Python ` + semver},
	{Name: "Java", Argv: []string{"java", "-version"}, Pattern: `version "(\d+(?:\.\d+)*(?:_\d+)?)"`, Combined: true},
	{Name: "Node.js", Argv: []string{"node", "--version"}, Pattern: `v` + semver},
	{Name: "C (gcc)", Argv: []string{"gcc", "-v"}, Pattern: `gcc version ` + semver, Combined: true},
	{Name: "Go", Argv: []string{"go", "version"}, Pattern: `go version go(\d+\.\d+(?:\.\d+)?)`},
	{Name: "Ruby", Argv: []string{"ruby", "-v"}, Pattern: `ruby ` + semver},
	{Name: "PHP", Argv: []string{"php", "-v"}, Pattern: `PHP ` + semver},
	{Name: "Perl", Argv: []string{"perl", "-v"}, Pattern: `v` + semver},
	{Name: "Swift", Argv: []string{"swift", "--version"}, Pattern: `Swift version (\d+\.\d+(?:\.\d+)?)`},
	{Name: "Rust", Argv: []string{"rustc", "--version"}, Pattern: `rustc ` + semver},
	{Name: "C#", Argv: []string{"dotnet", "--version"}, Pattern: `(\d+\.\d+\.\d+)`},
	{Name: "Python 3", Argv: []string{"python3", "--version"}, Pattern: `Python ` + semver},
	{Name: "TypeScript", Argv: []string{"npm", "list", "-g", "typescript"}, Pattern: `typescript@` + semver},
	{Name: "R", Argv: []string{"Rscript", "--version"}, Pattern: `R (?:scripting front-end )?version ` + semver, Combined: true},
	{Name: "Kotlin", Argv: []string{"kotlinc", "-version"}, Pattern: `(?:Kotlin|kotlinc-jvm) (?:version )?` + semver, Combined: true},
}

// Frameworks probes front-end framework CLIs installed globally with npm.
var Frameworks = []Spec{
	npmGlobal("Vue.js", "vue-cli"),
	npmGlobal("React.js", "create-react-app"),
	npmGlobal("Angular", "@angular/cli"),
	npmGlobal("Ember.js", "ember-cli"),
	npmGlobal("Svelte", "svelte-cli"),
	npmGlobal("Next.js", "next"),
	npmGlobal("Nuxt.js", "nuxt"),
	npmGlobal("Gatsby", "gatsby-cli"),
	npmGlobal("VuePress", "vuepress"),
}

// npmGlobal builds a spec that reads pkg's version from `npm list -g pkg`.
func npmGlobal(name, pkg string) Spec {
	return Spec{
		Name:    name,
		Argv:    []string{"npm", "list", "-g", pkg},
		Pattern: regexp.QuoteMeta(pkg) + `@` + semver,
	}
}
