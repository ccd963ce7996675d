// Package deps resolves the dependency flags for the doctest runner.
package deps

import "strings"

// PackageID is a package's human-readable identity.
type PackageID struct {
	Name    string
	Version string
}

// String renders the identity as name-version.
func (p PackageID) String() string {
	return p.Name + "-" + p.Version
}

// Ref is one resolved dependency: a specific installed instance of a
// package. The unit id pins the exact compiled instance; the package id is
// the name+version it was built from.
type Ref struct {
	UnitID  string
	Package PackageID
}

// Resolve maps the dependencies of the library and its doctest suite to
// runner flags.
//
// The library's dependencies come first, then the suite's, deduplicated by
// full Ref equality keeping the first occurrence. A dependency on the
// package under test is referenced by name: the doctest run may see a
// freshly registered instance of that package whose unit id the runner
// cannot know yet. Everything else is pinned by unit id so that multiple
// versions in the database stack stay unambiguous.
//
// compat selects the sub-library aware identity comparison; see MainLibName.
func Resolve(libDeps, testDeps []Ref, self PackageID, compat bool) []string {
	merged := make([]Ref, 0, len(libDeps)+len(testDeps))
	seen := make(map[Ref]struct{}, len(libDeps)+len(testDeps))

	for _, r := range append(append([]Ref{}, libDeps...), testDeps...) {
		if _, ok := seen[r]; ok {
			continue
		}

		seen[r] = struct{}{}
		merged = append(merged, r)
	}

	args := make([]string, 0, len(merged))
	for _, r := range merged {
		if isSelf(r.Package, self, compat) {
			args = append(args, "-package="+r.Package.String())
		} else {
			args = append(args, "-package-id="+r.UnitID)
		}
	}

	return args
}

func isSelf(dep, self PackageID, compat bool) bool {
	if !compat {
		return dep == self
	}

	return MainLibName(dep.Name) == self.Name && dep.Version == self.Version
}

// MainLibName strips a sub-library qualifier from a dependency name,
// returning the name of the package that owns it. Newer toolchains register
// sub-libraries under "pkg:sublib", so a suite depending on an internal
// sub-library of the package under test still counts as a self-dependency.
func MainLibName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i]
	}

	return name
}
