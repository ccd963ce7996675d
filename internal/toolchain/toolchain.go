// Package toolchain identifies the compiler toolchain from its reported
// version string and answers the behavior gates that depend on it.
package toolchain

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// packageDBThreshold is the first version with the -package-db flag grammar.
var packageDBThreshold = semver.MustParse("7.6.0")

// compatNameThreshold is the first version whose package databases register
// sub-libraries under munged names, requiring normalization before comparing
// a dependency against the package under test.
var compatNameThreshold = semver.MustParse("8.2.0")

// Toolchain is a detected compiler toolchain.
//
// The version is used only as a gate against fixed thresholds and is never
// otherwise inspected.
type Toolchain struct {
	version *semver.Version
}

// Parse parses a toolchain version string as reported by the build system,
// accepting both bare versions ("9.4.8") and prefixed ones ("ghc-9.4.8").
func Parse(raw string) (Toolchain, error) {
	s := raw
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		s = s[i+1:]
	}

	v, err := semver.NewVersion(s)
	if err != nil {
		return Toolchain{}, fmt.Errorf("invalid toolchain version %q: %w", raw, err)
	}

	return Toolchain{version: v}, nil
}

// MustParse is Parse for tests and constants; it panics on error.
func MustParse(raw string) Toolchain {
	tc, err := Parse(raw)
	if err != nil {
		panic(err)
	}

	return tc
}

// Version returns the parsed version string.
func (t Toolchain) Version() string {
	if t.version == nil {
		return ""
	}

	return t.version.String()
}

// LegacyPackageDB reports whether the toolchain predates the -package-db
// flag grammar and needs -package-conf flags instead.
func (t Toolchain) LegacyPackageDB() bool {
	return t.version != nil && t.version.LessThan(packageDBThreshold)
}

// CompatNames reports whether dependency names must be normalized to their
// main library name before comparing against the package under test.
func (t Toolchain) CompatNames() bool {
	return t.version != nil && !t.version.LessThan(compatNameThreshold)
}
