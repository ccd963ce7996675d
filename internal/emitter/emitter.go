// Package emitter composes the doctest runner invocation and writes it as a
// generated Go source artifact.
package emitter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Norgate-AV/dtgen/internal/cache"
	"github.com/Norgate-AV/dtgen/internal/deps"
	"github.com/Norgate-AV/dtgen/internal/pkgdb"
	"github.com/Norgate-AV/dtgen/internal/plan"
	"github.com/Norgate-AV/dtgen/internal/toolchain"
)

// ArtifactName is the fixed file name of the generated artifact.
const ArtifactName = "doctest_build.go"

// ErrWrite marks artifact I/O failures.
var ErrWrite = errors.New("cannot write generated artifact")

// Artifact is the invocation data written for the doctest runner.
type Artifact struct {
	// Pkgs are the dependency flags
	Pkgs []string

	// Flags are the source dir, include dir, database, preprocessor and
	// extension arguments, in that order
	Flags []string

	// ModuleSources are the library's exposed and other module names
	ModuleSources []string
}

// Compose builds the artifact for the test suite named suite.
// Returns nil when the plan has no such suite or no library: the project may
// build without exercising doctests, so that is not an error.
func Compose(p *plan.Plan, tc toolchain.Toolchain, suite string) (*Artifact, error) {
	target := p.TestSuite(suite)
	if target == nil {
		return nil, nil
	}

	lib := p.Library()
	if lib == nil {
		return nil, nil
	}

	dbArgs, err := pkgdb.BuildArgs(p.Stack(), tc.LegacyPackageDB())
	if err != nil {
		return nil, err
	}

	var flags []string
	for _, dir := range lib.SourceDirs {
		flags = append(flags, "-i"+dir)
	}
	for _, dir := range lib.IncludeDirs {
		flags = append(flags, "-I"+dir)
	}
	flags = append(flags, dbArgs...)
	flags = append(flags, lib.CppOptions...)
	for _, ext := range lib.DefaultExtensions {
		flags = append(flags, "-X"+ext)
	}

	return &Artifact{
		Pkgs:          deps.Resolve(lib.Deps(), target.Deps(), p.SelfID(), tc.CompatNames()),
		Flags:         flags,
		ModuleSources: lib.Modules(),
	}, nil
}

// OutputPath returns where the artifact for suite lives under the plan's
// build directory.
func OutputPath(p *plan.Plan, suite string) string {
	return filepath.Join(p.BuildDir, suite, "autogen", ArtifactName)
}

// Render produces the artifact's source text. Identical artifacts render to
// identical bytes.
func (a *Artifact) Render() []byte {
	var buf bytes.Buffer

	buf.WriteString("// Code generated by dtgen. DO NOT EDIT.\n\n")
	buf.WriteString("package buildinfo\n")
	writeStringList(&buf, "Pkgs", "Pkgs are the dependency flags for the doctest runner.", a.Pkgs)
	writeStringList(&buf, "Flags", "Flags are the compiler arguments for the doctest runner.", a.Flags)
	writeStringList(&buf, "ModuleSources", "ModuleSources are the library's module names.", a.ModuleSources)

	return buf.Bytes()
}

func writeStringList(buf *bytes.Buffer, name, doc string, values []string) {
	fmt.Fprintf(buf, "\n// %s\n", doc)

	if len(values) == 0 {
		fmt.Fprintf(buf, "var %s = []string{}\n", name)
		return
	}

	fmt.Fprintf(buf, "var %s = []string{\n", name)
	for _, v := range values {
		fmt.Fprintf(buf, "\t%q,\n", v)
	}
	buf.WriteString("}\n")
}

// Write creates the artifact's directory and writes content to path.
// Failures propagate: the downstream doctest runner has no input without
// this file.
func Write(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create autogen directory: %w", ErrWrite, err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrWrite, filepath.Base(path), err)
	}

	return nil
}

// Run is the hook entry point: compose the artifact for suite and write it,
// skipping the write when the cache says the on-disk artifact already
// matches. A nil cache disables the freshness check.
func Run(p *plan.Plan, tc toolchain.Toolchain, suite string, c *cache.Cache) error {
	artifact, err := Compose(p, tc, suite)
	if err != nil {
		return err
	}

	if artifact == nil {
		log.Debugf("no test suite %q in plan, nothing to do", suite)
		return nil
	}

	path := OutputPath(p, suite)
	content := artifact.Render()

	log.Debugf("pkgs: %v", artifact.Pkgs)
	log.Debugf("flags: %v", artifact.Flags)
	log.Debugf("module sources: %v", artifact.ModuleSources)

	if c != nil && c.Fresh(path, content) {
		log.Infof("%s is up to date", path)
		return nil
	}

	if err := Write(path, content); err != nil {
		return err
	}

	log.Infof("wrote %s", path)

	if c != nil {
		if err := c.Store(path, content, suite, tc.Version()); err != nil {
			log.Warnf("failed to update cache: %v", err)
		}
	}

	return nil
}
