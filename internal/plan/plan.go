// Package plan reads the build plan exported by the host build system.
//
// The plan is a machine-written JSON document describing the completed
// build's configuration: the package under test, the detected toolchain, the
// package database stack, and the per-component build info. dtgen only reads
// it; resolving dependencies and build directories is the build system's job.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Norgate-AV/dtgen/internal/deps"
	"github.com/Norgate-AV/dtgen/internal/pkgdb"
)

// ErrInvalid marks a plan dtgen cannot work from.
var ErrInvalid = errors.New("invalid build plan")

// Component kinds as written by the build system.
const (
	KindLibrary   = "library"
	KindTestSuite = "test-suite"
)

// Plan is one completed build's configuration.
type Plan struct {
	// Package is the identity of the package being built
	Package Package `json:"package"`

	// Toolchain is the detected compiler version string (e.g. "ghc-9.4.8")
	Toolchain string `json:"toolchain"`

	// BuildDir is the build system's component output directory
	BuildDir string `json:"build_dir"`

	// PackageDBs is the resolved database search stack, highest priority first
	PackageDBs []DBEntry `json:"package_dbs"`

	// Components are the package's build components
	Components []Component `json:"components"`
}

// Package is a package name and version.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DBEntry is one package database in the search stack.
type DBEntry struct {
	Kind string `json:"kind"` // global | user | specific
	Path string `json:"path,omitempty"`
}

// Component is the build info of one library or test suite.
type Component struct {
	Name string `json:"name"`
	Kind string `json:"kind"`

	ExposedModules    []string `json:"exposed_modules,omitempty"`
	OtherModules      []string `json:"other_modules,omitempty"`
	SourceDirs        []string `json:"source_dirs,omitempty"`
	IncludeDirs       []string `json:"include_dirs,omitempty"`
	DefaultExtensions []string `json:"default_extensions,omitempty"`
	CppOptions        []string `json:"cpp_options,omitempty"`

	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// Dependency is one resolved dependency of a component.
type Dependency struct {
	UnitID  string `json:"unit_id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read plan: %w", ErrInvalid, err)
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to parse plan: %w", ErrInvalid, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks the plan for fields dtgen cannot work without.
func (p *Plan) Validate() error {
	if p.Package.Name == "" {
		return fmt.Errorf("%w: missing package name", ErrInvalid)
	}

	if p.Toolchain == "" {
		return fmt.Errorf("%w: missing toolchain version", ErrInvalid)
	}

	if p.BuildDir == "" {
		return fmt.Errorf("%w: missing build directory", ErrInvalid)
	}

	for _, e := range p.PackageDBs {
		switch e.Kind {
		case "global", "user":
		case "specific":
			if e.Path == "" {
				return fmt.Errorf("%w: specific package database is missing its path", ErrInvalid)
			}
		default:
			return fmt.Errorf("%w: unknown package database kind %q", ErrInvalid, e.Kind)
		}
	}

	for _, c := range p.Components {
		if c.Name == "" && c.Kind != KindLibrary {
			return fmt.Errorf("%w: unnamed %s component", ErrInvalid, c.Kind)
		}

		if c.Kind != KindLibrary && c.Kind != KindTestSuite {
			return fmt.Errorf("%w: unknown component kind %q", ErrInvalid, c.Kind)
		}
	}

	return nil
}

// SelfID returns the identity of the package under test.
func (p *Plan) SelfID() deps.PackageID {
	return deps.PackageID{Name: p.Package.Name, Version: p.Package.Version}
}

// Stack converts the plan's database list to a search stack, defaulting to
// [global, user] when the build system supplied none.
func (p *Plan) Stack() pkgdb.Stack {
	if len(p.PackageDBs) == 0 {
		return pkgdb.Stack{pkgdb.GlobalDB(), pkgdb.UserDB()}
	}

	stack := make(pkgdb.Stack, 0, len(p.PackageDBs))
	for _, e := range p.PackageDBs {
		switch e.Kind {
		case "global":
			stack = append(stack, pkgdb.GlobalDB())
		case "user":
			stack = append(stack, pkgdb.UserDB())
		default:
			stack = append(stack, pkgdb.SpecificDB(e.Path))
		}
	}

	return stack
}

// Library returns the package's library component, or nil if it has none.
func (p *Plan) Library() *Component {
	for i := range p.Components {
		if p.Components[i].Kind == KindLibrary {
			return &p.Components[i]
		}
	}

	return nil
}

// TestSuite returns the test suite named name, or nil if no such component
// exists in the plan.
func (p *Plan) TestSuite(name string) *Component {
	for i := range p.Components {
		if p.Components[i].Kind == KindTestSuite && p.Components[i].Name == name {
			return &p.Components[i]
		}
	}

	return nil
}

// Deps returns the component's dependencies as resolver refs.
func (c *Component) Deps() []deps.Ref {
	refs := make([]deps.Ref, 0, len(c.Dependencies))
	for _, d := range c.Dependencies {
		refs = append(refs, deps.Ref{
			UnitID:  d.UnitID,
			Package: deps.PackageID{Name: d.Name, Version: d.Version},
		})
	}

	return refs
}

// Modules returns the component's exposed and other module names, exposed
// first, order preserved.
func (c *Component) Modules() []string {
	modules := make([]string, 0, len(c.ExposedModules)+len(c.OtherModules))
	modules = append(modules, c.ExposedModules...)
	modules = append(modules, c.OtherModules...)

	return modules
}
