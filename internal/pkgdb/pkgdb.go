// Package pkgdb builds the package-database search path arguments for the
// doctest runner.
//
// The compiler grew a new package-database flag grammar in 7.6: the old
// -package-conf flags were renamed to -package-db, and -clear-package-db was
// added so that arbitrary database stacks can be expressed. Older compilers
// have no clear primitive, so the legacy grammar can only represent stacks
// that start with the global database and fails loudly on anything else.
package pkgdb

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnexpectedStack reports a database stack the legacy grammar cannot
// represent. The build cannot proceed without a correct flag set.
var ErrUnexpectedStack = errors.New("unexpected package database stack")

// Kind discriminates the three package-database entry variants.
type Kind int

const (
	// Global is the compiler's installation-wide database.
	Global Kind = iota

	// User is the per-user database.
	User

	// Specific is a database at an explicit path.
	Specific
)

// Entry is one database in the search stack.
// Path is only meaningful when Kind is Specific.
type Entry struct {
	Kind Kind
	Path string
}

// Stack is an ordered database search path, earliest entry highest priority.
type Stack []Entry

// GlobalDB returns a Global entry.
func GlobalDB() Entry { return Entry{Kind: Global} }

// UserDB returns a User entry.
func UserDB() Entry { return Entry{Kind: User} }

// SpecificDB returns a Specific entry for the database at path.
func SpecificDB(path string) Entry { return Entry{Kind: Specific, Path: path} }

// String renders an entry for diagnostics.
func (e Entry) String() string {
	switch e.Kind {
	case Global:
		return "global"
	case User:
		return "user"
	default:
		return fmt.Sprintf("specific(%s)", e.Path)
	}
}

// String renders the stack for error messages.
func (s Stack) String() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = e.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// BuildArgs builds the database search path arguments for the given stack.
// legacy selects the pre-7.6 flag grammar.
func BuildArgs(stack Stack, legacy bool) ([]string, error) {
	if legacy {
		return LegacyArgs(stack)
	}

	return ModernArgs(stack), nil
}

// LegacyArgs builds -package-conf style arguments.
//
// Only stacks shaped [global, user, specific...] or [global, specific...]
// are representable. The stack is always built starting with the global
// database, but an unexpected shape must be rejected rather than silently
// mis-emitted: wrong flags break the doctest runner with cryptic errors.
func LegacyArgs(stack Stack) ([]string, error) {
	var rest Stack
	noUser := false

	switch {
	case len(stack) >= 2 && stack[0].Kind == Global && stack[1].Kind == User:
		rest = stack[2:]

	case len(stack) >= 1 && stack[0].Kind == Global:
		rest = stack[1:]
		noUser = true

	default:
		return nil, fmt.Errorf("%w %s", ErrUnexpectedStack, stack)
	}

	args := make([]string, 0, len(rest)+1)
	if noUser {
		args = append(args, "-no-user-package-conf")
	}

	for _, e := range rest {
		if e.Kind != Specific {
			return nil, fmt.Errorf("%w %s", ErrUnexpectedStack, stack)
		}

		args = append(args, "-package-conf="+e.Path)
	}

	return args, nil
}

// ModernArgs builds -package-db style arguments.
//
// The two common prefixes keep the compiler's implicit databases and only
// add the specific ones; any other shape is rebuilt from scratch with
// -clear-package-db, so every stack is representable.
func ModernArgs(stack Stack) []string {
	switch {
	case len(stack) >= 2 && stack[0].Kind == Global && stack[1].Kind == User && allSpecific(stack[2:]):
		args := make([]string, 0, len(stack)-2)
		for _, e := range stack[2:] {
			args = append(args, "-package-db="+e.Path)
		}

		return args

	case len(stack) >= 1 && stack[0].Kind == Global && allSpecific(stack[1:]):
		args := make([]string, 0, len(stack))
		args = append(args, "-no-user-package-db")
		for _, e := range stack[1:] {
			args = append(args, "-package-db="+e.Path)
		}

		return args

	default:
		args := make([]string, 0, len(stack)+1)
		args = append(args, "-clear-package-db")
		for _, e := range stack {
			switch e.Kind {
			case Global:
				args = append(args, "-global-package-db")
			case User:
				args = append(args, "-user-package-db")
			default:
				args = append(args, "-package-db="+e.Path)
			}
		}

		return args
	}
}

func allSpecific(entries Stack) bool {
	for _, e := range entries {
		if e.Kind != Specific {
			return false
		}
	}

	return true
}
