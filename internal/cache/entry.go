package cache

import "time"

// Entry records one emitted artifact
type Entry struct {
	// Hash is the SHA256 of the artifact's rendered content
	Hash string `json:"hash"`

	// Path is the absolute path the artifact was written to
	Path string `json:"path"`

	// Suite is the test suite the artifact was generated for
	Suite string `json:"suite"`

	// Toolchain is the toolchain version the flags were built against
	Toolchain string `json:"toolchain"`

	// Timestamp when this entry was created
	Timestamp time.Time `json:"timestamp"`
}
