// Package vfstest provides a conformance test suite for backend adapters.
//
// Backend packages import it and run the suite against a fresh adapter per
// invocation, exercised through the dispatch facade so path normalization,
// capability checks, and error typing are verified along the way:
//
//	func TestAdapter(t *testing.T) {
//	    vfstest.TestAdapter(t, func() *vfs.FS {
//	        return vfs.New(memory.New())
//	    })
//	}
//
// The suite validates contract behavior, not backend internals. Capability
// subtests self-skip when the adapter does not support the operations they
// cover.
package vfstest

import (
	"testing"

	vfs "github.com/jmgilman/go/vfs"
)

// Config adapts the suite to documented backend behavior differences.
type Config struct {
	// VirtualDirectories indicates directories exist only as key prefixes
	// or markers (object stores). Directory-shape assertions loosen
	// accordingly.
	VirtualDirectories bool

	// SkipTests lists subtest names to skip, e.g. "Directories/DeleteNonEmpty".
	SkipTests []string
}

// POSIXConfig returns the configuration for directory-backed adapters.
func POSIXConfig() Config {
	return Config{}
}

// ObjectStoreConfig returns the configuration for key-value object stores.
func ObjectStoreConfig() Config {
	return Config{VirtualDirectories: true}
}

// TestAdapter runs the full conformance suite with POSIXConfig.
// newFS must return a fresh, empty filesystem on every call.
func TestAdapter(t *testing.T, newFS func() *vfs.FS) {
	TestAdapterWithConfig(t, newFS, POSIXConfig())
}

// TestAdapterWithConfig runs the full conformance suite.
func TestAdapterWithConfig(t *testing.T, newFS func() *vfs.FS, config Config) {
	shouldSkip := func(name string) bool {
		for _, skip := range config.SkipTests {
			if skip == name {
				return true
			}
		}
		return false
	}

	run := func(name string, fn func(*testing.T, *vfs.FS, Config)) {
		t.Run(name, func(t *testing.T) {
			if shouldSkip(name) {
				t.Skip("skipped by backend configuration")
			}
			fn(t, newFS(), config)
		})
	}

	run("Files", testFiles)
	run("Directories", testDirectories)
	run("PathValidation", testPathValidation)
	run("Capabilities", testCapabilities)
}
