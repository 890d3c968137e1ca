// Package vfs is a virtual-filesystem dispatch layer: one contract for file
// operations (read, write, stream, list, version, copy) against
// interchangeable storage backends.
//
// The facade normalizes and validates every path before a backend is
// touched, converts heterogeneous backend failures into one typed error
// taxonomy, negotiates capabilities at runtime instead of letting callers
// infer them from error shapes, presents one canonical versioning interface,
// and moves bytes between arbitrary backends with bounded memory.
//
// Backends live under backend/ and implement the protocol in package core.
//
//	fsys := vfs.New(memory.New())
//	err := fsys.Write(ctx, "notes/a.txt", []byte("hello"), core.WriteOptions{})
package vfs
