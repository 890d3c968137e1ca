// Package core defines the adapter protocol for the vfs dispatch layer.
//
// A backend implements the Adapter interface plus any of the optional
// capability interfaces (StreamReader, Appender, Versioner, ...). The
// dispatch facade never calls an optional method without first consulting
// Supports, which combines each adapter's declared unsupported-operations
// policy with a structural check of the interfaces it implements.
package core
