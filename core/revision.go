package core

import "time"

// Revision is the canonical record every versioning backend is normalized
// into before revisions are returned to callers. Whatever the backend's
// natural identifier is (content hash, integer version id, checkpoint id),
// it is rendered into SHA as a string.
type Revision struct {
	SHA         string
	AuthorName  string
	AuthorEmail string
	Message     string
	Timestamp   time.Time
}
