package core

// Visibility is the portable two-state permission model. Backends map it to
// whatever their native permission system offers (file modes, object ACLs,
// a side table).
type Visibility string

const (
	// VisibilityPublic marks an entry readable by others.
	VisibilityPublic Visibility = "public"

	// VisibilityPrivate marks an entry readable only by its owner.
	VisibilityPrivate Visibility = "private"
)

// IsValid reports whether v is one of the two recognized states.
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}
