package session

// Source records how an admin session was established.
type Source string

const (
	SourceNone      Source = ""
	SourceDedicated Source = "dedicated"
	SourceFallback  Source = "fallback"
)

// Resolution is the outcome of admin session derivation.
type Resolution struct {
	Identity *Identity
	Source   Source
}

// Authenticated reports whether the resolution produced an identity.
func (r Resolution) Authenticated() bool {
	return r.Identity != nil
}

// Resolve derives the admin identity from the two bundles. A dedicated admin
// bundle wins; otherwise a staff-flagged normal bundle is used as a fallback
// without creating an admin bundle.
func Resolve(normal, admin *Bundle) Resolution {
	if admin != nil {
		id := admin.Identity
		return Resolution{Identity: &id, Source: SourceDedicated}
	}

	if normal != nil && normal.Identity.IsStaff {
		id := normal.Identity
		return Resolution{Identity: &id, Source: SourceFallback}
	}

	return Resolution{Source: SourceNone}
}
