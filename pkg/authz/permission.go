// Package authz implements capability-based authorization for space
// resources. Grants are persisted per (space, subject) as strings of
// the characters r, w, d; route requirements are static capability
// sets attached at route-registration time.
package authz

import "strings"

// Permission is a capability set over read, write, and delete.
// It serves both as a route requirement and as a stored grant.
type Permission struct {
	Read   bool
	Write  bool
	Delete bool
}

// Convenience requirements for route registration.
var (
	ReadAccess   = Permission{Read: true}
	WriteAccess  = Permission{Write: true}
	DeleteAccess = Permission{Delete: true}
	FullAccess   = Permission{Read: true, Write: true, Delete: true}
)

// Parse decodes a stored capability string. Presence of the characters
// r, w, d toggles the corresponding flag; unknown characters are
// ignored. The empty string is the all-false grant.
func Parse(perms string) Permission {
	return Permission{
		Read:   strings.ContainsRune(perms, 'r'),
		Write:  strings.ContainsRune(perms, 'w'),
		Delete: strings.ContainsRune(perms, 'd'),
	}
}

// String encodes the capability set in stored form.
func (p Permission) String() string {
	var b strings.Builder
	if p.Read {
		b.WriteByte('r')
	}
	if p.Write {
		b.WriteByte('w')
	}
	if p.Delete {
		b.WriteByte('d')
	}
	return b.String()
}

// IsAllowed reports whether the grant satisfies this requirement: every
// capability flagged true in the requirement must be true in the grant.
// A grant may hold more capabilities than required.
func (p Permission) IsAllowed(grant Permission) bool {
	if p.Read && !grant.Read {
		return false
	}
	if p.Write && !grant.Write {
		return false
	}
	if p.Delete && !grant.Delete {
		return false
	}
	return true
}
