// AngelaMos | 2026
// scope.go

package authz

import (
	"github.com/google/uuid"
)

type scopeKind int

const (
	scopeAll scopeKind = iota
	scopeRegion
	scopeNone
)

// Scope is the resolved region boundary a caller may read and write within.
// It is a mandatory parameter on every scoped store access; there is no
// "unset" value that silently means "see everything".
//
// Three states exist: All (owner without an override), a single region, and
// None (a non-owner with no region assignment, who sees no data at all).
type Scope struct {
	kind     scopeKind
	regionID uuid.UUID
}

func ScopeAll() Scope {
	return Scope{kind: scopeAll}
}

func ScopeRegion(regionID uuid.UUID) Scope {
	return Scope{kind: scopeRegion, regionID: regionID}
}

func ScopeNone() Scope {
	return Scope{kind: scopeNone}
}

func (s Scope) IsAll() bool {
	return s.kind == scopeAll
}

func (s Scope) IsNone() bool {
	return s.kind == scopeNone
}

// RegionID returns the scoped region and true when the scope is bound to a
// single region.
func (s Scope) RegionID() (uuid.UUID, bool) {
	if s.kind != scopeRegion {
		return uuid.Nil, false
	}
	return s.regionID, true
}

// Allows reports whether a row belonging to regionID is visible under s.
func (s Scope) Allows(regionID uuid.UUID) bool {
	switch s.kind {
	case scopeAll:
		return true
	case scopeRegion:
		return s.regionID == regionID
	default:
		return false
	}
}
