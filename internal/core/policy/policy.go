// Package policy holds the role matrix and the field visibility rules.
//
// The authorization gate answers whether a request may proceed; this package
// answers what the response may contain. Restricted employee fields are
// controlled by choosing the storage projection up front, so a read that is
// not entitled to them never loads them.
package policy

import "github.com/buildco/cms-api/internal/core/domain"

// Role sets used by the router.
var (
	Admins         = []domain.Role{domain.RoleAdmin}
	ContentWriters = []domain.Role{domain.RoleAdmin, domain.RoleEditor}
)

// EmployeeAccess names the context an employee record is read in.
type EmployeeAccess int

const (
	// AccessDirectory is the public directory listing.
	AccessDirectory EmployeeAccess = iota
	// AccessProfile is the public single-record endpoint.
	AccessProfile
	// AccessAdminList is the administrative listing.
	AccessAdminList
	// AccessSelf is the caller reading their own record.
	AccessSelf
	// AccessAdmin is an explicit administrative fetch or update of one record.
	AccessAdmin
)

// Scope selects which public content documents a read may return.
type Scope int

const (
	VisibleOnly Scope = iota
	AllContent
)

// Policy evaluates visibility for one deployment.
type Policy struct {
	editorsSeePersonal bool
}

// New returns a Policy. When editorsSeePersonal is set, editors are treated
// like admins for single-record employee reads.
func New(editorsSeePersonal bool) Policy {
	return Policy{editorsSeePersonal: editorsSeePersonal}
}

// EmployeeProjection returns the projection a read of an employee owned by
// ownerUserID must use for viewer in the given context. viewer may be nil.
func (p Policy) EmployeeProjection(viewer *domain.Principal, access EmployeeAccess, ownerUserID string) domain.Projection {
	switch access {
	case AccessSelf:
		if id := viewer.UserID(); id != "" && id == ownerUserID {
			return domain.ProjectionPrivate
		}
	case AccessAdmin:
		if p.privileged(viewer) {
			return domain.ProjectionPrivate
		}
	case AccessAdminList:
		if p.privileged(viewer) {
			return domain.ProjectionStandard
		}
	}
	return domain.ProjectionDirectory
}

// ContentScope returns AllContent when hidden documents are requested by a
// content writer. Everything else sees visible documents only.
func (p Policy) ContentScope(viewer *domain.Principal, includeHidden bool) Scope {
	if includeHidden && viewer.HasRole(ContentWriters...) {
		return AllContent
	}
	return VisibleOnly
}

func (p Policy) privileged(viewer *domain.Principal) bool {
	if viewer.HasRole(domain.RoleAdmin) {
		return true
	}
	return p.editorsSeePersonal && viewer.HasRole(domain.RoleEditor)
}
