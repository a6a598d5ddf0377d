package entity

import "github.com/google/uuid"

// Principal is the resolved caller of a request: who they are, what role they
// hold and which clinics they may see.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
	// ClinicID is the single clinic of ADMIN, STAFF and DOCTOR principals.
	ClinicID uuid.UUID
	// ClinicIDs is the administered set of a SUPER_ADMIN.
	ClinicIDs []uuid.UUID
}

func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == RoleSuperAdmin
}

// HasRole reports whether the principal holds any of roles.
func (p *Principal) HasRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
