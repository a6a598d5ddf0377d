package service

import (
	"clinic-operations/internal/domain/entity"
	"clinic-operations/pkg/apperror"

	"github.com/google/uuid"
)

var (
	ErrNoPrincipal          = apperror.Unauthorized("authentication required")
	ErrClinicOutOfScope     = apperror.Forbidden("clinic is outside your scope")
	ErrClinicTargetRequired = apperror.Validation("clinicId is required")
	ErrRoleNotPermitted     = apperror.Forbidden("insufficient permissions")
)

// TenantGuard is the single place clinic visibility is decided.
type TenantGuard struct{}

func NewTenantGuard() *TenantGuard {
	return &TenantGuard{}
}

// CanAccess reports whether p may see or mutate rows of clinicID.
func (g *TenantGuard) CanAccess(p *entity.Principal, clinicID uuid.UUID) bool {
	if p == nil || clinicID == uuid.Nil {
		return false
	}
	if p.IsSuperAdmin() {
		for _, id := range p.ClinicIDs {
			if id == clinicID {
				return true
			}
		}
		return false
	}
	return p.ClinicID == clinicID
}

// Authorize rejects an explicit target clinic outside p's scope.
func (g *TenantGuard) Authorize(p *entity.Principal, clinicID uuid.UUID) error {
	if p == nil {
		return ErrNoPrincipal
	}
	if !g.CanAccess(p, clinicID) {
		return ErrClinicOutOfScope
	}
	return nil
}

// RequireRole rejects principals holding none of roles.
func (g *TenantGuard) RequireRole(p *entity.Principal, roles ...entity.Role) error {
	if p == nil {
		return ErrNoPrincipal
	}
	if !p.HasRole(roles...) {
		return ErrRoleNotPermitted
	}
	return nil
}

// VisibleClinics returns every clinic id p may see.
func (g *TenantGuard) VisibleClinics(p *entity.Principal) []uuid.UUID {
	if p == nil {
		return nil
	}
	if p.IsSuperAdmin() {
		out := make([]uuid.UUID, len(p.ClinicIDs))
		copy(out, p.ClinicIDs)
		return out
	}
	if p.ClinicID == uuid.Nil {
		return nil
	}
	return []uuid.UUID{p.ClinicID}
}

// Narrow intersects an optional requested clinic with p's visible set. A
// request for an out-of-scope clinic narrows to nothing rather than failing.
func (g *TenantGuard) Narrow(p *entity.Principal, requested *uuid.UUID) []uuid.UUID {
	if requested == nil {
		return g.VisibleClinics(p)
	}
	if g.CanAccess(p, *requested) {
		return []uuid.UUID{*requested}
	}
	return []uuid.UUID{}
}

// TargetClinic picks the clinic a create operation writes into. Single-clinic
// principals default to their own clinic; a SUPER_ADMIN must name one unless
// it administers exactly one.
func (g *TenantGuard) TargetClinic(p *entity.Principal, requested *uuid.UUID) (uuid.UUID, error) {
	if p == nil {
		return uuid.Nil, ErrNoPrincipal
	}
	if requested == nil {
		if !p.IsSuperAdmin() {
			return p.ClinicID, nil
		}
		if len(p.ClinicIDs) == 1 {
			return p.ClinicIDs[0], nil
		}
		return uuid.Nil, ErrClinicTargetRequired
	}
	if err := g.Authorize(p, *requested); err != nil {
		return uuid.Nil, err
	}
	return *requested, nil
}
