package service

import (
	"context"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/pkg/apperror"
	"clinic-operations/pkg/jwt"

	"github.com/sirupsen/logrus"
)

var (
	ErrPrincipalUnknown  = apperror.Unauthorized("account not found")
	ErrPrincipalInactive = apperror.Unauthorized("account is inactive")
	ErrPrincipalStale    = apperror.Unauthorized("token no longer matches account")
)

// PrincipalResolver turns verified token claims into a Principal using the
// stored account, so a role or clinic change takes effect immediately.
type PrincipalResolver interface {
	Resolve(ctx context.Context, claims *jwt.Claims) (*entity.Principal, error)
}

type principalResolver struct {
	tx       database.Transactor
	log      *logrus.Logger
	userRepo repository.UserRepository
}

func NewPrincipalResolver(tx database.Transactor, log *logrus.Logger, userRepo repository.UserRepository) PrincipalResolver {
	return &principalResolver{tx: tx, log: log, userRepo: userRepo}
}

func (r *principalResolver) Resolve(ctx context.Context, claims *jwt.Claims) (*entity.Principal, error) {
	db := r.tx.DB(ctx)
	user, err := r.userRepo.FindByID(db, claims.UserID)
	if err != nil {
		r.log.Warnf("Failed to load user %s: %+v", claims.UserID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrPrincipalUnknown
	}
	if !user.IsActive {
		return nil, ErrPrincipalInactive
	}
	if string(user.Role) != claims.Role {
		return nil, ErrPrincipalStale
	}

	p := &entity.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
	if user.Role == entity.RoleSuperAdmin {
		ids, err := r.userRepo.FindSuperAdminClinicIDs(db, user.ID)
		if err != nil {
			r.log.Warnf("Failed to load clinic scope for %s: %+v", user.ID, err)
			return nil, err
		}
		p.ClinicIDs = ids
		return p, nil
	}

	if user.ClinicID == nil || claims.ClinicID != user.ClinicID.String() {
		return nil, ErrPrincipalStale
	}
	p.ClinicID = *user.ClinicID
	return p, nil
}
