package usecase

import (
	"context"
	"strings"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/cache"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/service"
	"clinic-operations/pkg/apperror"
	"clinic-operations/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = apperror.Conflict("email already exists")
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrUserInactive       = apperror.Conflict("user is not active")
	ErrInvalidRole        = apperror.Validation("role must be SUPER_ADMIN, ADMIN, STAFF or DOCTOR")
	ErrSuperAdminClinic   = apperror.Validation("SUPER_ADMIN users are not bound to a clinic")
	ErrUserClinicRequired = apperror.Validation("clinic is required for ADMIN, STAFF and DOCTOR users")
)

// AuthUsecase covers the operator side of identity: provisioning users and
// minting tokens. Password login is handled outside this service.
type AuthUsecase interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	IssueToken(ctx context.Context, userID uuid.UUID) (*dto.TokenResponse, error)
	Logout(ctx context.Context, tokenID string) error
	GetCurrentPrincipal(ctx context.Context) (*dto.PrincipalResponse, error)
}

type authUsecase struct {
	tx         database.Transactor
	log        *logrus.Logger
	guard      *service.TenantGuard
	userRepo   repository.UserRepository
	clinicRepo repository.ClinicRepository
	jwtService *jwt.JWTService
	tokens     cache.TokenRegistry
}

func NewAuthUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	userRepo repository.UserRepository,
	clinicRepo repository.ClinicRepository,
	jwtService *jwt.JWTService,
	tokens cache.TokenRegistry,
) AuthUsecase {
	return &authUsecase{
		tx:         tx,
		log:        log,
		guard:      guard,
		userRepo:   userRepo,
		clinicRepo: clinicRepo,
		jwtService: jwtService,
		tokens:     tokens,
	}
}

func (u *authUsecase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.Role(strings.ToUpper(req.Role))
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if role == entity.RoleSuperAdmin && req.ClinicID != nil {
		return nil, ErrSuperAdminClinic
	}
	if role != entity.RoleSuperAdmin && req.ClinicID == nil {
		return nil, ErrUserClinicRequired
	}

	user := &entity.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: req.FullName,
		Role:     role,
		ClinicID: req.ClinicID,
		IsActive: true,
	}

	err := u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if req.ClinicID != nil {
			clinic, err := u.clinicRepo.FindByID(tx, *req.ClinicID)
			if err != nil {
				return err
			}
			if clinic == nil {
				return ErrClinicNotFound
			}
		}

		existing, err := u.userRepo.FindByEmail(tx, user.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}

		if err := u.userRepo.Create(tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isForeignKeyError(err, "clinic") {
				return ErrClinicNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to create user %s", user.Email)
		return nil, err
	}

	u.log.Infof("User %s created with role %s", user.Email, user.Role)
	return converter.UserToResponse(user), nil
}

// IssueToken signs an access token for an active user and registers it so
// the auth middleware accepts it until it expires or is revoked.
func (u *authUsecase) IssueToken(ctx context.Context, userID uuid.UUID) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByID(u.tx.DB(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, tokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	expiry := u.jwtService.GetAccessExpiry()
	if err := u.tokens.Register(ctx, tokenID, user.ID, expiry); err != nil {
		u.log.Warnf("Failed to register access token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenID:     tokenID,
		ExpiresIn:   int64(expiry.Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, tokenID string) error {
	if err := u.tokens.Revoke(ctx, tokenID); err != nil {
		u.log.Warnf("Failed to revoke token %s: %+v", tokenID, err)
		return err
	}
	return nil
}

func (u *authUsecase) GetCurrentPrincipal(ctx context.Context) (*dto.PrincipalResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	return converter.PrincipalToResponse(p, u.guard.VisibleClinics(p)), nil
}
