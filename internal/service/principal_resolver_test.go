package service

import (
	"context"
	"errors"
	"testing"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newTestResolver(users *fakeUserRepo) PrincipalResolver {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewPrincipalResolver(&fakeTransactor{}, log, users)
}

func TestPrincipalResolverSuperAdmin(t *testing.T) {
	users := newFakeUserRepo()
	id := uuid.New()
	users.users[id] = &entity.User{ID: id, Email: "root@clinic.test", Role: entity.RoleSuperAdmin, IsActive: true}
	a, b := uuid.New(), uuid.New()
	users.superScopes[id] = []uuid.UUID{a, b}

	p, err := newTestResolver(users).Resolve(context.Background(), &jwt.Claims{UserID: id, Role: "SUPER_ADMIN"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !p.IsSuperAdmin() || len(p.ClinicIDs) != 2 {
		t.Errorf("principal = %+v", p)
	}
}

func TestPrincipalResolverClinicUser(t *testing.T) {
	users := newFakeUserRepo()
	id, clinic := uuid.New(), uuid.New()
	users.users[id] = &entity.User{ID: id, Role: entity.RoleStaff, ClinicID: &clinic, IsActive: true}

	p, err := newTestResolver(users).Resolve(context.Background(), &jwt.Claims{UserID: id, Role: "STAFF", ClinicID: clinic.String()})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.ClinicID != clinic {
		t.Errorf("ClinicID = %v, want %v", p.ClinicID, clinic)
	}
}

func TestPrincipalResolverRejects(t *testing.T) {
	users := newFakeUserRepo()
	clinic := uuid.New()
	active := uuid.New()
	users.users[active] = &entity.User{ID: active, Role: entity.RoleAdmin, ClinicID: &clinic, IsActive: true}
	inactive := uuid.New()
	users.users[inactive] = &entity.User{ID: inactive, Role: entity.RoleAdmin, ClinicID: &clinic}

	tests := []struct {
		name   string
		claims *jwt.Claims
		want   error
	}{
		{"unknown user", &jwt.Claims{UserID: uuid.New(), Role: "ADMIN"}, ErrPrincipalUnknown},
		{"inactive", &jwt.Claims{UserID: inactive, Role: "ADMIN", ClinicID: clinic.String()}, ErrPrincipalInactive},
		{"role changed", &jwt.Claims{UserID: active, Role: "STAFF", ClinicID: clinic.String()}, ErrPrincipalStale},
		{"clinic changed", &jwt.Claims{UserID: active, Role: "ADMIN", ClinicID: uuid.NewString()}, ErrPrincipalStale},
	}
	r := newTestResolver(users)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Resolve(context.Background(), tt.claims); !errors.Is(err, tt.want) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.want)
			}
		})
	}
}
