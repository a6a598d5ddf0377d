package usecase

import (
	"errors"
	"sync"
	"testing"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeClinicRepo struct {
	mu      sync.Mutex
	clinics map[uuid.UUID]entity.Clinic
	deps    map[uuid.UUID]entity.ClinicDependents
}

func newFakeClinicRepo() *fakeClinicRepo {
	return &fakeClinicRepo{
		clinics: map[uuid.UUID]entity.Clinic{},
		deps:    map[uuid.UUID]entity.ClinicDependents{},
	}
}

func (r *fakeClinicRepo) Create(db *gorm.DB, clinic *entity.Clinic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if clinic.ID == uuid.Nil {
		clinic.ID = uuid.New()
	}
	r.clinics[clinic.ID] = *clinic
	return nil
}

func (r *fakeClinicRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clinics[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeClinicRepo) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Clinic
	for _, id := range ids {
		if c, ok := r.clinics[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClinicRepo) Update(db *gorm.DB, clinic *entity.Clinic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clinics[clinic.ID] = *clinic
	return nil
}

func (r *fakeClinicRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clinics, id)
	return nil
}

func (r *fakeClinicRepo) CountDependents(db *gorm.DB, id uuid.UUID) (entity.ClinicDependents, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deps[id], nil
}

// fakeScopeRepo keeps only the super admin clinic scope rows.
type fakeScopeRepo struct {
	mu    sync.Mutex
	scope map[uuid.UUID][]uuid.UUID
}

func (r *fakeScopeRepo) Create(db *gorm.DB, user *entity.User) error { return nil }

func (r *fakeScopeRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) { return nil, nil }

func (r *fakeScopeRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	return nil, nil
}

func (r *fakeScopeRepo) FindSuperAdminClinicIDs(db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.scope[userID]...), nil
}

func (r *fakeScopeRepo) AddSuperAdminClinic(db *gorm.DB, userID, clinicID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scope[userID] = append(r.scope[userID], clinicID)
	return nil
}

func (r *fakeScopeRepo) RemoveClinicFromSuperAdmins(db *gorm.DB, clinicID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for user, ids := range r.scope {
		kept := ids[:0]
		for _, id := range ids {
			if id != clinicID {
				kept = append(kept, id)
			}
		}
		r.scope[user] = kept
	}
	return nil
}

type clinicFixture struct {
	uc      ClinicUsecase
	clinics *fakeClinicRepo
	scope   *fakeScopeRepo
	audit   *fakeAudit
	super   *entity.Principal
}

func newClinicFixture() *clinicFixture {
	f := &clinicFixture{
		clinics: newFakeClinicRepo(),
		scope:   &fakeScopeRepo{scope: map[uuid.UUID][]uuid.UUID{}},
		audit:   &fakeAudit{},
		super:   &entity.Principal{UserID: uuid.New(), Role: entity.RoleSuperAdmin},
	}
	f.uc = NewClinicUsecase(&fakeTransactor{}, quietLogger(), service.NewTenantGuard(), f.clinics, f.scope, f.audit)
	return f
}

func TestCreateClinicAddsCreatorScope(t *testing.T) {
	f := newClinicFixture()

	resp, err := f.uc.CreateClinic(principalCtx(f.super), &dto.CreateClinicRequest{Name: "North", Address: "1 Main St", Phone: "555"})
	if err != nil {
		t.Fatalf("CreateClinic: %v", err)
	}

	scope, _ := f.scope.FindSuperAdminClinicIDs(nil, f.super.UserID)
	if !containsID(scope, resp.ID) {
		t.Errorf("scope %v does not contain new clinic %s", scope, resp.ID)
	}
	if got := f.audit.actions(); len(got) != 1 || got[0] != entity.AuditActionClinicCreate {
		t.Errorf("audit = %v", got)
	}
}

func TestCreateClinicRequiresSuperAdmin(t *testing.T) {
	f := newClinicFixture()
	admin := &entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin, ClinicID: uuid.New()}

	_, err := f.uc.CreateClinic(principalCtx(admin), &dto.CreateClinicRequest{Name: "North", Address: "x", Phone: "1"})
	if !errors.Is(err, service.ErrRoleNotPermitted) {
		t.Fatalf("err = %v, want ErrRoleNotPermitted", err)
	}
}

func TestClinicAccessOutsideScope(t *testing.T) {
	f := newClinicFixture()
	other := &entity.Clinic{Name: "Other"}
	_ = f.clinics.Create(nil, other)

	if _, err := f.uc.GetClinic(principalCtx(f.super), other.ID); !errors.Is(err, ErrClinicNotFound) {
		t.Errorf("get: err = %v, want ErrClinicNotFound", err)
	}
	name := "Renamed"
	if _, err := f.uc.UpdateClinic(principalCtx(f.super), other.ID, &dto.UpdateClinicRequest{Name: &name}); !errors.Is(err, ErrClinicNotFound) {
		t.Errorf("update: err = %v, want ErrClinicNotFound", err)
	}

	list, err := f.uc.ListClinics(principalCtx(f.super))
	if err != nil {
		t.Fatalf("ListClinics: %v", err)
	}
	if list.Total != 0 {
		t.Errorf("total = %d, want 0", list.Total)
	}
}

func TestUpdateClinicByItsAdmin(t *testing.T) {
	f := newClinicFixture()
	clinic := &entity.Clinic{Name: "North", Phone: "1"}
	_ = f.clinics.Create(nil, clinic)
	admin := &entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin, ClinicID: clinic.ID}

	phone := "999"
	resp, err := f.uc.UpdateClinic(principalCtx(admin), clinic.ID, &dto.UpdateClinicRequest{Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateClinic: %v", err)
	}
	if resp.Phone != "999" || resp.Name != "North" {
		t.Errorf("resp = %+v", resp)
	}

	staff := staffOf(clinic.ID)
	if _, err := f.uc.UpdateClinic(principalCtx(staff), clinic.ID, &dto.UpdateClinicRequest{Phone: &phone}); !errors.Is(err, service.ErrRoleNotPermitted) {
		t.Errorf("staff update: err = %v, want ErrRoleNotPermitted", err)
	}
}

func TestDeleteClinic(t *testing.T) {
	f := newClinicFixture()
	ctx := principalCtx(f.super)

	busy, err := f.uc.CreateClinic(ctx, &dto.CreateClinicRequest{Name: "Busy", Address: "x", Phone: "1"})
	if err != nil {
		t.Fatalf("CreateClinic: %v", err)
	}
	idle, err := f.uc.CreateClinic(ctx, &dto.CreateClinicRequest{Name: "Idle", Address: "y", Phone: "2"})
	if err != nil {
		t.Fatalf("CreateClinic: %v", err)
	}
	f.clinics.deps[busy.ID] = entity.ClinicDependents{Rooms: 1}

	// The principal in ctx was built before the clinics existed.
	f.super.ClinicIDs = []uuid.UUID{busy.ID, idle.ID}

	if err := f.uc.DeleteClinic(ctx, busy.ID); !errors.Is(err, ErrClinicHasDependents) {
		t.Fatalf("busy: err = %v, want ErrClinicHasDependents", err)
	}
	if err := f.uc.DeleteClinic(ctx, idle.ID); err != nil {
		t.Fatalf("idle: %v", err)
	}

	if c, _ := f.clinics.FindByID(nil, idle.ID); c != nil {
		t.Error("idle clinic still stored")
	}
	scope, _ := f.scope.FindSuperAdminClinicIDs(nil, f.super.UserID)
	if containsID(scope, idle.ID) || !containsID(scope, busy.ID) {
		t.Errorf("scope after delete = %v", scope)
	}
	if c, _ := f.clinics.FindByID(nil, busy.ID); c == nil {
		t.Error("busy clinic was deleted")
	}
}

func TestCreateThenDeleteClinicRestoresScope(t *testing.T) {
	f := newClinicFixture()
	home := &entity.Clinic{Name: "Home"}
	_ = f.clinics.Create(nil, home)
	_ = f.scope.AddSuperAdminClinic(nil, f.super.UserID, home.ID)
	f.super.ClinicIDs = []uuid.UUID{home.ID}
	ctx := principalCtx(f.super)

	before, _ := f.scope.FindSuperAdminClinicIDs(nil, f.super.UserID)

	created, err := f.uc.CreateClinic(ctx, &dto.CreateClinicRequest{Name: "Pop-up", Address: "z", Phone: "3"})
	if err != nil {
		t.Fatalf("CreateClinic: %v", err)
	}
	f.super.ClinicIDs, _ = f.scope.FindSuperAdminClinicIDs(nil, f.super.UserID)
	if err := f.uc.DeleteClinic(ctx, created.ID); err != nil {
		t.Fatalf("DeleteClinic: %v", err)
	}

	after, _ := f.scope.FindSuperAdminClinicIDs(nil, f.super.UserID)
	if len(after) != len(before) {
		t.Fatalf("scope after = %v, want %v", after, before)
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("scope after = %v, want %v", after, before)
		}
	}
}
