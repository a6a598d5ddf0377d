package service

import (
	"context"
	"errors"
	"sync"

	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeTransactor struct {
	mu sync.Mutex
}

func (f *fakeTransactor) DB(ctx context.Context) *gorm.DB { return nil }

func (f *fakeTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(nil)
}

type fakeUserRepo struct {
	users       map[uuid.UUID]*entity.User
	superScopes map[uuid.UUID][]uuid.UUID
	err         error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}, superScopes: map[uuid.UUID][]uuid.UUID{}}
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindSuperAdminClinicIDs(db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	return append([]uuid.UUID{}, r.superScopes[userID]...), nil
}

func (r *fakeUserRepo) AddSuperAdminClinic(db *gorm.DB, userID, clinicID uuid.UUID) error {
	r.superScopes[userID] = append(r.superScopes[userID], clinicID)
	return nil
}

func (r *fakeUserRepo) RemoveClinicFromSuperAdmins(db *gorm.DB, clinicID uuid.UUID) error {
	for uid, ids := range r.superScopes {
		kept := ids[:0]
		for _, id := range ids {
			if id != clinicID {
				kept = append(kept, id)
			}
		}
		r.superScopes[uid] = kept
	}
	return nil
}

type fakeSequence struct {
	n    int64
	err  error
	keys []string
}

func (s *fakeSequence) Next(ctx context.Context, key string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.n++
	s.keys = append(s.keys, key)
	return s.n, nil
}

type fakeAuditRepo struct {
	logs []entity.AuditLog
	err  error
}

func (r *fakeAuditRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditRepo) List(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	return r.logs, int64(len(r.logs)), nil
}

var errBoom = errors.New("boom")
