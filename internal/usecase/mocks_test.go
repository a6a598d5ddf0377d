package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"

	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func principalCtx(p *entity.Principal) context.Context {
	return middleware.WithPrincipal(context.Background(), p)
}

func staffOf(clinicID uuid.UUID) *entity.Principal {
	return &entity.Principal{UserID: uuid.New(), Email: "staff@clinic.test", Role: entity.RoleStaff, ClinicID: clinicID}
}

// fakeTransactor runs transactions one at a time, like row locks on a
// single hot row would.
type fakeTransactor struct {
	mu sync.Mutex
}

func (f *fakeTransactor) DB(ctx context.Context) *gorm.DB { return nil }

func (f *fakeTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(nil)
}

type fakeCodes struct {
	mu sync.Mutex
	n  int
}

func (c *fakeCodes) Generate(ctx context.Context, prefix string, exists service.CodeExistsFunc) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return fmt.Sprintf("%s-20260101-%06d", prefix, c.n), nil
}

type auditEntry struct {
	action, entity, from, to string
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *fakeAudit) record(e auditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *fakeAudit) LogCreate(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	a.record(auditEntry{action: action, entity: entityName})
	return nil
}

func (a *fakeAudit) LogTransition(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID, from, to string) error {
	a.record(auditEntry{action: action, entity: entityName, from: from, to: to})
	return nil
}

func (a *fakeAudit) LogDelete(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	a.record(auditEntry{action: action, entity: entityName})
	return nil
}

func (a *fakeAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.action
	}
	return out
}

// Rooms

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]entity.Room
	beds  *fakeBedRepo
}

func newFakeRoomRepo(beds *fakeBedRepo) *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[uuid.UUID]entity.Room{}, beds: beds}
}

func (r *fakeRoomRepo) put(room entity.Room) *entity.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	r.rooms[room.ID] = room
	return &room
}

func (r *fakeRoomRepo) Create(db *gorm.DB, room *entity.Room) error {
	stored := r.put(*room)
	room.ID = stored.ID
	return nil
}

func (r *fakeRoomRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (r *fakeRoomRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Room, error) {
	return r.FindByID(db, id)
}

func (r *fakeRoomRepo) FindByNumber(db *gorm.DB, clinicID uuid.UUID, roomNumber string) (*entity.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.ClinicID == clinicID && room.RoomNumber == roomNumber {
			cp := room
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRoomRepo) CodeExists(db *gorm.DB, code string) (bool, error) { return false, nil }

func (r *fakeRoomRepo) List(db *gorm.DB, filter entity.RoomFilter) ([]entity.Room, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Room
	for _, room := range r.rooms {
		if containsID(filter.ClinicIDs, room.ClinicID) && (filter.RoomType == "" || room.RoomType == filter.RoomType) {
			out = append(out, room)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRoomRepo) Update(db *gorm.DB, room *entity.Room) error {
	r.put(*room)
	return nil
}

func (r *fakeRoomRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
	return nil
}

func (r *fakeRoomRepo) Occupancy(db *gorm.DB, roomIDs []uuid.UUID) (map[uuid.UUID]entity.Occupancy, error) {
	out := map[uuid.UUID]entity.Occupancy{}
	if r.beds == nil {
		return out, nil
	}
	r.beds.mu.Lock()
	defer r.beds.mu.Unlock()
	for _, b := range r.beds.beds {
		if containsID(roomIDs, b.RoomID) {
			o := out[b.RoomID]
			o.Add(b.Status, 1)
			out[b.RoomID] = o
		}
	}
	return out, nil
}

// Beds

type fakeBedRepo struct {
	mu   sync.Mutex
	beds map[uuid.UUID]entity.Bed
}

func newFakeBedRepo() *fakeBedRepo {
	return &fakeBedRepo{beds: map[uuid.UUID]entity.Bed{}}
}

func (r *fakeBedRepo) put(b entity.Bed) *entity.Bed {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.Room, b.Patient = nil, nil
	r.beds[b.ID] = b
	return &b
}

func (r *fakeBedRepo) Create(db *gorm.DB, bed *entity.Bed) error {
	bed.ID = r.put(*bed).ID
	return nil
}

func (r *fakeBedRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.beds[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBedRepo) FindByNumber(db *gorm.DB, roomID uuid.UUID, bedNumber string) (*entity.Bed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.beds {
		if b.RoomID == roomID && b.BedNumber == bedNumber {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBedRepo) FindOccupiedByPatient(db *gorm.DB, patientID uuid.UUID) (*entity.Bed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.beds {
		if b.Status == entity.BedStatusOccupied && b.PatientID != nil && *b.PatientID == patientID {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBedRepo) CodeExists(db *gorm.DB, code string) (bool, error) { return false, nil }

func (r *fakeBedRepo) CountByRoom(db *gorm.DB, roomID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.beds {
		if b.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBedRepo) List(db *gorm.DB, filter entity.BedFilter) ([]entity.Bed, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Bed
	for _, b := range r.beds {
		if !containsID(filter.ClinicIDs, b.ClinicID) {
			continue
		}
		if filter.RoomID != nil && b.RoomID != *filter.RoomID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBedRepo) ApplyTransition(db *gorm.DB, bed *entity.Bed, from entity.BedStatus) (int64, error) {
	r.mu.Lock()
	stored, ok := r.beds[bed.ID]
	r.mu.Unlock()
	if !ok || stored.Status != from {
		return 0, nil
	}
	r.put(*bed)
	return 1, nil
}

func (r *fakeBedRepo) UpdateDetails(db *gorm.DB, bed *entity.Bed) error {
	r.put(*bed)
	return nil
}

func (r *fakeBedRepo) Delete(db *gorm.DB, id uuid.UUID, status entity.BedStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.beds[id]
	if !ok || stored.Status != status {
		return 0, nil
	}
	delete(r.beds, id)
	return 1, nil
}

// Patients and doctors

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]entity.Patient
	deps     map[uuid.UUID]entity.PatientDependents
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{
		patients: map[uuid.UUID]entity.Patient{},
		deps:     map[uuid.UUID]entity.PatientDependents{},
	}
}

func (r *fakePatientRepo) add(clinicID uuid.UUID, name string) *entity.Patient {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := entity.Patient{ID: uuid.New(), ClinicID: clinicID, FullName: name, PatientCode: "PAT-" + name}
	r.patients[p.ID] = p
	return &p
}

func (r *fakePatientRepo) Create(db *gorm.DB, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	r.patients[patient.ID] = *patient
	return nil
}

func (r *fakePatientRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePatientRepo) CodeExists(db *gorm.DB, code string) (bool, error) { return false, nil }

func (r *fakePatientRepo) List(db *gorm.DB, filter entity.PatientFilter) ([]entity.Patient, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Patient
	for _, p := range r.patients {
		if containsID(filter.ClinicIDs, p.ClinicID) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePatientRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.patients, id)
	return nil
}

func (r *fakePatientRepo) CountDependents(db *gorm.DB, id uuid.UUID) (entity.PatientDependents, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deps[id], nil
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]entity.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: map[uuid.UUID]entity.Doctor{}}
}

func (r *fakeDoctorRepo) add(clinicID uuid.UUID, name string) *entity.Doctor {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := entity.Doctor{ID: uuid.New(), ClinicID: clinicID, FullName: name}
	r.doctors[d.ID] = d
	return &d
}

func (r *fakeDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *fakeDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeDoctorRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	return r.FindByID(db, id)
}

func (r *fakeDoctorRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.UserID != nil && *d.UserID == userID {
			cp := d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) List(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Doctor
	for _, d := range r.doctors {
		if containsID(filter.ClinicIDs, d.ClinicID) {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDoctorRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.doctors, id)
	return nil
}

// Appointments

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]entity.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[uuid.UUID]entity.Appointment{}}
}

func (r *fakeAppointmentRepo) put(a entity.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.Patient, a.Doctor = nil, nil
	r.appointments[a.ID] = a
}

func (r *fakeAppointmentRepo) Create(db *gorm.DB, a *entity.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.put(*a)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAppointmentRepo) CodeExists(db *gorm.DB, code string) (bool, error) { return false, nil }

func (r *fakeAppointmentRepo) List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if containsID(filter.ClinicIDs, a.ClinicID) {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppointmentRepo) FindOverlapping(db *gorm.DB, doctorID uuid.UUID, w entity.TimeWindow, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.DoctorID != doctorID || (excludeID != nil && a.ID == *excludeID) {
			continue
		}
		if a.Status.HoldsSlot() && a.Window().Overlaps(w) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ApplyTransition(db *gorm.DB, a *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	r.mu.Lock()
	stored, ok := r.appointments[a.ID]
	r.mu.Unlock()
	if !ok || stored.Status != from {
		return 0, nil
	}
	r.put(*a)
	return 1, nil
}

func (r *fakeAppointmentRepo) UpdateDetails(db *gorm.DB, a *entity.Appointment) error {
	r.put(*a)
	return nil
}

func (r *fakeAppointmentRepo) CountByDoctor(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			n++
		}
	}
	return n, nil
}

// Billing

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[uuid.UUID]entity.Invoice{}}
}

func (r *fakeInvoiceRepo) Create(db *gorm.DB, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New()
		inv.Items[i].InvoiceID = inv.ID
	}
	stored := *inv
	stored.Patient = nil
	r.invoices[inv.ID] = stored
	return nil
}

func (r *fakeInvoiceRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *fakeInvoiceRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	return r.FindByID(db, id)
}

func (r *fakeInvoiceRepo) CodeExists(db *gorm.DB, code string) (bool, error) { return false, nil }

func (r *fakeInvoiceRepo) List(db *gorm.DB, filter entity.InvoiceFilter) ([]entity.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range r.invoices {
		if containsID(filter.ClinicIDs, inv.ClinicID) {
			out = append(out, inv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) SetStatus(db *gorm.DB, id uuid.UUID, status entity.InvoiceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv := r.invoices[id]
	inv.Status = status
	r.invoices[id] = inv
	return nil
}

func (r *fakeInvoiceRepo) UpdateDetails(db *gorm.DB, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.invoices[inv.ID]
	stored.DueDate = inv.DueDate
	stored.Notes = inv.Notes
	r.invoices[inv.ID] = stored
	return nil
}

func (r *fakeInvoiceRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

type fakeTransactionRepo struct {
	mu  sync.Mutex
	txs []entity.Transaction
}

func (r *fakeTransactionRepo) Create(db *gorm.DB, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	r.txs = append(r.txs, *txn)
	return nil
}

func (r *fakeTransactionRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txs {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) CodeExists(db *gorm.DB, code string) (bool, error) { return false, nil }

func (r *fakeTransactionRepo) List(db *gorm.DB, filter entity.TransactionFilter) ([]entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Transaction
	for _, t := range r.txs {
		if containsID(filter.ClinicIDs, t.ClinicID) {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTransactionRepo) SumPaidIncome(db *gorm.DB, invoiceID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, t := range r.txs {
		if t.InvoiceID != nil && *t.InvoiceID == invoiceID && t.CountsAsPaid() {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (r *fakeTransactionRepo) SumPaidIncomeByInvoices(db *gorm.DB, invoiceIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := map[uuid.UUID]decimal.Decimal{}
	for _, id := range invoiceIDs {
		sum, _ := r.SumPaidIncome(db, id)
		out[id] = sum
	}
	return out, nil
}

func (r *fakeTransactionRepo) CountByInvoice(db *gorm.DB, invoiceID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.txs {
		if t.InvoiceID != nil && *t.InvoiceID == invoiceID {
			n++
		}
	}
	return n, nil
}

func (r *fakeTransactionRepo) UpdateDescriptive(db *gorm.DB, id uuid.UUID, description *string, receiptURL *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.txs {
		if r.txs[i].ID == id {
			if description != nil {
				r.txs[i].Description = *description
			}
			if receiptURL != nil {
				r.txs[i].ReceiptURL = receiptURL
			}
		}
	}
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
