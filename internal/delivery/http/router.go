package http

import (
	"net/http"

	"clinic-operations/internal/delivery/http/handler"
	"clinic-operations/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	clinicHandler      *handler.ClinicHandler
	patientHandler     *handler.PatientHandler
	doctorHandler      *handler.DoctorHandler
	roomHandler        *handler.RoomHandler
	bedHandler         *handler.BedHandler
	appointmentHandler *handler.AppointmentHandler
	invoiceHandler     *handler.InvoiceHandler
	ledgerHandler      *handler.LedgerHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	accessLog          *middleware.AccessLog
	gatherer           prometheus.Gatherer
}

type Handlers struct {
	Auth        *handler.AuthHandler
	Clinic      *handler.ClinicHandler
	Patient     *handler.PatientHandler
	Doctor      *handler.DoctorHandler
	Room        *handler.RoomHandler
	Bed         *handler.BedHandler
	Appointment *handler.AppointmentHandler
	Invoice     *handler.InvoiceHandler
	Ledger      *handler.LedgerHandler
	AuditLog    *handler.AuditLogHandler
}

// NewRouter builds the API router. A nil gatherer disables GET /metrics.
func NewRouter(
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	accessLog *middleware.AccessLog,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        h.Auth,
		clinicHandler:      h.Clinic,
		patientHandler:     h.Patient,
		doctorHandler:      h.Doctor,
		roomHandler:        h.Room,
		bedHandler:         h.Bed,
		appointmentHandler: h.Appointment,
		invoiceHandler:     h.Invoice,
		ledgerHandler:      h.Ledger,
		auditLogHandler:    h.AuditLog,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		accessLog:          accessLog,
		gatherer:           gatherer,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(middleware.RequestID)
	r.router.Use(r.accessLog.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	if r.gatherer != nil {
		r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Everything else requires a principal
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Auth
	protected.HandleFunc("/auth/me", r.authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Clinics
	protected.HandleFunc("/clinics", r.clinicHandler.ListClinics).Methods(http.MethodGet)
	protected.HandleFunc("/clinics/{id}", r.clinicHandler.GetClinic).Methods(http.MethodGet)
	protected.Handle("/clinics", superAdmin(r.clinicHandler.CreateClinic)).Methods(http.MethodPost)
	protected.Handle("/clinics/{id}", clinicManager(r.clinicHandler.UpdateClinic)).Methods(http.MethodPut, http.MethodPatch)
	protected.Handle("/clinics/{id}", superAdmin(r.clinicHandler.DeleteClinic)).Methods(http.MethodDelete)

	// Patients
	protected.HandleFunc("/patients", r.patientHandler.ListPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	protected.Handle("/patients", frontDesk(r.patientHandler.CreatePatient)).Methods(http.MethodPost)
	protected.Handle("/patients/{id}", frontDesk(r.patientHandler.DeletePatient)).Methods(http.MethodDelete)

	// Doctors
	protected.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	protected.Handle("/doctors", clinicManager(r.doctorHandler.CreateDoctor)).Methods(http.MethodPost)
	protected.Handle("/doctors/{id}", clinicManager(r.doctorHandler.DeleteDoctor)).Methods(http.MethodDelete)

	// Rooms
	protected.HandleFunc("/rooms", r.roomHandler.ListRooms).Methods(http.MethodGet)
	protected.HandleFunc("/rooms/{id}", r.roomHandler.GetRoom).Methods(http.MethodGet)
	protected.HandleFunc("/rooms/{id}/beds", r.bedHandler.ListRoomBeds).Methods(http.MethodGet)
	protected.Handle("/rooms", frontDesk(r.roomHandler.CreateRoom)).Methods(http.MethodPost)
	protected.Handle("/rooms/{id}", frontDesk(r.roomHandler.UpdateRoom)).Methods(http.MethodPut, http.MethodPatch)
	protected.Handle("/rooms/{id}", frontDesk(r.roomHandler.DeleteRoom)).Methods(http.MethodDelete)

	// Beds
	protected.HandleFunc("/beds", r.bedHandler.ListBeds).Methods(http.MethodGet)
	protected.HandleFunc("/beds/{id}", r.bedHandler.GetBed).Methods(http.MethodGet)
	protected.Handle("/beds", frontDesk(r.bedHandler.CreateBed)).Methods(http.MethodPost)
	protected.Handle("/beds/{id}", frontDesk(r.bedHandler.UpdateBed)).Methods(http.MethodPut)
	protected.Handle("/beds/{id}", frontDesk(r.bedHandler.DeleteBed)).Methods(http.MethodDelete)
	protected.Handle("/beds/{id}/assign", frontDesk(r.bedHandler.AssignBed)).Methods(http.MethodPatch)
	protected.Handle("/beds/{id}/discharge", frontDesk(r.bedHandler.DischargeBed)).Methods(http.MethodPatch)
	protected.Handle("/beds/{id}/reserve", frontDesk(r.bedHandler.ReserveBed)).Methods(http.MethodPatch)
	protected.Handle("/beds/{id}/release", frontDesk(r.bedHandler.ReleaseBed)).Methods(http.MethodPatch)
	protected.Handle("/beds/{id}/maintenance", frontDesk(r.bedHandler.StartMaintenance)).Methods(http.MethodPatch)
	protected.Handle("/beds/{id}/restore", frontDesk(r.bedHandler.RestoreBed)).Methods(http.MethodPatch)

	// Appointments
	protected.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.Handle("/appointments", frontDesk(r.appointmentHandler.CreateAppointment)).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}", frontDesk(r.appointmentHandler.UpdateAppointment)).Methods(http.MethodPut)
	protected.Handle("/appointments/{id}/confirm", frontDesk(r.appointmentHandler.Confirm)).Methods(http.MethodPatch)
	protected.Handle("/appointments/{id}/check-in", frontDesk(r.appointmentHandler.CheckIn)).Methods(http.MethodPatch)
	protected.Handle("/appointments/{id}/start", clinician(r.appointmentHandler.Start)).Methods(http.MethodPatch)
	protected.Handle("/appointments/{id}/complete", clinician(r.appointmentHandler.Complete)).Methods(http.MethodPatch)
	protected.Handle("/appointments/{id}/cancel", frontDesk(r.appointmentHandler.Cancel)).Methods(http.MethodPatch)
	protected.Handle("/appointments/{id}/no-show", frontDesk(r.appointmentHandler.MarkNoShow)).Methods(http.MethodPatch)
	protected.Handle("/appointments/{id}/reschedule", frontDesk(r.appointmentHandler.Reschedule)).Methods(http.MethodPatch)
	protected.Handle("/appointments/{id}/confirm-reschedule", frontDesk(r.appointmentHandler.ConfirmReschedule)).Methods(http.MethodPatch)

	// Invoices
	protected.HandleFunc("/invoices", r.invoiceHandler.ListInvoices).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}", r.invoiceHandler.GetInvoice).Methods(http.MethodGet)
	protected.Handle("/invoices", frontDesk(r.invoiceHandler.CreateInvoice)).Methods(http.MethodPost)
	protected.Handle("/invoices/{id}", frontDesk(r.invoiceHandler.UpdateInvoice)).Methods(http.MethodPut)
	protected.Handle("/invoices/{id}", frontDesk(r.invoiceHandler.DeleteInvoice)).Methods(http.MethodDelete)
	protected.Handle("/invoices/{id}/send", frontDesk(r.invoiceHandler.SendInvoice)).Methods(http.MethodPatch)
	protected.Handle("/invoices/{id}/cancel", frontDesk(r.invoiceHandler.CancelInvoice)).Methods(http.MethodPatch)
	protected.Handle("/invoices/{id}/reconcile", frontDesk(r.invoiceHandler.ReconcileInvoice)).Methods(http.MethodPatch)

	// Ledger
	protected.Handle("/payment", frontDesk(r.ledgerHandler.RecordPayment)).Methods(http.MethodPost)
	protected.HandleFunc("/transactions", r.ledgerHandler.ListTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/transactions/{id}", r.ledgerHandler.GetTransaction).Methods(http.MethodGet)
	protected.Handle("/transactions", frontDesk(r.ledgerHandler.CreateTransaction)).Methods(http.MethodPost)
	protected.Handle("/transactions/{id}", frontDesk(r.ledgerHandler.UpdateTransaction)).Methods(http.MethodPatch)

	// Audit
	protected.Handle("/audit-logs", clinicManager(r.auditLogHandler.ListAuditLogs)).Methods(http.MethodGet)

	// Preflight requests only need the CORS headers
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r.router
}

func superAdmin(fn http.HandlerFunc) http.Handler    { return middleware.RequireSuperAdmin(fn) }
func clinicManager(fn http.HandlerFunc) http.Handler { return middleware.RequireClinicManager(fn) }
func frontDesk(fn http.HandlerFunc) http.Handler     { return middleware.RequireFrontDesk(fn) }
func clinician(fn http.HandlerFunc) http.Handler     { return middleware.RequireClinician(fn) }

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
