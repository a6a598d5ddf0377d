package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-operations/config"
	deliveryHttp "clinic-operations/internal/delivery/http"
	"clinic-operations/internal/delivery/http/handler"
	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/infrastructure/cache"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/repository"
	"clinic-operations/internal/service"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/jwt"
	"clinic-operations/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Usecases    *Usecases
	Server      *http.Server
}

// Usecases is the wired application layer, shared by the HTTP server and
// the operator commands.
type Usecases struct {
	Auth        usecase.AuthUsecase
	Clinic      usecase.ClinicUsecase
	Patient     usecase.PatientUsecase
	Doctor      usecase.DoctorUsecase
	Room        usecase.RoomUsecase
	Bed         usecase.BedUsecase
	Appointment usecase.AppointmentUsecase
	Invoice     usecase.InvoiceUsecase
	Ledger      usecase.LedgerUsecase
	AuditLog    usecase.AuditLogUsecase

	jwtService *jwt.JWTService
	tokens     cache.TokenRegistry
	resolver   service.PrincipalResolver
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	log := setupLogger(cfg.Log.Level)
	app := &App{Config: cfg, Log: log}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		gatherer = reg
	} else {
		m = metrics.NewNop()
	}

	app.Usecases = newUsecases(cfg, log, db, redisClient, m)
	app.Server = initializeServer(cfg, log, app.Usecases, m, gatherer)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func newUsecases(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client, m *metrics.Metrics) *Usecases {
	tx := database.NewTransactor(db)
	jwtService := jwt.NewJWTService(cfg.JWT)
	tokens := cache.NewTokenRegistry(redisClient)
	guard := service.NewTenantGuard()
	codes := service.NewCodeGenerator(cache.NewSequence(redisClient), log)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	clinicRepo := repository.NewClinicRepository()
	patientRepo := repository.NewPatientRepository()
	doctorRepo := repository.NewDoctorRepository()
	roomRepo := repository.NewRoomRepository()
	bedRepo := repository.NewBedRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	invoiceRepo := repository.NewInvoiceRepository()
	transactionRepo := repository.NewTransactionRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	auditService := service.NewAuditService(log, auditLogRepo)

	return &Usecases{
		Auth:        usecase.NewAuthUsecase(tx, log, guard, userRepo, clinicRepo, jwtService, tokens),
		Clinic:      usecase.NewClinicUsecase(tx, log, guard, clinicRepo, userRepo, auditService),
		Patient:     usecase.NewPatientUsecase(tx, log, guard, codes, patientRepo),
		Doctor:      usecase.NewDoctorUsecase(tx, log, guard, doctorRepo, userRepo, appointmentRepo),
		Room:        usecase.NewRoomUsecase(tx, log, guard, codes, roomRepo, bedRepo),
		Bed:         usecase.NewBedUsecase(tx, log, guard, codes, bedRepo, roomRepo, patientRepo, auditService, m),
		Appointment: usecase.NewAppointmentUsecase(tx, log, guard, codes, appointmentRepo, patientRepo, doctorRepo, auditService, m),
		Invoice:     usecase.NewInvoiceUsecase(tx, log, guard, codes, invoiceRepo, transactionRepo, patientRepo, appointmentRepo, auditService),
		Ledger:      usecase.NewLedgerUsecase(tx, log, guard, codes, transactionRepo, invoiceRepo, auditService, m),
		AuditLog:    usecase.NewAuditLogUsecase(tx, log, guard, auditLogRepo),

		jwtService: jwtService,
		tokens:     tokens,
		resolver:   service.NewPrincipalResolver(tx, log, userRepo),
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, uc *Usecases, m *metrics.Metrics, gatherer prometheus.Gatherer) *http.Server {
	customValidator := validator.NewValidator()

	handlers := deliveryHttp.Handlers{
		Auth:        handler.NewAuthHandler(uc.Auth),
		Clinic:      handler.NewClinicHandler(uc.Clinic, customValidator),
		Patient:     handler.NewPatientHandler(uc.Patient, customValidator),
		Doctor:      handler.NewDoctorHandler(uc.Doctor, customValidator),
		Room:        handler.NewRoomHandler(uc.Room, customValidator),
		Bed:         handler.NewBedHandler(uc.Bed, customValidator),
		Appointment: handler.NewAppointmentHandler(uc.Appointment, customValidator),
		Invoice:     handler.NewInvoiceHandler(uc.Invoice, customValidator),
		Ledger:      handler.NewLedgerHandler(uc.Ledger, customValidator),
		AuditLog:    handler.NewAuditLogHandler(uc.AuditLog),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(uc.jwtService, uc.tokens, uc.resolver, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins)
	accessLog := middleware.NewAccessLog(log, m)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, accessLog, gatherer)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()
	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
