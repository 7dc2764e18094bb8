package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/get_available_slots"
	getBarbershopConfigHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/get_barbershop_config"
	listAppointmentsHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/list_appointments"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/update_appointment_status"
	updateBarbershopConfigHandler "github.com/m04kA/SMC-BarberBookingService/internal/api/handlers/update_barbershop_config"
	"github.com/m04kA/SMC-BarberBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBookingService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/appointment"
	barbershopRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/barbershop"
	catalogRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/memory"
	appointmentsService "github.com/m04kA/SMC-BarberBookingService/internal/service/appointments"
	barbershopService "github.com/m04kA/SMC-BarberBookingService/internal/service/barbershop"
	createAppointmentUC "github.com/m04kA/SMC-BarberBookingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BarberBookingService/migrations"
	"github.com/m04kA/SMC-BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBookingService/pkg/logger"
	"github.com/m04kA/SMC-BarberBookingService/pkg/metrics"
	"github.com/m04kA/SMC-BarberBookingService/pkg/slotlock"
	"github.com/m04kA/SMC-BarberBookingService/pkg/txmanager"
)

// appointmentStore объединяет методы, нужные use case и сервису записей
type appointmentStore interface {
	createAppointmentUC.AppointmentRepository
	appointmentsService.AppointmentRepository
}

// storage репозитории выбранного драйвера
type storage struct {
	barbershops  barbershopService.BarbershopRepository
	catalog      createAppointmentUC.CatalogRepository
	appointments appointmentStore
	txManager    createAppointmentUC.TransactionManager
	close        func()
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BarberBookingService...")

	// Метрики (nil, если выключены: методы *metrics.Metrics безопасны для nil)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}
	stopMetricsCh := make(chan struct{})

	// Хранилище
	var store *storage
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store, err = openMemory(cfg.Storage)
	default:
		store, err = openPostgres(cfg.Database, metricsCollector, stopMetricsCh, log)
	}
	if err != nil {
		log.Fatal("Failed to initialize %s storage: %v", cfg.Storage.Driver, err)
	}
	defer store.close()
	log.Info("Storage initialized (driver=%s)", cfg.Storage.Driver)

	// Блокировка слотов
	locker, closeLocker, err := newSlotLocker(cfg.Locking)
	if err != nil {
		log.Fatal("Failed to initialize slot locking: %v", err)
	}
	defer closeLocker()
	log.Info("Slot locking initialized (driver=%s, timeout=%s)", cfg.Locking.Driver, cfg.Locking.Timeout())

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		store.appointments,
		store.barbershops,
		store.txManager,
		locker,
		metricsCollector,
		log,
	)
	barbershopSvc := barbershopService.NewService(
		store.barbershops,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		store.barbershops,
		store.catalog,
		store.appointments,
		store.txManager,
		locker,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.barbershops,
		store.catalog,
		store.appointments,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getBarbershopConfig := getBarbershopConfigHandler.NewHandler(barbershopSvc, log)
	updateBarbershopConfig := updateBarbershopConfigHandler.NewHandler(barbershopSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1/barbershops/{contribuinte}").Subrouter()
	api.Use(middleware.Auth)

	// Публичные маршруты
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/config", getBarbershopConfig.Handle).Methods(http.MethodGet)

	// Требуют X-User-ID
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{id}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/config", updateBarbershopConfig.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// openPostgres подключается к БД, применяет миграции и собирает репозитории поверх dbmetrics
func openPostgres(cfg config.DatabaseConfig, recorder *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)

	if cfg.MigrateOnStart {
		if err := migrations.Up(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		version, err := migrations.Version(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Database schema at version %d", version)
	}

	var wrapped *dbmetrics.DB
	if recorder != nil {
		wrapped = dbmetrics.WrapWithDefault(db, recorder, stopCh)
		log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db, nil)
	}

	return &storage{
		barbershops:  barbershopRepo.NewRepository(wrapped),
		catalog:      catalogRepo.NewRepository(wrapped),
		appointments: appointmentRepo.NewRepository(wrapped),
		txManager:    txmanager.NewTransactionManager(wrapped),
		close:        func() { db.Close() },
	}, nil
}

// openMemory хранилище в памяти для одного экземпляра; данные загружаются из seed-файла
func openMemory(cfg config.StorageConfig) (*storage, error) {
	store := memory.NewStore()
	if cfg.SeedFile != "" {
		if err := store.LoadSeedFile(cfg.SeedFile); err != nil {
			return nil, err
		}
	}

	return &storage{
		barbershops:  store,
		catalog:      store,
		appointments: store,
		txManager:    memory.TxManager{},
		close:        func() {},
	}, nil
}

// newSlotLocker блокировка слотов: в процессе или через redis для нескольких экземпляров
func newSlotLocker(cfg config.LockingConfig) (createAppointmentUC.SlotLocker, func(), error) {
	if cfg.Driver != config.LockDriverRedis {
		return slotlock.NewLocal(cfg.Timeout()), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}

	return slotlock.NewRedis(client, cfg.TTL(), cfg.Timeout()), func() { client.Close() }, nil
}
