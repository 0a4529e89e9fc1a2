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

	approveBookingHandler "github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers/check_availability"
	getBookingHandler "github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers/get_booking"
	getEquipmentBookingsHandler "github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers/get_equipment_bookings"
	getUserBookingsHandler "github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers/get_user_bookings"
	rejectBookingHandler "github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers/reject_booking"
	requestBookingHandler "github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers/request_booking"
	"github.com/m04kA/LRM-SchedulingEngine/internal/api/middleware"
	"github.com/m04kA/LRM-SchedulingEngine/internal/config"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/availability"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/recurrence"
	"github.com/m04kA/LRM-SchedulingEngine/internal/events"
	bookingRepo "github.com/m04kA/LRM-SchedulingEngine/internal/infra/storage/booking"
	equipmentServiceClient "github.com/m04kA/LRM-SchedulingEngine/internal/integrations/equipmentservice"
	bookingsService "github.com/m04kA/LRM-SchedulingEngine/internal/service/bookings"
	"github.com/m04kA/LRM-SchedulingEngine/internal/service/completion"
	checkAvailabilityUC "github.com/m04kA/LRM-SchedulingEngine/internal/usecase/check_availability"
	requestBookingUC "github.com/m04kA/LRM-SchedulingEngine/internal/usecase/request_booking"
	"github.com/m04kA/LRM-SchedulingEngine/migrations"
	"github.com/m04kA/LRM-SchedulingEngine/pkg/dbmetrics"
	"github.com/m04kA/LRM-SchedulingEngine/pkg/logger"
	"github.com/m04kA/LRM-SchedulingEngine/pkg/metrics"
	"github.com/m04kA/LRM-SchedulingEngine/pkg/migrator"
	"github.com/m04kA/LRM-SchedulingEngine/pkg/txmanager"
)

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

	log.Info("Starting LRM-SchedulingEngine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции схемы
	mig, err := migrator.New(db, migrations.FS, migrations.Dir)
	if err != nil {
		log.Fatal("Failed to initialize migrator: %v", err)
	}
	if err := mig.Run(context.Background()); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}
	version, _ := mig.Version(context.Background())
	log.Info("Database schema is up to date (version=%d)", version)

	// Инициализируем клиента каталога оборудования
	equipmentClient := equipmentServiceClient.NewClient(
		cfg.EquipmentService.URL,
		time.Duration(cfg.EquipmentService.Timeout)*time.Second,
		log,
	)
	log.Info("Equipment service client initialized (url=%s, timeout=%ds)",
		cfg.EquipmentService.URL, cfg.EquipmentService.Timeout)

	// Инициализируем репозиторий и transaction manager (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		txMgr             *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = txmanager.NewTransactionManager(db)
	}

	// Пересобираем индекс занятости из персистентного состояния
	index := availability.NewIndex()
	held, err := bookingRepository.ListHeld(context.Background())
	if err != nil {
		log.Fatal("Failed to load held bookings: %v", err)
	}
	index.Rebuild(held)
	log.Info("Availability index rebuilt from %d held booking(s)", len(held))

	// Шина событий жизненного цикла; пока единственный подписчик - лог
	bus := events.NewBus(log)
	defer bus.Close()
	bus.Subscribe(func(e events.Event) {
		log.Info("Event: type=%s, booking_id=%d, equipment_id=%d, status=%s",
			e.Type, e.BookingID, e.EquipmentID, e.NewStatus)
	})

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		equipmentClient,
		index,
		bus,
		log,
	)

	// Инициализируем use cases
	expander := recurrence.NewExpander(cfg.Engine.RecurrenceHorizonDays, cfg.Engine.MaxOccurrences)
	limits := requestBookingUC.Limits{
		MinDuration: time.Duration(cfg.Engine.MinBookingMinutes) * time.Minute,
		MaxDuration: time.Duration(cfg.Engine.MaxBookingHours) * time.Hour,
	}

	requestBookingUseCase := requestBookingUC.NewUseCase(
		bookingRepository,
		equipmentClient,
		index,
		expander,
		txMgr,
		bus,
		limits,
		log,
	)

	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(index, log)

	// Фоновая задача завершения просроченных бронирований
	sweeper := completion.NewSweeper(
		bookingRepository,
		bookingSvc,
		time.Duration(cfg.Engine.SweepIntervalSeconds)*time.Second,
		log,
	)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	// Инициализируем handlers
	requestBooking := requestBookingHandler.NewHandler(requestBookingUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getEquipmentBookings := getEquipmentBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка доступности интервала
	api.HandleFunc("/equipment/{equipmentId}/availability",
		checkAvailability.Handle).Methods(http.MethodGet)

	// Расписание оборудования для календаря
	api.HandleFunc("/equipment/{equipmentId}/bookings",
		getEquipmentBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание бронирования (одиночного или повторяющегося)
	protected.HandleFunc("/bookings", requestBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Переходы машины состояний
	protected.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
