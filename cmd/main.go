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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/bitforce-booking/internal/api/handlers/cancel_reservation"
	getClassBoardHandler "github.com/m04kA/bitforce-booking/internal/api/handlers/get_class_board"
	getCreditSummaryHandler "github.com/m04kA/bitforce-booking/internal/api/handlers/get_credit_summary"
	getMyReservationsHandler "github.com/m04kA/bitforce-booking/internal/api/handlers/get_my_reservations"
	reserveSlotHandler "github.com/m04kA/bitforce-booking/internal/api/handlers/reserve_slot"
	"github.com/m04kA/bitforce-booking/internal/api/middleware"
	"github.com/m04kA/bitforce-booking/internal/availability"
	"github.com/m04kA/bitforce-booking/internal/config"
	gymRepo "github.com/m04kA/bitforce-booking/internal/infra/storage/gym"
	"github.com/m04kA/bitforce-booking/internal/integrations/gymapi"
	cancelReservationUC "github.com/m04kA/bitforce-booking/internal/usecase/cancel_reservation"
	getClassBoardUC "github.com/m04kA/bitforce-booking/internal/usecase/get_class_board"
	getCreditSummaryUC "github.com/m04kA/bitforce-booking/internal/usecase/get_credit_summary"
	getMyReservationsUC "github.com/m04kA/bitforce-booking/internal/usecase/get_my_reservations"
	reserveSlotUC "github.com/m04kA/bitforce-booking/internal/usecase/reserve_slot"
	"github.com/m04kA/bitforce-booking/pkg/logger"
	"github.com/m04kA/bitforce-booking/pkg/metrics"
	"github.com/m04kA/bitforce-booking/pkg/tracing"
)

// gateway полный набор операций источника данных (REST бэкенд или БД)
type gateway interface {
	availability.Gateway
	reserveSlotUC.ReservationGateway
	cancelReservationUC.ReservationGateway
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

	log.Info("Starting bitforce-booking...")
	log.Info("Configuration loaded from config.toml (gateway=%s)", cfg.Gateway.Kind)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Трассировка (no-op, если выключена)
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}

	// Инициализируем метрики (если включены); методы nil-safe
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone: %v", err)
	}

	// Источник данных
	var gw gateway
	switch cfg.Gateway.Kind {
	case config.GatewayPostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		gw = gymRepo.NewRepository(db, metricsCollector, log)

	default:
		gw = gymapi.NewClient(
			cfg.Gateway.URL,
			time.Duration(cfg.Gateway.Timeout)*time.Second,
			location,
			metricsCollector,
			log,
		)
		log.Info("Gym API client initialized (url=%s, timeout=%ds)", cfg.Gateway.URL, cfg.Gateway.Timeout)
	}

	// Доски доступности: по одной на сессию, каждая со своим таймером
	registry := availability.NewRegistry(
		gw,
		location,
		cfg.Booking.RefreshEvery(),
		cfg.Booking.IdleTTL(),
		metricsCollector,
		log,
	)
	go registry.Run(ctx)
	log.Info("Availability registry started (refresh=%s, idle_ttl=%s, tz=%s)",
		cfg.Booking.RefreshEvery(), cfg.Booking.IdleTTL(), location)

	// Инициализируем use cases
	getClassBoardUseCase := getClassBoardUC.NewUseCase(registry, log)
	reserveSlotUseCase := reserveSlotUC.NewUseCase(registry, gw, metricsCollector, log)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(registry, gw, metricsCollector, log)
	getMyReservationsUseCase := getMyReservationsUC.NewUseCase(registry, log)
	getCreditSummaryUseCase := getCreditSummaryUC.NewUseCase(registry, log)

	// Инициализируем handlers
	getClassBoard := getClassBoardHandler.NewHandler(getClassBoardUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	getMyReservations := getMyReservationsHandler.NewHandler(getMyReservationsUseCase, log)
	getCreditSummary := getCreditSummaryHandler.NewHandler(getCreditSummaryUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix; все маршруты требуют сессию (Authorization: Bearer и/или X-User-ID)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Классы ---
	api.HandleFunc("/classes", getClassBoard.Handle).Methods(http.MethodGet)
	api.HandleFunc("/classes/{slotId}/reservations", reserveSlot.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	api.HandleFunc("/reservations", getMyReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}", cancelReservation.Handle).Methods(http.MethodDelete)

	// --- Кредиты ---
	api.HandleFunc("/credits", getCreditSummary.Handle).Methods(http.MethodGet)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем таймеры досок
	stop()
	registry.Close()

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracing: %v", err)
	}

	log.Info("Server exited")
}
