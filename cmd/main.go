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

	approveAppointmentHandler "github.com/eyamin444/RxMeet/internal/api/handlers/approve_appointment"
	cancelAppointmentHandler "github.com/eyamin444/RxMeet/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/eyamin444/RxMeet/internal/api/handlers/create_appointment"
	createDateRuleHandler "github.com/eyamin444/RxMeet/internal/api/handlers/create_date_rule"
	createWeeklyRuleHandler "github.com/eyamin444/RxMeet/internal/api/handlers/create_weekly_rule"
	deleteDateRuleHandler "github.com/eyamin444/RxMeet/internal/api/handlers/delete_date_rule"
	deleteWeeklyRuleHandler "github.com/eyamin444/RxMeet/internal/api/handlers/delete_weekly_rule"
	firstAvailableDateHandler "github.com/eyamin444/RxMeet/internal/api/handlers/first_available_date"
	getAppointmentHandler "github.com/eyamin444/RxMeet/internal/api/handlers/get_appointment"
	getAvailableBlocksHandler "github.com/eyamin444/RxMeet/internal/api/handlers/get_available_blocks"
	getAvailableSlotsHandler "github.com/eyamin444/RxMeet/internal/api/handlers/get_available_slots"
	getDateRulesHandler "github.com/eyamin444/RxMeet/internal/api/handlers/get_date_rules"
	getDoctorAppointmentsHandler "github.com/eyamin444/RxMeet/internal/api/handlers/get_doctor_appointments"
	getPatientAppointmentsHandler "github.com/eyamin444/RxMeet/internal/api/handlers/get_patient_appointments"
	getWeeklyRulesHandler "github.com/eyamin444/RxMeet/internal/api/handlers/get_weekly_rules"
	rescheduleAppointmentHandler "github.com/eyamin444/RxMeet/internal/api/handlers/reschedule_appointment"
	setWeeklyScheduleHandler "github.com/eyamin444/RxMeet/internal/api/handlers/set_weekly_schedule"
	updateDateRuleHandler "github.com/eyamin444/RxMeet/internal/api/handlers/update_date_rule"
	updateWeeklyRuleHandler "github.com/eyamin444/RxMeet/internal/api/handlers/update_weekly_rule"
	"github.com/eyamin444/RxMeet/internal/api/middleware"
	"github.com/eyamin444/RxMeet/internal/config"
	appointmentRepo "github.com/eyamin444/RxMeet/internal/infra/storage/appointment"
	dateRuleRepo "github.com/eyamin444/RxMeet/internal/infra/storage/daterule"
	weeklyRuleRepo "github.com/eyamin444/RxMeet/internal/infra/storage/weeklyrule"
	directoryClient "github.com/eyamin444/RxMeet/internal/integrations/directory"
	appointmentsService "github.com/eyamin444/RxMeet/internal/service/appointments"
	rulesService "github.com/eyamin444/RxMeet/internal/service/rules"
	scheduleService "github.com/eyamin444/RxMeet/internal/service/schedule"
	approveAppointmentUC "github.com/eyamin444/RxMeet/internal/usecase/approve_appointment"
	createAppointmentUC "github.com/eyamin444/RxMeet/internal/usecase/create_appointment"
	firstAvailableDateUC "github.com/eyamin444/RxMeet/internal/usecase/first_available_date"
	getAvailableBlocksUC "github.com/eyamin444/RxMeet/internal/usecase/get_available_blocks"
	getAvailableSlotsUC "github.com/eyamin444/RxMeet/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/eyamin444/RxMeet/internal/usecase/reschedule_appointment"
	"github.com/eyamin444/RxMeet/pkg/dbmetrics"
	"github.com/eyamin444/RxMeet/pkg/logger"
	"github.com/eyamin444/RxMeet/pkg/metrics"
	"github.com/eyamin444/RxMeet/pkg/simpletxmanager"
	"github.com/eyamin444/RxMeet/pkg/txmanager"
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

	log.Info("Starting RxMeet scheduling service...")
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

	// Инициализируем клиент справочника врачей и пациентов
	dirClient := directoryClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (DirectoryService=%s timeout=%ds)",
		cfg.DirectoryService.URL, cfg.DirectoryService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		weeklyRuleRepository  *weeklyRuleRepo.Repository
		dateRuleRepository    *dateRuleRepo.Repository
		appointmentRepository *appointmentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		weeklyRuleRepository = weeklyRuleRepo.NewRepository(wrappedDB)
		dateRuleRepository = dateRuleRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		weeklyRuleRepository = weeklyRuleRepo.NewRepository(db)
		dateRuleRepository = dateRuleRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		weeklyRuleRepository,
		dateRuleRepository,
		log,
	)
	rulesSvc := rulesService.NewService(
		weeklyRuleRepository,
		dateRuleRepository,
		dirClient,
		txMgr,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleSvc,
		dirClient,
		txMgr,
		cfg.Scheduling.StrictSerialization,
		log,
	)
	approveAppointmentUseCase := approveAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleSvc,
		txMgr,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleSvc,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleSvc,
		log,
	)
	getAvailableBlocksUseCase := getAvailableBlocksUC.NewUseCase(
		appointmentRepository,
		scheduleSvc,
		log,
	)
	firstAvailableDateUseCase := firstAvailableDateUC.NewUseCase(
		appointmentRepository,
		scheduleSvc,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	approveAppointment := approveAppointmentHandler.NewHandler(approveAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableBlocks := getAvailableBlocksHandler.NewHandler(getAvailableBlocksUseCase, log)
	firstAvailableDate := firstAvailableDateHandler.NewHandler(firstAvailableDateUseCase, log)
	createWeeklyRule := createWeeklyRuleHandler.NewHandler(rulesSvc, log)
	setWeeklySchedule := setWeeklyScheduleHandler.NewHandler(rulesSvc, log)
	getWeeklyRules := getWeeklyRulesHandler.NewHandler(rulesSvc, log)
	updateWeeklyRule := updateWeeklyRuleHandler.NewHandler(rulesSvc, log)
	deleteWeeklyRule := deleteWeeklyRuleHandler.NewHandler(rulesSvc, log)
	createDateRule := createDateRuleHandler.NewHandler(rulesSvc, log)
	getDateRules := getDateRulesHandler.NewHandler(rulesSvc, log)
	updateDateRule := updateDateRuleHandler.NewHandler(rulesSvc, log)
	deleteDateRule := deleteDateRuleHandler.NewHandler(rulesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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

	// Почасовые слоты врача на дату
	api.HandleFunc("/doctors/{doctorId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Блоки расписания врача на дату
	api.HandleFunc("/doctors/{doctorId}/available-blocks",
		getAvailableBlocks.Handle).Methods(http.MethodGet)

	// Ближайшая дата со свободным слотом
	api.HandleFunc("/doctors/{doctorId}/first-available-date",
		firstAvailableDate.Handle).Methods(http.MethodGet)

	// Еженедельное расписание врача
	api.HandleFunc("/doctors/{doctorId}/schedule/weekly",
		getWeeklyRules.Handle).Methods(http.MethodGet)

	// Правила на конкретные даты
	api.HandleFunc("/doctors/{doctorId}/schedule/dates",
		getDateRules.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Приёмы ---
	// Создание заявки на приём
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение приёма по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Решение врача по заявке (approve/reject)
	protected.HandleFunc("/appointments/{appointmentId}/decision", approveAppointment.Handle).Methods(http.MethodPatch)

	// Отмена приёма
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Перенос приёма на другое время
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// История приёмов пациента
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// Приёмы врача за период
	protected.HandleFunc("/doctors/{doctorId}/appointments", getDoctorAppointments.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (для врачей и админов) ---
	// Создание еженедельного правила
	protected.HandleFunc("/doctors/{doctorId}/schedule/weekly", createWeeklyRule.Handle).Methods(http.MethodPost)

	// Полная замена еженедельного расписания
	protected.HandleFunc("/doctors/{doctorId}/schedule/weekly", setWeeklySchedule.Handle).Methods(http.MethodPut)

	// Обновление / деактивация / удаление еженедельного правила
	protected.HandleFunc("/schedule/weekly-rules/{ruleId}", updateWeeklyRule.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/schedule/weekly-rules/{ruleId}", deleteWeeklyRule.Handle).Methods(http.MethodDelete)

	// Создание правила на дату
	protected.HandleFunc("/doctors/{doctorId}/schedule/dates", createDateRule.Handle).Methods(http.MethodPost)

	// Обновление / удаление правила на дату
	protected.HandleFunc("/schedule/date-rules/{ruleId}", updateDateRule.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/schedule/date-rules/{ruleId}", deleteDateRule.Handle).Methods(http.MethodDelete)

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
