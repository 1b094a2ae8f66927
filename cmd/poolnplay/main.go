// Точка входа Pool N Play — сайт бассейновой компании и панель управления.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт сервисный слой и обработчики, запускает topologymetrics
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	apihandlers "github.com/love4code/poolnplay/internal/api/handlers"
	"github.com/love4code/poolnplay/internal/config"
	"github.com/love4code/poolnplay/internal/database"
	"github.com/love4code/poolnplay/internal/mail"
	"github.com/love4code/poolnplay/internal/repository"
	"github.com/love4code/poolnplay/internal/server"
	"github.com/love4code/poolnplay/internal/service"
	"github.com/love4code/poolnplay/internal/ui/auth"
	uihandlers "github.com/love4code/poolnplay/internal/ui/handlers"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	uimiddleware "github.com/love4code/poolnplay/internal/ui/middleware"
)

func main() {
	// 0. .env (если есть) — переменные окружения имеют приоритет
	envErr := godotenv.Load()

	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Pool N Play запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("env", cfg.Env),
	)
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("Ошибка чтения .env", slog.String("error", envErr.Error()))
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		if cfg.DBRequired {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Warn("Миграции не применены, запуск в деградированном режиме",
			slog.String("error", err.Error()),
		)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Repositories (каждый запрос ограничен PP_STORE_TIMEOUT)
	db := repository.WithTimeout(pool, cfg.StoreTimeout)
	mediaRepo := repository.NewMediaRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	productRepo := repository.NewProductRepository(db)
	txRunner := repository.NewTxRunner(pool, cfg.StoreTimeout)

	// 6. Отправка уведомлений
	var sender mail.Sender
	if cfg.SMTPConfigured() {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			Timeout:  cfg.SMTPTimeout,
		}, logger)
		logger.Info("SMTP настроен", slog.String("host", cfg.SMTPHost), slog.Int("port", cfg.SMTPPort))
	} else {
		sender = mail.NewNoopSender(logger)
		logger.Warn("SMTP не настроен, уведомления о заявках только в логе")
	}

	// 7. Services
	limits := service.UploadLimits{MaxFiles: cfg.UploadMaxFiles, MaxBytes: cfg.UploadMaxBytes}
	settingsSvc := service.NewSettingsService(settingsRepo, cfg.SettingsCacheTTL, logger)
	mediaSvc := service.NewMediaService(mediaRepo, txRunner, limits, logger)
	catalogSvc := service.NewCatalogService(serviceRepo, projectRepo, productRepo, mediaSvc, logger)
	inquirySvc := service.NewInquiryService(inquiryRepo, productRepo, sender,
		service.InquiryMailConfig{From: cfg.SMTPFrom, To: cfg.EmailTo}, logger)
	dashboardSvc := service.NewDashboardService(inquiryRepo, serviceRepo, projectRepo, productRepo, mediaRepo)

	// 8. topologymetrics — мониторинг зависимостей (PostgreSQL)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		apihandlers.ServiceName,
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 9. i18n
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Аутентификация панели управления
	credentials, err := auth.NewCredentials(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		logger.Error("Ошибка учётных данных администратора", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, cfg.IsProduction(), cfg.SessionTTL)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("PP_SESSION_SECRET не задан, сессии не сохраняются между рестартами")
	}

	// 11. Handlers
	handlers := server.Handlers{
		Health:    apihandlers.NewHealthHandler(database.NewReadinessChecker(pool)),
		Inquiry:   apihandlers.NewInquiryHandler(inquirySvc, logger),
		Public:    uihandlers.NewPublicHandler(settingsSvc, catalogSvc, mediaSvc, logger),
		Auth:      uihandlers.NewAuthHandler(settingsSvc, credentials, sessionMgr, logger),
		AuthMW:    uimiddleware.NewUIAuth(sessionMgr, logger),
		Dashboard: uihandlers.NewDashboardHandler(settingsSvc, dashboardSvc, logger),
		Media:     uihandlers.NewMediaHandler(settingsSvc, mediaSvc, limits, logger),
		Catalog:   uihandlers.NewCatalogHandler(settingsSvc, catalogSvc, mediaSvc, logger),
		Settings:  uihandlers.NewSettingsHandler(settingsSvc, mediaSvc, logger),
		Inquiries: uihandlers.NewInquiriesHandler(settingsSvc, inquirySvc, logger),
	}

	// 12. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, handlers)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 13. Остановка фоновых задач
	if dephealthErr == nil {
		dephealthSvc.Stop()
	}

	logger.Info("Pool N Play остановлен")
}
