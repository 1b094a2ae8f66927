// Пакет server — HTTP-сервер сайта и панели управления с graceful shutdown.
// Без TLS — TLS termination на reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	apihandlers "github.com/love4code/poolnplay/internal/api/handlers"
	"github.com/love4code/poolnplay/internal/api/middleware"
	"github.com/love4code/poolnplay/internal/config"
	uihandlers "github.com/love4code/poolnplay/internal/ui/handlers"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	uimiddleware "github.com/love4code/poolnplay/internal/ui/middleware"
	"github.com/love4code/poolnplay/internal/ui/static"
)

// Handlers — обработчики, которые сервер раскладывает по маршрутам.
type Handlers struct {
	Health    *apihandlers.HealthHandler
	Inquiry   *apihandlers.InquiryHandler
	Public    *uihandlers.PublicHandler
	Auth      *uihandlers.AuthHandler
	AuthMW    *uimiddleware.UIAuth
	Dashboard *uihandlers.DashboardHandler
	Media     *uihandlers.MediaHandler
	Catalog   *uihandlers.CatalogHandler
	Settings  *uihandlers.SettingsHandler
	Inquiries *uihandlers.InquiriesHandler
}

// Server — HTTP-сервер Pool N Play.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(cfg, logger, h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает маршруты.
func NewRouter(cfg *config.Config, logger *slog.Logger, h Handlers) chi.Router {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(i18n.Middleware())

	// Служебные маршруты
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	// Публичный сайт
	router.Get("/", h.Public.HandleHome)
	router.Get("/about", h.Public.HandleAbout)
	router.Get("/contact", h.Public.HandleContact)
	router.Get("/products", h.Public.HandleProducts)
	router.Get("/products/{id}", h.Public.HandleProduct)
	router.Get("/portfolio", h.Public.HandlePortfolio)
	router.Post("/set-language", uihandlers.HandleSetLanguage)

	// Приём заявок доступен и с других доменов (лендинги)
	router.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		r.Post("/inquiry", h.Inquiry.Submit)
		r.Options("/inquiry", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	// Панель управления
	router.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMW.RedirectIfAuth())
			r.Get("/login", h.Auth.HandleLoginPage)
			r.Post("/login", h.Auth.HandleLogin)
		})
		r.Get("/logout", h.Auth.HandleLogout)
		r.Post("/logout", h.Auth.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMW.RequireAuth())

			r.Get("/", h.Dashboard.HandleDashboard)

			r.Get("/media", h.Media.HandleMediaPage)
			r.Post("/media/upload", h.Media.HandleUpload)
			r.Delete("/media/{id}", h.Media.HandleDelete)
			r.Post("/media/{id}/alt", h.Media.HandleUpdateAlt)
			r.Put("/media/{id}/alt", h.Media.HandleUpdateAlt)

			r.Route("/services", func(r chi.Router) {
				r.Get("/", h.Catalog.HandleServices)
				r.Get("/new", h.Catalog.HandleNewService)
				r.Post("/", h.Catalog.HandleSaveService)
				r.Get("/{id}/edit", h.Catalog.HandleEditService)
				r.Post("/{id}", h.Catalog.HandleSaveService)
				r.Put("/{id}", h.Catalog.HandleSaveService)
				r.Delete("/{id}", h.Catalog.HandleDeleteService)
			})
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Catalog.HandleProjects)
				r.Get("/new", h.Catalog.HandleNewProject)
				r.Post("/", h.Catalog.HandleSaveProject)
				r.Get("/{id}/edit", h.Catalog.HandleEditProject)
				r.Post("/{id}", h.Catalog.HandleSaveProject)
				r.Put("/{id}", h.Catalog.HandleSaveProject)
				r.Delete("/{id}", h.Catalog.HandleDeleteProject)
			})
			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Catalog.HandleProducts)
				r.Get("/new", h.Catalog.HandleNewProduct)
				r.Post("/", h.Catalog.HandleSaveProduct)
				r.Get("/{id}/edit", h.Catalog.HandleEditProduct)
				r.Post("/{id}", h.Catalog.HandleSaveProduct)
				r.Put("/{id}", h.Catalog.HandleSaveProduct)
				r.Delete("/{id}", h.Catalog.HandleDeleteProduct)
			})

			r.Get("/settings", h.Settings.HandleSettings)
			r.Post("/settings", h.Settings.HandleUpdateSettings)
			r.Put("/settings", h.Settings.HandleUpdateSettings)

			r.Get("/inquiries", h.Inquiries.HandleInquiries)
			r.Delete("/inquiries/{id}", h.Inquiries.HandleDelete)
			r.Put("/inquiries/{id}/read", h.Inquiries.HandleMarkRead)
			r.Post("/inquiries/{id}/read", h.Inquiries.HandleMarkRead)
		})
	})

	router.NotFound(h.Public.HandleNotFound)

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
