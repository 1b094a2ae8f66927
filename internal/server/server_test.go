package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apihandlers "github.com/love4code/poolnplay/internal/api/handlers"
	"github.com/love4code/poolnplay/internal/config"
	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/service"
	"github.com/love4code/poolnplay/internal/ui/auth"
	uihandlers "github.com/love4code/poolnplay/internal/ui/handlers"
	uimiddleware "github.com/love4code/poolnplay/internal/ui/middleware"
)

type okChecker struct{}

func (okChecker) CheckReady() (string, string) { return "ok", "" }

type fakeSubmitter struct{}

func (fakeSubmitter) Submit(_ context.Context, in service.SubmitInquiryInput) (*model.Inquiry, error) {
	return &model.Inquiry{ID: "11111111-1111-1111-1111-111111111111", Name: in.Name}, nil
}

type siteStub struct{}

func (siteStub) Current(context.Context) *model.Settings { return model.DefaultSettings() }

type emptyCatalog struct{}

func (emptyCatalog) FeaturedServices(context.Context) ([]*model.Service, error) { return nil, nil }
func (emptyCatalog) PublicServices(context.Context) ([]*model.Service, error)   { return nil, nil }
func (emptyCatalog) FeaturedProjects(context.Context) ([]*model.Project, error) { return nil, nil }
func (emptyCatalog) PortfolioProjects(context.Context) ([]*model.Project, error) {
	return nil, nil
}
func (emptyCatalog) PublicProducts(context.Context) ([]*model.Product, error) { return nil, nil }
func (emptyCatalog) PublicProduct(context.Context, string) (*model.Product, error) {
	return nil, service.ErrNotFound
}

type noMedia struct{}

func (noMedia) Get(context.Context, string) (*model.MediaAsset, error) {
	return nil, service.ErrNotFound
}

func newTestRouter(t *testing.T) (http.Handler, *auth.SessionManager) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	creds, err := auth.NewCredentials("admin", "admin123", "")
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}
	sm, err := auth.NewSessionManager("test-secret", false, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	site := siteStub{}
	h := Handlers{
		Health:    apihandlers.NewHealthHandler(okChecker{}),
		Inquiry:   apihandlers.NewInquiryHandler(fakeSubmitter{}, logger),
		Public:    uihandlers.NewPublicHandler(site, emptyCatalog{}, noMedia{}, logger),
		Auth:      uihandlers.NewAuthHandler(site, creds, sm, logger),
		AuthMW:    uimiddleware.NewUIAuth(sm, logger),
		Dashboard: uihandlers.NewDashboardHandler(site, nil, logger),
		Media:     uihandlers.NewMediaHandler(site, nil, service.UploadLimits{MaxFiles: 10, MaxBytes: 10 << 20}, logger),
		Catalog:   uihandlers.NewCatalogHandler(site, nil, nil, logger),
		Inquiries: uihandlers.NewInquiriesHandler(site, nil, logger),
	}
	cfg := &config.Config{CORSAllowedOrigins: []string{"https://landing.example"}}
	return NewRouter(cfg, logger, h), sm
}

func TestRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantLoc    string
	}{
		{"liveness", http.MethodGet, "/health/live", http.StatusOK, ""},
		{"readiness", http.MethodGet, "/health/ready", http.StatusOK, ""},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, ""},
		{"главная", http.MethodGet, "/", http.StatusOK, ""},
		{"контакты", http.MethodGet, "/contact", http.StatusOK, ""},
		{"продукт отсутствует", http.MethodGet, "/products/11111111-1111-1111-1111-111111111111", http.StatusNotFound, ""},
		{"статика", http.MethodGet, "/static/css/site.css", http.StatusOK, ""},
		{"неизвестный путь", http.MethodGet, "/nope", http.StatusNotFound, ""},
		{"админка без сессии", http.MethodGet, "/admin", http.StatusFound, "/admin/login"},
		{"медиа без сессии", http.MethodPost, "/admin/media/upload", http.StatusFound, "/admin/login"},
		{"удаление без сессии", http.MethodDelete, "/admin/products/11111111-1111-1111-1111-111111111111", http.StatusFound, "/admin/login"},
		{"страница входа", http.MethodGet, "/admin/login", http.StatusOK, ""},
		{"выход", http.MethodGet, "/admin/logout", http.StatusSeeOther, "/admin/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s: статус = %d, ожидается %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
			if tt.wantLoc != "" && rec.Header().Get("Location") != tt.wantLoc {
				t.Errorf("Location = %q, ожидается %q", rec.Header().Get("Location"), tt.wantLoc)
			}
		})
	}
}

func TestLoginRedirectsWhenAuthenticated(t *testing.T) {
	router, sm := newTestRouter(t)

	cookieRec := httptest.NewRecorder()
	if err := sm.SetSessionCookie(cookieRec, sm.NewSession("admin")); err != nil {
		t.Fatalf("SetSessionCookie: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	for _, c := range cookieRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin" {
		t.Errorf("статус = %d, Location = %q; ожидается redirect на /admin", rec.Code, rec.Header().Get("Location"))
	}
}

func TestInquiryRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"name":"Jane","town":"Springfield","phone":"555","email":"j@example.com","service":"Pool Install"}`
	req := httptest.NewRequest(http.MethodPost, "/inquiry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидается 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("тело = %s", rec.Body.String())
	}
}

func TestInquiryCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://landing.example", true},
		{"https://other.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/inquiry", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		got := rec.Header().Get("Access-Control-Allow-Origin")
		if tt.allowed && got != tt.origin {
			t.Errorf("%s: Access-Control-Allow-Origin = %q", tt.origin, got)
		}
		if !tt.allowed && got != "" {
			t.Errorf("%s: источник не должен быть разрешён, получено %q", tt.origin, got)
		}
	}
}
