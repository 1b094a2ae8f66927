package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/service"
	"github.com/love4code/poolnplay/internal/ui/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSite struct{ settings *model.Settings }

func (f fakeSite) Current(context.Context) *model.Settings {
	if f.settings == nil {
		return model.DefaultSettings()
	}
	return f.settings
}

// fakeCatalog — каталог с настраиваемыми ошибками.
type fakeCatalog struct {
	services   []*model.Service
	projects   []*model.Project
	products   []*model.Product
	product    *model.Product
	listErr    error
	productErr error
}

func (f *fakeCatalog) FeaturedServices(context.Context) ([]*model.Service, error) {
	return f.services, f.listErr
}

func (f *fakeCatalog) PublicServices(context.Context) ([]*model.Service, error) {
	return f.services, f.listErr
}

func (f *fakeCatalog) FeaturedProjects(context.Context) ([]*model.Project, error) {
	return f.projects, f.listErr
}

func (f *fakeCatalog) PortfolioProjects(context.Context) ([]*model.Project, error) {
	return f.projects, f.listErr
}

func (f *fakeCatalog) PublicProducts(context.Context) ([]*model.Product, error) {
	return f.products, f.listErr
}

func (f *fakeCatalog) PublicProduct(_ context.Context, id string) (*model.Product, error) {
	if f.productErr != nil {
		return nil, f.productErr
	}
	if f.product == nil || f.product.ID != id {
		return nil, service.ErrNotFound
	}
	return f.product, nil
}

type fakeMedia struct {
	asset *model.MediaAsset
	err   error
}

func (f fakeMedia) Get(context.Context, string) (*model.MediaAsset, error) {
	return f.asset, f.err
}

func newPublic(catalog *fakeCatalog, media fakeMedia, site *model.Settings) *PublicHandler {
	return NewPublicHandler(fakeSite{settings: site}, catalog, media, testLogger())
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ===== Публичные страницы =====

func TestHomeRendersFeatured(t *testing.T) {
	hero := "11111111-1111-1111-1111-111111111111"
	site := model.DefaultSettings()
	site.HeroImageID = &hero
	catalog := &fakeCatalog{
		services: []*model.Service{{ID: "s1", Name: "Pool Install", Description: "d"}},
		projects: []*model.Project{{ID: "p1", Title: "Smith Backyard"}},
	}
	media := fakeMedia{asset: &model.MediaAsset{ID: hero, MimeType: "image/jpeg", Large: []byte{1, 2, 3}}}

	rec := httptest.NewRecorder()
	newPublic(catalog, media, site).HandleHome(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидается 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Pool Install", "Smith Backyard", "background-image"} {
		if !strings.Contains(body, want) {
			t.Errorf("главная не содержит %q", want)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHomeDegradesWhenStoreUnavailable(t *testing.T) {
	hero := "11111111-1111-1111-1111-111111111111"
	site := model.DefaultSettings()
	site.HeroImageID = &hero
	catalog := &fakeCatalog{listErr: service.ErrStoreUnavailable}
	media := fakeMedia{err: service.ErrStoreUnavailable}

	rec := httptest.NewRecorder()
	newPublic(catalog, media, site).HandleHome(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, главная должна открываться без хранилища", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), model.DefaultCompanyName) {
		t.Error("главная без настроек по умолчанию")
	}
}

func TestPublicListsDegrade(t *testing.T) {
	h := newPublic(&fakeCatalog{listErr: service.ErrStoreUnavailable}, fakeMedia{}, nil)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"about", h.HandleAbout},
		{"products", h.HandleProducts},
		{"portfolio", h.HandlePortfolio},
		{"contact", h.HandleContact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/"+tt.name, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("статус = %d, ожидается 200", rec.Code)
			}
		})
	}
}

func TestProductPage(t *testing.T) {
	id := "22222222-2222-2222-2222-222222222222"
	product := &model.Product{
		ID:          id,
		Name:        "Deluxe Above Ground",
		Description: strings.Repeat("x", 200),
		Sizes:       []string{"24' Round"},
		Active:      true,
	}

	tests := []struct {
		name       string
		catalog    *fakeCatalog
		id         string
		wantStatus int
		wantBody   string
	}{
		{"найден", &fakeCatalog{product: product}, id, http.StatusOK, "Deluxe Above Ground"},
		{"отсутствует", &fakeCatalog{product: product}, "33333333-3333-3333-3333-333333333333", http.StatusNotFound, "error.not_found"},
		{"хранилище недоступно", &fakeCatalog{productErr: service.ErrStoreUnavailable}, id, http.StatusServiceUnavailable, "error.unavailable"},
		{"внутренняя ошибка", &fakeCatalog{productErr: fmt.Errorf("boom")}, id, http.StatusInternalServerError, "error.internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/products/"+tt.id, nil), "id", tt.id)
			newPublic(tt.catalog, fakeMedia{}, nil).HandleProduct(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("статус = %d, ожидается %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("тело не содержит %q", tt.wantBody)
			}
			if strings.Contains(rec.Body.String(), "boom") {
				t.Error("текст внутренней ошибки раскрыт клиенту")
			}
		})
	}
}

func TestProductMetaDescriptionTruncated(t *testing.T) {
	id := "22222222-2222-2222-2222-222222222222"
	product := &model.Product{ID: id, Name: "P", Description: strings.Repeat("y", 200), Active: true}

	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/products/"+id, nil), "id", id)
	newPublic(&fakeCatalog{product: product}, fakeMedia{}, nil).HandleProduct(rec, req)

	want := `content="` + strings.Repeat("y", 160) + `"`
	if !strings.Contains(rec.Body.String(), want) {
		t.Error("meta description должен содержать первые 160 символов описания")
	}
}

func TestNotFoundPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newPublic(&fakeCatalog{}, fakeMedia{}, nil).HandleNotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("статус = %d, ожидается 404", rec.Code)
	}
}

// ===== Вход =====

func newAuthHandler(t *testing.T) (*AuthHandler, *auth.SessionManager) {
	t.Helper()
	creds, err := auth.NewCredentials("admin", "admin123", "")
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}
	sm, err := auth.NewSessionManager("test-secret", false, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return NewAuthHandler(fakeSite{}, creds, sm, testLogger()), sm
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginSuccess(t *testing.T) {
	h, sm := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"admin123"}}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("статус = %d, ожидается 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("Location = %q, ожидается /admin", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	session, err := sm.GetSessionFromRequest(req)
	if err != nil || session == nil {
		t.Fatalf("сессия не установлена: %v", err)
	}
	if session.Username != "admin" {
		t.Errorf("Username = %q", session.Username)
	}
}

func TestLoginFailure(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("статус = %d, ожидается 401", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("при неудачном входе cookie не устанавливается")
	}
	if !strings.Contains(rec.Body.String(), "login.invalid") {
		t.Error("нет сообщения о неверных данных")
	}
}

func TestLoginMalformedForm(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader("username=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("статус = %d, ожидается 400", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "error.bad_request") {
		t.Errorf("тело = %q, ожидается ключ error.bad_request", body)
	}
	if strings.Contains(body, "Некорректная") {
		t.Error("ответ клиенту не должен содержать русский текст")
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.HandleLogout(rec, httptest.NewRequest(http.MethodGet, "/admin/logout", nil))

	if loc := rec.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("Location = %q", loc)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie не очищен")
	}
}

// ===== Язык =====

func TestSetLanguage(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		referer  string
		wantLang string
		wantLoc  string
	}{
		{"испанский", "es", "http://example.com/products?x=1", "es", "/products?x=1"},
		{"неизвестный язык", "fr", "", "en", "/"},
		{"чужой referer", "en", "http://evil.test/phish", "en", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := postForm("/set-language", url.Values{"lang": {tt.lang}})
			req.Host = "example.com"
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			rec := httptest.NewRecorder()
			HandleSetLanguage(rec, req)

			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, ожидается %q", loc, tt.wantLoc)
			}
			var got string
			for _, c := range rec.Result().Cookies() {
				if c.Name == "lang" {
					got = c.Value
				}
			}
			if got != tt.wantLang {
				t.Errorf("cookie lang = %q, ожидается %q", got, tt.wantLang)
			}
		})
	}
}
