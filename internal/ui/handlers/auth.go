// auth.go — вход и выход администратора.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/love4code/poolnplay/internal/ui/auth"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	"github.com/love4code/poolnplay/internal/ui/pages"
)

// AuthHandler — обработчики аутентификации панели управления.
type AuthHandler struct {
	base
	credentials    *auth.Credentials
	sessionManager *auth.SessionManager
}

// NewAuthHandler создаёт AuthHandler.
func NewAuthHandler(
	site SiteSettings,
	credentials *auth.Credentials,
	sessionManager *auth.SessionManager,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		base:           base{site: site, logger: logger.With(slog.String("component", "ui_auth"))},
		credentials:    credentials,
		sessionManager: sessionManager,
	}
}

// HandleLoginPage — GET /admin/login.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := pages.LoginData{Page: h.page(r, i18n.T(r.Context(), "login.title"), "")}
	h.render(w, r, http.StatusOK, pages.Login(data))
}

// HandleLogin — POST /admin/login.
// Проверяет учётные данные, устанавливает session cookie, redirect на /admin.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if err := h.credentials.Verify(username, password); err != nil {
		h.logger.Warn("Неудачная попытка входа",
			slog.String("username", username),
			slog.String("remote_addr", r.RemoteAddr),
		)
		data := pages.LoginData{
			Page:      h.page(r, i18n.T(r.Context(), "login.title"), ""),
			Error:     i18n.T(r.Context(), "login.invalid"),
			LoginName: username,
		}
		h.render(w, r, http.StatusUnauthorized, pages.Login(data))
		return
	}

	session := h.sessionManager.NewSession(username)
	if err := h.sessionManager.SetSessionCookie(w, session); err != nil {
		h.logger.Error("Ошибка установки session cookie",
			slog.String("error", err.Error()),
		)
		http.Error(w, i18n.T(r.Context(), "error.internal"), http.StatusInternalServerError)
		return
	}

	h.logger.Info("Администратор вошёл", slog.String("username", username))
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// HandleLogout — GET|POST /admin/logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessionManager.ClearSessionCookie(w)
	h.logger.Info("Администратор вышел")
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
