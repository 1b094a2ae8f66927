// Пакет middleware — HTTP middleware панели управления.
// auth.go — проверка сессии администратора (cookie-based).
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/love4code/poolnplay/internal/ui/auth"
)

// contextKey — тип для ключей контекста UI.
type contextKey string

const (
	// ContextKeyUISession — данные сессии в контексте запроса.
	ContextKeyUISession contextKey = "ui_session"
)

// LoginPath — страница входа.
const LoginPath = "/admin/login"

// UIAuth — middleware аутентификации администратора.
type UIAuth struct {
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewUIAuth создаёт новый UIAuth middleware.
func NewUIAuth(sessionManager *auth.SessionManager, logger *slog.Logger) *UIAuth {
	return &UIAuth{
		sessionManager: sessionManager,
		logger:         logger.With(slog.String("component", "ui_auth_middleware")),
	}
}

// session возвращает действующую сессию или nil. Повреждённый или
// истёкший cookie удаляется.
func (ua *UIAuth) session(w http.ResponseWriter, r *http.Request) *auth.SessionData {
	session, err := ua.sessionManager.GetSessionFromRequest(r)
	if err != nil {
		ua.logger.Debug("Ошибка чтения сессии",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr),
		)
		ua.sessionManager.ClearSessionCookie(w)
		return nil
	}
	if session == nil {
		return nil
	}
	if session.IsExpired() {
		ua.logger.Info("Сессия истекла", slog.String("username", session.Username))
		ua.sessionManager.ClearSessionCookie(w)
		return nil
	}
	return session
}

// RequireAuth пропускает только запросы с действующей сессией,
// остальных перенаправляет на страницу входа.
func (ua *UIAuth) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := ua.session(w, r)
			if session == nil {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUISession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfAuth перенаправляет уже вошедшего администратора в /admin.
func (ua *UIAuth) RedirectIfAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ua.session(w, r) != nil {
				http.Redirect(w, r, "/admin", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext извлекает SessionData из контекста запроса.
// Возвращает nil если запрос не прошёл через RequireAuth.
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, ok := ctx.Value(ContextKeyUISession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return session
}
