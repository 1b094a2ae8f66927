// Пакет handlers — HTTP-обработчики сайта и панели управления.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/service"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	uimiddleware "github.com/love4code/poolnplay/internal/ui/middleware"
	"github.com/love4code/poolnplay/internal/ui/pages"
)

// SiteSettings — источник настроек сайта для макета страниц.
type SiteSettings interface {
	Current(ctx context.Context) *model.Settings
}

// base — общие зависимости обработчиков страниц.
type base struct {
	site   SiteSettings
	logger *slog.Logger
}

// page заполняет общие данные макета.
func (b *base) page(r *http.Request, title, nav string) pages.Page {
	p := pages.Page{
		Site:  b.site.Current(r.Context()),
		Title: title,
		Nav:   nav,
	}
	if session := uimiddleware.SessionFromContext(r.Context()); session != nil {
		p.Username = session.Username
	}
	return p
}

// render рендерит страницу в буфер, затем пишет статус и тело.
func (b *base) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		b.logger.Error("Ошибка рендеринга страницы",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, i18n.T(r.Context(), "error.internal"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorStatus сопоставляет ошибку сервиса с HTTP-статусом и ключом сообщения.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "error.not_found"
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "error.unavailable"
	default:
		return http.StatusInternalServerError, "error.internal"
	}
}

// publicError отображает публичную страницу ошибки.
// Внутренний текст ошибки попадает только в лог.
func (b *base) publicError(w http.ResponseWriter, r *http.Request, err error) {
	status, key := errorStatus(err)
	if status >= http.StatusInternalServerError {
		b.logger.Error("Ошибка обработки запроса",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	data := pages.ErrorData{
		Page:    b.page(r, http.StatusText(status), ""),
		Status:  status,
		Message: i18n.T(r.Context(), key),
	}
	b.render(w, r, status, pages.Error(data))
}

// adminError отображает страницу ошибки панели управления.
func (b *base) adminError(w http.ResponseWriter, r *http.Request, err error) {
	status, key := errorStatus(err)
	if status >= http.StatusInternalServerError {
		b.logger.Error("Ошибка обработки запроса панели",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	data := pages.ErrorData{
		Page:    b.page(r, http.StatusText(status), ""),
		Status:  status,
		Message: i18n.T(r.Context(), key),
	}
	b.render(w, r, status, pages.AdminError(data))
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
