// inquiries.go — заявки в панели управления.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/love4code/poolnplay/internal/api/errors"
	"github.com/love4code/poolnplay/internal/service"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	"github.com/love4code/poolnplay/internal/ui/pages"
)

// InquiriesHandler — обработчики заявок.
type InquiriesHandler struct {
	base
	inquiries *service.InquiryService
}

// NewInquiriesHandler создаёт InquiriesHandler.
func NewInquiriesHandler(site SiteSettings, inquiries *service.InquiryService, logger *slog.Logger) *InquiriesHandler {
	return &InquiriesHandler{
		base:      base{site: site, logger: logger.With(slog.String("component", "ui.inquiries"))},
		inquiries: inquiries,
	}
}

// HandleInquiries — GET /admin/inquiries.
func (h *InquiriesHandler) HandleInquiries(w http.ResponseWriter, r *http.Request) {
	items, err := h.inquiries.List(r.Context())
	if err != nil {
		h.adminError(w, r, err)
		return
	}
	data := pages.InquiriesData{
		Page:      h.page(r, i18n.T(r.Context(), "admin.inquiries"), "inquiries"),
		Inquiries: items,
	}
	h.render(w, r, http.StatusOK, pages.Inquiries(data))
}

// HandleMarkRead — PUT|POST /admin/inquiries/{id}/read.
func (h *InquiriesHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.inquiries.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromService(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleDelete — DELETE /admin/inquiries/{id}.
func (h *InquiriesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	deleted(w, h.inquiries.Delete(r.Context(), chi.URLParam(r, "id")))
}
