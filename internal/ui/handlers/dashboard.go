// dashboard.go — главная страница панели управления.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/love4code/poolnplay/internal/service"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	"github.com/love4code/poolnplay/internal/ui/pages"
)

// DashboardHandler — обработчик страницы Dashboard.
type DashboardHandler struct {
	base
	stats *service.DashboardService
}

// NewDashboardHandler создаёт DashboardHandler.
func NewDashboardHandler(site SiteSettings, stats *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		base:  base{site: site, logger: logger.With(slog.String("component", "ui.dashboard"))},
		stats: stats,
	}
}

// HandleDashboard — GET /admin.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.adminError(w, r, err)
		return
	}

	data := pages.DashboardData{
		Page:  h.page(r, i18n.T(r.Context(), "admin.dashboard"), "dashboard"),
		Stats: stats,
	}
	h.render(w, r, http.StatusOK, pages.Dashboard(data))
}
