// settings.go — настройки сайта в панели управления.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/service"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	"github.com/love4code/poolnplay/internal/ui/pages"
)

// SettingsHandler — обработчик страницы настроек.
type SettingsHandler struct {
	base
	settings *service.SettingsService
	media    *service.MediaService
}

// NewSettingsHandler создаёт SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService, media *service.MediaService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		base:     base{site: settings, logger: logger.With(slog.String("component", "ui.settings"))},
		settings: settings,
		media:    media,
	}
}

// HandleSettings — GET /admin/settings.
func (h *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.settings.Get(r.Context())
	if err != nil {
		h.adminError(w, r, err)
		return
	}
	h.renderSettings(w, r, http.StatusOK, current, r.URL.Query().Get("success") == "true", "")
}

// HandleUpdateSettings — POST|PUT /admin/settings. Успех — redirect на ?success=true.
func (h *SettingsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in := service.SettingsInput{
		CompanyName: r.PostFormValue("companyName"),
		Address:     r.PostFormValue("address"),
		Phone:       r.PostFormValue("phone"),
		Email:       r.PostFormValue("email"),
		Social: model.SocialLinks{
			Facebook:  r.PostFormValue("facebook"),
			Instagram: r.PostFormValue("instagram"),
			Twitter:   r.PostFormValue("twitter"),
			LinkedIn:  r.PostFormValue("linkedin"),
			YouTube:   r.PostFormValue("youtube"),
		},
		Theme:          r.PostFormValue("theme"),
		PrimaryColor:   r.PostFormValue("primaryColor"),
		SecondaryColor: r.PostFormValue("secondaryColor"),
		HeroImageID:    r.PostFormValue("heroImageId"),
		SEOTitle:       r.PostFormValue("seoTitle"),
		SEODescription: r.PostFormValue("seoDescription"),
	}

	if _, err := h.settings.Update(r.Context(), in); err != nil {
		if msg := formError(err); msg != "" {
			s := &model.Settings{
				CompanyName: in.CompanyName, Address: in.Address, Phone: in.Phone, Email: in.Email,
				Social: in.Social, Theme: in.Theme, PrimaryColor: in.PrimaryColor,
				SecondaryColor: in.SecondaryColor, SEOTitle: in.SEOTitle, SEODescription: in.SEODescription,
			}
			if in.HeroImageID != "" {
				hero := in.HeroImageID
				s.HeroImageID = &hero
			}
			h.renderSettings(w, r, http.StatusBadRequest, s, false, msg)
			return
		}
		h.adminError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/settings?success=true", http.StatusSeeOther)
}

func (h *SettingsHandler) renderSettings(w http.ResponseWriter, r *http.Request, status int, s *model.Settings, success bool, msg string) {
	media, err := h.media.List(r.Context(), service.MediaLibraryLimit)
	if err != nil {
		h.logger.Warn("Медиатека недоступна для настроек", slog.String("error", err.Error()))
	}
	data := pages.SettingsData{
		Page:     h.page(r, i18n.T(r.Context(), "admin.settings"), "settings"),
		Settings: s,
		Media:    media,
		Success:  success,
		Error:    msg,
	}
	h.render(w, r, status, pages.Settings(data))
}
