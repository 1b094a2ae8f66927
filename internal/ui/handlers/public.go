// public.go — публичные страницы сайта.
// При недоступном хранилище страницы отображаются с пустыми списками
// и сохранёнными настройками.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	"github.com/love4code/poolnplay/internal/ui/pages"
)

// PublicCatalog — каталог для публичных страниц.
type PublicCatalog interface {
	FeaturedServices(ctx context.Context) ([]*model.Service, error)
	PublicServices(ctx context.Context) ([]*model.Service, error)
	FeaturedProjects(ctx context.Context) ([]*model.Project, error)
	PortfolioProjects(ctx context.Context) ([]*model.Project, error)
	PublicProducts(ctx context.Context) ([]*model.Product, error)
	PublicProduct(ctx context.Context, id string) (*model.Product, error)
}

// MediaGetter возвращает медиа по ID.
type MediaGetter interface {
	Get(ctx context.Context, id string) (*model.MediaAsset, error)
}

// PublicHandler — обработчики публичных страниц.
type PublicHandler struct {
	base
	catalog PublicCatalog
	media   MediaGetter
}

// NewPublicHandler создаёт PublicHandler.
func NewPublicHandler(site SiteSettings, catalog PublicCatalog, media MediaGetter, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{
		base:    base{site: site, logger: logger.With(slog.String("component", "ui.public"))},
		catalog: catalog,
		media:   media,
	}
}

// degrade логирует ошибку списка; страница показывается без него.
func (h *PublicHandler) degrade(r *http.Request, what string, err error) {
	h.logger.Warn("Список недоступен, страница без него",
		slog.String("path", r.URL.Path),
		slog.String("list", what),
		slog.String("error", err.Error()),
	)
}

// HandleHome — GET /.
func (h *PublicHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := pages.HomeData{Page: h.page(r, "", "home")}
	data.Title = data.Site.SEOTitle

	if id := data.Site.HeroImageID; id != nil {
		if hero, err := h.media.Get(ctx, *id); err == nil {
			data.Hero = hero
		} else {
			h.degrade(r, "hero", err)
		}
	}

	var err error
	if data.Services, err = h.catalog.FeaturedServices(ctx); err != nil {
		h.degrade(r, "services", err)
	}
	if data.Projects, err = h.catalog.FeaturedProjects(ctx); err != nil {
		h.degrade(r, "projects", err)
	}

	h.render(w, r, http.StatusOK, pages.Home(data))
}

// HandleAbout — GET /about.
func (h *PublicHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	data := pages.AboutData{Page: h.page(r, i18n.T(r.Context(), "about.title"), "about")}

	var err error
	if data.Services, err = h.catalog.PublicServices(r.Context()); err != nil {
		h.degrade(r, "services", err)
	}
	h.render(w, r, http.StatusOK, pages.About(data))
}

// HandleContact — GET /contact.
func (h *PublicHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	data := pages.ContactData{Page: h.page(r, i18n.T(r.Context(), "contact.title"), "contact")}
	h.render(w, r, http.StatusOK, pages.Contact(data))
}

// HandleProducts — GET /products.
func (h *PublicHandler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	data := pages.ProductsData{Page: h.page(r, i18n.T(r.Context(), "products.title"), "products")}

	var err error
	if data.Products, err = h.catalog.PublicProducts(r.Context()); err != nil {
		h.degrade(r, "products", err)
	}
	h.render(w, r, http.StatusOK, pages.Products(data))
}

// HandleProduct — GET /products/{id}. Неактивный или отсутствующий продукт — 404.
func (h *PublicHandler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.PublicProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.publicError(w, r, err)
		return
	}

	data := pages.ProductData{
		Page:    h.page(r, product.MetaTitle(), "products"),
		Product: product,
	}
	data.Description = product.MetaDescription()
	h.render(w, r, http.StatusOK, pages.Product(data))
}

// HandlePortfolio — GET /portfolio.
func (h *PublicHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	data := pages.PortfolioData{Page: h.page(r, i18n.T(r.Context(), "portfolio.title"), "portfolio")}

	var err error
	if data.Projects, err = h.catalog.PortfolioProjects(r.Context()); err != nil {
		h.degrade(r, "projects", err)
	}
	h.render(w, r, http.StatusOK, pages.Portfolio(data))
}

// HandleNotFound — страница 404 для неизвестных путей.
func (h *PublicHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	data := pages.ErrorData{
		Page:    h.page(r, http.StatusText(http.StatusNotFound), ""),
		Status:  http.StatusNotFound,
		Message: i18n.T(r.Context(), "error.not_found"),
	}
	h.render(w, r, http.StatusNotFound, pages.Error(data))
}
