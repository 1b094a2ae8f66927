// catalog.go — управление услугами, проектами и продуктами.
// Формы отправляются POST; обновление принимает также PUT,
// удаление — DELETE с JSON-ответом.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/love4code/poolnplay/internal/api/errors"
	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/service"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	"github.com/love4code/poolnplay/internal/ui/pages"
)

// CatalogHandler — обработчики каталога панели управления.
type CatalogHandler struct {
	base
	catalog *service.CatalogService
	media   *service.MediaService
}

// NewCatalogHandler создаёт CatalogHandler.
func NewCatalogHandler(site SiteSettings, catalog *service.CatalogService, media *service.MediaService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		base:    base{site: site, logger: logger.With(slog.String("component", "ui.catalog"))},
		catalog: catalog,
		media:   media,
	}
}

// formError возвращает сообщение ошибки валидации или "" для остальных ошибок.
func formError(err error) string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return ""
}

// pickerMedia возвращает медиа для выбора изображений; ошибка даёт пустой список.
func (h *CatalogHandler) pickerMedia(r *http.Request) []*model.MediaAsset {
	items, err := h.media.List(r.Context(), service.MediaLibraryLimit)
	if err != nil {
		h.logger.Warn("Медиатека недоступна для формы", slog.String("error", err.Error()))
		return nil
	}
	return items
}

// parseForm разбирает форму; ошибка отвечает 400.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, i18n.T(r.Context(), "error.bad_request"), http.StatusBadRequest)
		return false
	}
	return true
}

// deleted отвечает на DELETE-запрос.
func deleted(w http.ResponseWriter, err error) {
	if err != nil {
		apierrors.FromService(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ===== Services =====

// HandleServices — GET /admin/services.
func (h *CatalogHandler) HandleServices(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListServices(r.Context())
	if err != nil {
		h.adminError(w, r, err)
		return
	}
	data := pages.ServicesData{
		Page:     h.page(r, i18n.T(r.Context(), "admin.services"), "services"),
		Services: items,
	}
	h.render(w, r, http.StatusOK, pages.Services(data))
}

// HandleNewService — GET /admin/services/new.
func (h *CatalogHandler) HandleNewService(w http.ResponseWriter, r *http.Request) {
	h.renderServiceForm(w, r, http.StatusOK, &model.Service{Active: true}, true, "")
}

// HandleEditService — GET /admin/services/{id}/edit.
func (h *CatalogHandler) HandleEditService(w http.ResponseWriter, r *http.Request) {
	s, err := h.catalog.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.adminError(w, r, err)
		return
	}
	h.renderServiceForm(w, r, http.StatusOK, s, false, "")
}

// HandleSaveService — POST /admin/services и POST|PUT /admin/services/{id}.
func (h *CatalogHandler) HandleSaveService(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	in := service.ServiceInput{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Icon:        r.PostFormValue("icon"),
		Featured:    formBool(r, "featured"),
		Order:       formInt(r, "order"),
		Active:      formBool(r, "active"),
	}

	if _, err := h.catalog.SaveService(r.Context(), id, in); err != nil {
		if msg := formError(err); msg != "" {
			s := &model.Service{ID: id, Name: in.Name, Description: in.Description, Icon: in.Icon,
				Featured: in.Featured, Order: in.Order, Active: in.Active}
			h.renderServiceForm(w, r, http.StatusBadRequest, s, id == "", msg)
			return
		}
		h.adminError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/services", http.StatusSeeOther)
}

// HandleDeleteService — DELETE /admin/services/{id}.
func (h *CatalogHandler) HandleDeleteService(w http.ResponseWriter, r *http.Request) {
	deleted(w, h.catalog.DeleteService(r.Context(), chi.URLParam(r, "id")))
}

func (h *CatalogHandler) renderServiceForm(w http.ResponseWriter, r *http.Request, status int, s *model.Service, isNew bool, msg string) {
	title := "services.edit"
	if isNew {
		title = "services.new"
	}
	data := pages.ServiceFormData{
		Page:    h.page(r, i18n.T(r.Context(), title), "services"),
		Service: s,
		IsNew:   isNew,
		Error:   msg,
	}
	h.render(w, r, status, pages.ServiceForm(data))
}

// ===== Projects =====

// HandleProjects — GET /admin/projects.
func (h *CatalogHandler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListProjects(r.Context())
	if err != nil {
		h.adminError(w, r, err)
		return
	}
	data := pages.ProjectsData{
		Page:     h.page(r, i18n.T(r.Context(), "admin.projects"), "projects"),
		Projects: items,
	}
	h.render(w, r, http.StatusOK, pages.Projects(data))
}

// HandleNewProject — GET /admin/projects/new.
func (h *CatalogHandler) HandleNewProject(w http.ResponseWriter, r *http.Request) {
	h.renderProjectForm(w, r, http.StatusOK, &model.Project{Active: true}, true, "")
}

// HandleEditProject — GET /admin/projects/{id}/edit.
func (h *CatalogHandler) HandleEditProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.adminError(w, r, err)
		return
	}
	h.renderProjectForm(w, r, http.StatusOK, p, false, "")
}

// HandleSaveProject — POST /admin/projects и POST|PUT /admin/projects/{id}.
func (h *CatalogHandler) HandleSaveProject(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	in := service.ProjectInput{
		Title:          r.PostFormValue("title"),
		Description:    r.PostFormValue("description"),
		ImageIDs:       formIDs(r, "imageIds"),
		Featured:       formBool(r, "featured"),
		Order:          formInt(r, "order"),
		SEOTitle:       r.PostFormValue("seoTitle"),
		SEODescription: r.PostFormValue("seoDescription"),
		Active:         formBool(r, "active"),
	}

	if _, err := h.catalog.SaveProject(r.Context(), id, in); err != nil {
		if msg := formError(err); msg != "" {
			p := &model.Project{ID: id, Title: in.Title, Description: in.Description, ImageIDs: in.ImageIDs,
				Featured: in.Featured, Order: in.Order, SEOTitle: in.SEOTitle,
				SEODescription: in.SEODescription, Active: in.Active}
			h.renderProjectForm(w, r, http.StatusBadRequest, p, id == "", msg)
			return
		}
		h.adminError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
}

// HandleDeleteProject — DELETE /admin/projects/{id}.
func (h *CatalogHandler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	deleted(w, h.catalog.DeleteProject(r.Context(), chi.URLParam(r, "id")))
}

func (h *CatalogHandler) renderProjectForm(w http.ResponseWriter, r *http.Request, status int, p *model.Project, isNew bool, msg string) {
	title := "projects.edit"
	if isNew {
		title = "projects.new"
	}
	data := pages.ProjectFormData{
		Page:    h.page(r, i18n.T(r.Context(), title), "projects"),
		Project: p,
		Media:   h.pickerMedia(r),
		IsNew:   isNew,
		Error:   msg,
	}
	h.render(w, r, status, pages.ProjectForm(data))
}

// ===== Products =====

// HandleProducts — GET /admin/products.
func (h *CatalogHandler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.adminError(w, r, err)
		return
	}
	data := pages.AdminProductsData{
		Page:     h.page(r, i18n.T(r.Context(), "admin.products"), "products"),
		Products: items,
	}
	h.render(w, r, http.StatusOK, pages.AdminProducts(data))
}

// HandleNewProduct — GET /admin/products/new.
func (h *CatalogHandler) HandleNewProduct(w http.ResponseWriter, r *http.Request) {
	h.renderProductForm(w, r, http.StatusOK, &model.Product{Active: true}, "", true, "")
}

// HandleEditProduct — GET /admin/products/{id}/edit.
func (h *CatalogHandler) HandleEditProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.adminError(w, r, err)
		return
	}
	h.renderProductForm(w, r, http.StatusOK, p, formPriceValue(p.Price), false, "")
}

// HandleSaveProduct — POST /admin/products и POST|PUT /admin/products/{id}.
func (h *CatalogHandler) HandleSaveProduct(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	price, priceOK := formPrice(r, "price")
	in := service.ProductInput{
		Name:            r.PostFormValue("name"),
		Description:     r.PostFormValue("description"),
		Price:           price,
		Sizes:           formCSV(r, "sizes"),
		FeaturedImageID: r.PostFormValue("featuredImageId"),
		ImageIDs:        formIDs(r, "imageIds"),
		SEOTitle:        r.PostFormValue("seoTitle"),
		SEODescription:  r.PostFormValue("seoDescription"),
		Active:          formBool(r, "active"),
	}

	var err error
	if !priceOK {
		err = &service.ValidationError{Message: "Price must be a number."}
	} else {
		_, err = h.catalog.SaveProduct(r.Context(), id, in)
	}
	if err != nil {
		if msg := formError(err); msg != "" {
			p := &model.Product{ID: id, Name: in.Name, Description: in.Description, Sizes: in.Sizes,
				ImageIDs: in.ImageIDs, SEOTitle: in.SEOTitle, SEODescription: in.SEODescription, Active: in.Active}
			if fid := strings.TrimSpace(in.FeaturedImageID); fid != "" {
				p.FeaturedImageID = &fid
			}
			h.renderProductForm(w, r, http.StatusBadRequest, p, r.PostFormValue("price"), id == "", msg)
			return
		}
		h.adminError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// HandleDeleteProduct — DELETE /admin/products/{id}.
func (h *CatalogHandler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	deleted(w, h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")))
}

func (h *CatalogHandler) renderProductForm(w http.ResponseWriter, r *http.Request, status int, p *model.Product, price string, isNew bool, msg string) {
	title := "products.edit"
	if isNew {
		title = "products.new"
	}
	data := pages.ProductFormData{
		Page:    h.page(r, i18n.T(r.Context(), title), "products"),
		Product: p,
		Sizes:   strings.Join(p.Sizes, ", "),
		Price:   price,
		Media:   h.pickerMedia(r),
		IsNew:   isNew,
		Error:   msg,
	}
	h.render(w, r, status, pages.ProductForm(data))
}
