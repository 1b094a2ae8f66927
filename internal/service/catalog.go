// catalog.go — услуги, проекты портфолио и продукты.
// Админские операции — полный CRUD; публичные списки содержат
// только активные записи с подставленными изображениями.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/repository"
)

// Лимиты публичной главной страницы.
const (
	FeaturedServicesLimit = 3
	FeaturedProjectsLimit = 4
)

// ServiceInput — данные формы услуги.
type ServiceInput struct {
	Name        string
	Description string
	Icon        string
	Featured    bool
	Order       int
	Active      bool
}

// ProjectInput — данные формы проекта.
type ProjectInput struct {
	Title          string
	Description    string
	ImageIDs       []string
	Featured       bool
	Order          int
	SEOTitle       string
	SEODescription string
	Active         bool
}

// ProductInput — данные формы продукта.
type ProductInput struct {
	Name            string
	Description     string
	Price           *float64
	Sizes           []string
	FeaturedImageID string
	ImageIDs        []string
	SEOTitle        string
	SEODescription  string
	Active          bool
}

// CatalogService — управление каталогом.
type CatalogService struct {
	services repository.ServiceRepository
	projects repository.ProjectRepository
	products repository.ProductRepository
	media    *MediaService
	logger   *slog.Logger
}

// NewCatalogService создаёт сервис каталога.
func NewCatalogService(
	services repository.ServiceRepository,
	projects repository.ProjectRepository,
	products repository.ProductRepository,
	media *MediaService,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		services: services,
		projects: projects,
		products: products,
		media:    media,
		logger:   logger.With(slog.String("service", "catalog")),
	}
}

// ===== Services =====

// ListServices возвращает все услуги (админка).
func (c *CatalogService) ListServices(ctx context.Context) ([]*model.Service, error) {
	items, err := c.services.List(ctx, repository.ListFilter{})
	if err != nil {
		return nil, storeError("ошибка получения услуг", err)
	}
	return items, nil
}

// PublicServices возвращает активные услуги для страницы «О компании».
func (c *CatalogService) PublicServices(ctx context.Context) ([]*model.Service, error) {
	items, err := c.services.List(ctx, repository.ListFilter{ActiveOnly: true})
	if err != nil {
		return nil, storeError("ошибка получения услуг", err)
	}
	return items, nil
}

// FeaturedServices возвращает избранные активные услуги для главной.
func (c *CatalogService) FeaturedServices(ctx context.Context) ([]*model.Service, error) {
	items, err := c.services.List(ctx, repository.ListFilter{
		ActiveOnly: true, FeaturedOnly: true, Limit: FeaturedServicesLimit,
	})
	if err != nil {
		return nil, storeError("ошибка получения услуг", err)
	}
	return items, nil
}

// GetService возвращает услугу по ID.
func (c *CatalogService) GetService(ctx context.Context, id string) (*model.Service, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	s, err := c.services.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("ошибка получения услуги", err)
	}
	return s, nil
}

// SaveService создаёт услугу (id == "") или обновляет существующую.
func (c *CatalogService) SaveService(ctx context.Context, id string, in ServiceInput) (*model.Service, error) {
	s := &model.Service{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Icon:        strings.TrimSpace(in.Icon),
		Featured:    in.Featured,
		Order:       in.Order,
		Active:      in.Active,
	}
	if s.Name == "" || s.Description == "" {
		return nil, newValidationError("Name and description are required.")
	}

	if id == "" {
		if err := c.services.Create(ctx, s); err != nil {
			return nil, storeError("ошибка создания услуги", err)
		}
		c.logger.Info("Услуга создана", slog.String("id", s.ID), slog.String("name", s.Name))
		return s, nil
	}

	if !validID(id) {
		return nil, ErrNotFound
	}
	s.ID = id
	if err := c.services.Update(ctx, s); err != nil {
		return nil, storeError("ошибка обновления услуги", err)
	}
	c.logger.Info("Услуга обновлена", slog.String("id", s.ID))
	return s, nil
}

// DeleteService удаляет услугу.
func (c *CatalogService) DeleteService(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := c.services.Delete(ctx, id); err != nil {
		return storeError("ошибка удаления услуги", err)
	}
	c.logger.Info("Услуга удалена", slog.String("id", id))
	return nil
}

// ===== Projects =====

// ListProjects возвращает все проекты (админка) с изображениями.
func (c *CatalogService) ListProjects(ctx context.Context) ([]*model.Project, error) {
	return c.listProjects(ctx, repository.ListFilter{})
}

// PortfolioProjects возвращает активные проекты с изображениями.
func (c *CatalogService) PortfolioProjects(ctx context.Context) ([]*model.Project, error) {
	return c.listProjects(ctx, repository.ListFilter{ActiveOnly: true})
}

// FeaturedProjects возвращает избранные активные проекты для главной.
func (c *CatalogService) FeaturedProjects(ctx context.Context) ([]*model.Project, error) {
	return c.listProjects(ctx, repository.ListFilter{
		ActiveOnly: true, FeaturedOnly: true, Limit: FeaturedProjectsLimit,
	})
}

func (c *CatalogService) listProjects(ctx context.Context, f repository.ListFilter) ([]*model.Project, error) {
	items, err := c.projects.List(ctx, f)
	if err != nil {
		return nil, storeError("ошибка получения проектов", err)
	}
	for _, p := range items {
		if p.Images, err = c.media.Resolve(ctx, p.ImageIDs); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// GetProject возвращает проект по ID.
func (c *CatalogService) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	p, err := c.projects.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("ошибка получения проекта", err)
	}
	if p.Images, err = c.media.Resolve(ctx, p.ImageIDs); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProject создаёт проект (id == "") или обновляет существующий.
func (c *CatalogService) SaveProject(ctx context.Context, id string, in ProjectInput) (*model.Project, error) {
	p := &model.Project{
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		ImageIDs:       cleanIDs(in.ImageIDs),
		Featured:       in.Featured,
		Order:          in.Order,
		SEOTitle:       strings.TrimSpace(in.SEOTitle),
		SEODescription: strings.TrimSpace(in.SEODescription),
		Active:         in.Active,
	}
	if p.Title == "" || p.Description == "" {
		return nil, newValidationError("Title and description are required.")
	}

	if id == "" {
		if err := c.projects.Create(ctx, p); err != nil {
			return nil, storeError("ошибка создания проекта", err)
		}
		c.logger.Info("Проект создан", slog.String("id", p.ID), slog.String("title", p.Title))
		return p, nil
	}

	if !validID(id) {
		return nil, ErrNotFound
	}
	p.ID = id
	if err := c.projects.Update(ctx, p); err != nil {
		return nil, storeError("ошибка обновления проекта", err)
	}
	c.logger.Info("Проект обновлён", slog.String("id", p.ID))
	return p, nil
}

// DeleteProject удаляет проект.
func (c *CatalogService) DeleteProject(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := c.projects.Delete(ctx, id); err != nil {
		return storeError("ошибка удаления проекта", err)
	}
	c.logger.Info("Проект удалён", slog.String("id", id))
	return nil
}

// ===== Products =====

// ListProducts возвращает все продукты (админка) с главным изображением.
func (c *CatalogService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return c.listProducts(ctx, repository.ListFilter{})
}

// PublicProducts возвращает активные продукты с главным изображением.
func (c *CatalogService) PublicProducts(ctx context.Context) ([]*model.Product, error) {
	return c.listProducts(ctx, repository.ListFilter{ActiveOnly: true})
}

func (c *CatalogService) listProducts(ctx context.Context, f repository.ListFilter) ([]*model.Product, error) {
	items, err := c.products.List(ctx, f)
	if err != nil {
		return nil, storeError("ошибка получения продуктов", err)
	}
	if err := c.attachFeaturedImages(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachFeaturedImages подставляет главные изображения одним запросом.
func (c *CatalogService) attachFeaturedImages(ctx context.Context, items []*model.Product) error {
	var ids []string
	for _, p := range items {
		if p.FeaturedImageID != nil {
			ids = append(ids, *p.FeaturedImageID)
		}
	}
	media, err := c.media.Resolve(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*model.MediaAsset, len(media))
	for _, m := range media {
		byID[m.ID] = m
	}
	for _, p := range items {
		if p.FeaturedImageID != nil {
			p.FeaturedImage = byID[*p.FeaturedImageID]
		}
	}
	return nil
}

// GetProduct возвращает продукт по ID (админка).
func (c *CatalogService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	p, err := c.products.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("ошибка получения продукта", err)
	}
	if err := c.attachFeaturedImages(ctx, []*model.Product{p}); err != nil {
		return nil, err
	}
	if p.Images, err = c.media.Resolve(ctx, p.ImageIDs); err != nil {
		return nil, err
	}
	return p, nil
}

// PublicProduct возвращает активный продукт; неактивный — ErrNotFound.
func (c *CatalogService) PublicProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := c.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ErrNotFound
	}
	return p, nil
}

// SaveProduct создаёт продукт (id == "") или обновляет существующий.
func (c *CatalogService) SaveProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	p := &model.Product{
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Price:          in.Price,
		Sizes:          cleanList(in.Sizes),
		ImageIDs:       cleanIDs(in.ImageIDs),
		SEOTitle:       strings.TrimSpace(in.SEOTitle),
		SEODescription: strings.TrimSpace(in.SEODescription),
		Active:         in.Active,
	}
	if p.Name == "" || p.Description == "" {
		return nil, newValidationError("Name and description are required.")
	}
	if p.Price != nil && *p.Price < 0 {
		return nil, newValidationError("Price cannot be negative.")
	}
	if fid := strings.TrimSpace(in.FeaturedImageID); fid != "" {
		if !validID(fid) {
			return nil, newValidationError("Invalid featured image.")
		}
		p.FeaturedImageID = &fid
	}

	if id == "" {
		if err := c.products.Create(ctx, p); err != nil {
			return nil, storeError("ошибка создания продукта", err)
		}
		c.logger.Info("Продукт создан", slog.String("id", p.ID), slog.String("name", p.Name))
		return p, nil
	}

	if !validID(id) {
		return nil, ErrNotFound
	}
	p.ID = id
	if err := c.products.Update(ctx, p); err != nil {
		return nil, storeError("ошибка обновления продукта", err)
	}
	c.logger.Info("Продукт обновлён", slog.String("id", p.ID))
	return p, nil
}

// DeleteProduct удаляет продукт.
func (c *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := c.products.Delete(ctx, id); err != nil {
		return storeError("ошибка удаления продукта", err)
	}
	c.logger.Info("Продукт удалён", slog.String("id", id))
	return nil
}

// cleanList обрезает пробелы и убирает пустые элементы.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanIDs оставляет только корректные UUID.
func cleanIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, id := range cleanList(in) {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}
