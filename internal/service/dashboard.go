// dashboard.go — счётчики главной страницы админки.
package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/repository"
)

// DashboardService собирает статистику из нескольких таблиц.
type DashboardService struct {
	inquiries repository.InquiryRepository
	services  repository.ServiceRepository
	projects  repository.ProjectRepository
	products  repository.ProductRepository
	media     repository.MediaRepository
}

// NewDashboardService создаёт сервис статистики.
func NewDashboardService(
	inquiries repository.InquiryRepository,
	services repository.ServiceRepository,
	projects repository.ProjectRepository,
	products repository.ProductRepository,
	media repository.MediaRepository,
) *DashboardService {
	return &DashboardService{
		inquiries: inquiries,
		services:  services,
		projects:  projects,
		products:  products,
		media:     media,
	}
}

// Stats возвращает счётчики. Запросы выполняются параллельно.
func (d *DashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats.TotalInquiries, stats.UnreadInquiries, err = d.inquiries.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ActiveProducts, err = d.products.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ActiveServices, err = d.services.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ActiveProjects, err = d.projects.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.MediaCount, err = d.media.Count(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, storeError("ошибка получения статистики", err)
	}
	return &stats, nil
}
