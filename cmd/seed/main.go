// Команда seed заполняет пустую базу Pool N Play демонстрационными данными:
// настройками компании, услугами, продуктами и проектами портфолио.
// Таблицы, в которых уже есть записи, не трогаются.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/love4code/poolnplay/internal/config"
	"github.com/love4code/poolnplay/internal/database"
	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/repository"
	"github.com/love4code/poolnplay/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// Без БД заполнять нечего
	cfg.DBRequired = true
	logger := config.SetupLogger(cfg)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Ошибка заполнения БД", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Заполнение БД завершено",
		slog.String("admin_url", fmt.Sprintf("http://localhost:%d/admin/login", cfg.Port)),
	)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := database.Migrate(cfg, logger); err != nil {
		return fmt.Errorf("миграции: %w", err)
	}
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("подключение: %w", err)
	}
	defer pool.Close()

	db := repository.WithTimeout(pool, cfg.StoreTimeout)
	serviceRepo := repository.NewServiceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	productRepo := repository.NewProductRepository(db)
	mediaSvc := service.NewMediaService(repository.NewMediaRepository(db),
		repository.NewTxRunner(pool, cfg.StoreTimeout),
		service.UploadLimits{MaxFiles: cfg.UploadMaxFiles, MaxBytes: cfg.UploadMaxBytes}, logger)
	settingsSvc := service.NewSettingsService(repository.NewSettingsRepository(db), 0, logger)
	catalog := service.NewCatalogService(serviceRepo, projectRepo, productRepo, mediaSvc, logger)

	if err := seedSettings(ctx, settingsSvc, logger); err != nil {
		return err
	}
	if err := seedServices(ctx, catalog, serviceRepo, logger); err != nil {
		return err
	}
	if err := seedProducts(ctx, catalog, productRepo, logger); err != nil {
		return err
	}
	return seedProjects(ctx, catalog, projectRepo, logger)
}

func seedSettings(ctx context.Context, svc *service.SettingsService, logger *slog.Logger) error {
	current, err := svc.Get(ctx)
	if err != nil {
		return fmt.Errorf("настройки: %w", err)
	}
	if current.Address != "" || current.CompanyName != model.DefaultCompanyName {
		logger.Info("Настройки уже заполнены")
		return nil
	}
	_, err = svc.Update(ctx, service.SettingsInput{
		CompanyName:    model.DefaultCompanyName,
		Address:        "123 Pool Street, Water City, ST 12345",
		Phone:          "(555) 123-4567",
		Email:          "info@poolnplay.com",
		Social:         current.Social,
		Theme:          current.Theme,
		PrimaryColor:   current.PrimaryColor,
		SecondaryColor: current.SecondaryColor,
		SEOTitle:       model.DefaultSEOTitle,
		SEODescription: "Expert pool installation, liner replacement, and pool services. Quality above-ground pools and professional service.",
	})
	if err != nil {
		return fmt.Errorf("настройки: %w", err)
	}
	logger.Info("Настройки созданы")
	return nil
}

func seedServices(ctx context.Context, catalog *service.CatalogService, repo repository.ServiceRepository, logger *slog.Logger) error {
	existing, err := repo.List(ctx, repository.ListFilter{})
	if err != nil {
		return fmt.Errorf("услуги: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Услуги уже есть", slog.Int("count", len(existing)))
		return nil
	}

	items := []service.ServiceInput{
		{Name: "Pool Installation", Description: "Professional above-ground pool installation with expert craftsmanship and attention to detail.", Icon: "bi-water", Featured: true, Order: 1, Active: true},
		{Name: "Liner Replacement", Description: "Quality liner replacement services to keep your pool looking fresh and leak-free.", Icon: "bi-palette", Featured: true, Order: 2, Active: true},
		{Name: "Pool Maintenance", Description: "Regular maintenance and service calls to keep your pool in perfect condition year-round.", Icon: "bi-tools", Featured: true, Order: 3, Active: true},
		{Name: "Pool Repair", Description: "Expert repair services for all types of pool issues and equipment problems.", Icon: "bi-wrench", Order: 4, Active: true},
	}
	for _, in := range items {
		if _, err := catalog.SaveService(ctx, "", in); err != nil {
			return fmt.Errorf("услуга %q: %w", in.Name, err)
		}
	}
	logger.Info("Услуги созданы", slog.Int("count", len(items)))
	return nil
}

func seedProducts(ctx context.Context, catalog *service.CatalogService, repo repository.ProductRepository, logger *slog.Logger) error {
	existing, err := repo.List(ctx, repository.ListFilter{})
	if err != nil {
		return fmt.Errorf("продукты: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Продукты уже есть", slog.Int("count", len(existing)))
		return nil
	}

	price := func(v float64) *float64 { return &v }
	items := []service.ProductInput{
		{
			Name:           "Classic Above Ground Pool",
			Description:    "Our most popular above-ground pool model, perfect for families. Features durable construction and easy maintenance. Available in multiple sizes to fit your backyard.",
			Price:          price(2499.99),
			Sizes:          []string{"12x24", "15x30", "18x36", "21x41"},
			SEOTitle:       "Classic Above Ground Pool - Pool N Play",
			SEODescription: "Quality above-ground pool in multiple sizes. Perfect for families looking for an affordable pool solution.",
			Active:         true,
		},
		{
			Name:           "Premium Pool Package",
			Description:    "Upgrade to our premium pool package with enhanced features including better filtration, premium liner, and extended warranty. The ultimate pool experience.",
			Price:          price(3499.99),
			Sizes:          []string{"15x30", "18x36", "21x41", "24x48"},
			SEOTitle:       "Premium Pool Package - Pool N Play",
			SEODescription: "Premium above-ground pool package with enhanced features and extended warranty.",
			Active:         true,
		},
		{
			Name:           "Economy Pool",
			Description:    "Affordable pool solution without compromising on quality. Great for smaller spaces and budget-conscious customers.",
			Price:          price(1799.99),
			Sizes:          []string{"12x24", "15x30"},
			SEOTitle:       "Economy Above Ground Pool - Pool N Play",
			SEODescription: "Affordable above-ground pool perfect for smaller spaces and budget-conscious customers.",
			Active:         true,
		},
	}
	for _, in := range items {
		if _, err := catalog.SaveProduct(ctx, "", in); err != nil {
			return fmt.Errorf("продукт %q: %w", in.Name, err)
		}
	}
	logger.Info("Продукты созданы", slog.Int("count", len(items)))
	return nil
}

func seedProjects(ctx context.Context, catalog *service.CatalogService, repo repository.ProjectRepository, logger *slog.Logger) error {
	existing, err := repo.List(ctx, repository.ListFilter{})
	if err != nil {
		return fmt.Errorf("проекты: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Проекты уже есть", slog.Int("count", len(existing)))
		return nil
	}

	items := []service.ProjectInput{
		{Title: "Modern Family Pool Installation", Description: "Beautiful 18x36 pool installation in suburban backyard. Completed with decking and landscaping.", SEOTitle: "Modern Family Pool Installation - Pool N Play Portfolio", SEODescription: "See our completed 18x36 pool installation project with decking and landscaping."},
		{Title: "Luxury Pool Renovation", Description: "Complete pool renovation including new liner, updated filtration system, and modern accessories.", SEOTitle: "Luxury Pool Renovation - Pool N Play Portfolio", SEODescription: "Complete pool renovation project with new liner and modern filtration system."},
		{Title: "Compact Pool Solution", Description: "Perfect 12x24 pool installation for smaller yards. Maximized space with beautiful results.", SEOTitle: "Compact Pool Solution - Pool N Play Portfolio", SEODescription: "Compact 12x24 pool installation perfect for smaller yards."},
		{Title: "Premium Pool with Deck", Description: "21x41 premium pool with custom decking and premium features. A stunning backyard transformation.", SEOTitle: "Premium Pool with Deck - Pool N Play Portfolio", SEODescription: "Premium 21x41 pool installation with custom decking and premium features."},
	}
	for i, in := range items {
		in.Featured, in.Active, in.Order = true, true, i+1
		if _, err := catalog.SaveProject(ctx, "", in); err != nil {
			return fmt.Errorf("проект %q: %w", in.Title, err)
		}
	}
	logger.Info("Проекты созданы", slog.Int("count", len(items)))
	return nil
}
