// settings.go — сервис настроек сайта.
// Читает единственную запись через SettingsRepository, кэширует её
// в expirable LRU и отдаёт последнюю известную (или значения
// по умолчанию) публичным страницам при недоступном хранилище.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/repository"
)

// Prometheus-метрики кэша настроек.
var (
	settingsCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pp_settings_cache_hits_total",
		Help: "Общее количество попаданий в кэш настроек сайта.",
	})
	settingsCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pp_settings_cache_misses_total",
		Help: "Общее количество промахов кэша настроек сайта.",
	})
	settingsFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pp_settings_fallback_total",
		Help: "Сколько раз публичные страницы получили сохранённые или дефолтные настройки из-за ошибки хранилища.",
	})
)

const settingsCacheKey = "site"

// SettingsInput — данные формы настроек.
type SettingsInput struct {
	CompanyName    string
	Address        string
	Phone          string
	Email          string
	Social         model.SocialLinks
	Theme          string
	PrimaryColor   string
	SecondaryColor string
	// HeroImageID — пустая строка снимает hero-изображение
	HeroImageID    string
	SEOTitle       string
	SEODescription string
}

// SettingsService — доступ к настройкам сайта.
type SettingsService struct {
	repo   repository.SettingsRepository
	cache  *expirable.LRU[string, *model.Settings]
	last   atomic.Pointer[model.Settings]
	logger *slog.Logger
}

// NewSettingsService создаёт сервис настроек с кэшем на ttl.
func NewSettingsService(repo repository.SettingsRepository, ttl time.Duration, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:   repo,
		cache:  expirable.NewLRU[string, *model.Settings](1, nil, ttl),
		logger: logger.With(slog.String("service", "settings")),
	}
}

// Get возвращает настройки, создавая запись по умолчанию при первом обращении.
func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	if cached, ok := s.cache.Get(settingsCacheKey); ok {
		settingsCacheHitsTotal.Inc()
		return cached, nil
	}
	settingsCacheMissesTotal.Inc()

	settings, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, storeError("ошибка получения настроек", err)
	}

	s.remember(settings)
	return settings, nil
}

// Current возвращает настройки для публичных страниц и никогда не падает:
// при ошибке хранилища — последние известные, иначе — значения по умолчанию.
func (s *SettingsService) Current(ctx context.Context) *model.Settings {
	settings, err := s.Get(ctx)
	if err == nil {
		return settings
	}

	settingsFallbackTotal.Inc()
	s.logger.Warn("Настройки недоступны, используется резервная копия",
		slog.String("error", err.Error()),
	)
	if last := s.last.Load(); last != nil {
		return last
	}
	return model.DefaultSettings()
}

// Update валидирует и сохраняет настройки.
func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (*model.Settings, error) {
	if err := validateSettings(&in); err != nil {
		return nil, err
	}

	current, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, storeError("ошибка получения настроек", err)
	}

	current.CompanyName = in.CompanyName
	current.Address = in.Address
	current.Phone = in.Phone
	current.Email = in.Email
	current.Social = in.Social
	current.Theme = in.Theme
	current.PrimaryColor = in.PrimaryColor
	current.SecondaryColor = in.SecondaryColor
	current.HeroImageID = nil
	if in.HeroImageID != "" {
		id := in.HeroImageID
		current.HeroImageID = &id
	}
	current.SEOTitle = in.SEOTitle
	current.SEODescription = in.SEODescription

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, storeError("ошибка сохранения настроек", err)
	}

	s.remember(current)
	s.logger.Info("Настройки сайта обновлены", slog.String("company", current.CompanyName))
	return current, nil
}

// Invalidate сбрасывает кэш.
func (s *SettingsService) Invalidate() {
	s.cache.Remove(settingsCacheKey)
}

func (s *SettingsService) remember(settings *model.Settings) {
	s.cache.Add(settingsCacheKey, settings)
	s.last.Store(settings)
}

// validateSettings нормализует и проверяет поля формы.
func validateSettings(in *SettingsInput) error {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.HeroImageID = strings.TrimSpace(in.HeroImageID)
	in.SEOTitle = strings.TrimSpace(in.SEOTitle)
	in.SEODescription = strings.TrimSpace(in.SEODescription)

	if in.CompanyName == "" {
		return newValidationError("Company name is required.")
	}
	if in.Theme == "" {
		in.Theme = model.DefaultTheme
	}
	if !model.ValidTheme(in.Theme) {
		return newValidationError("Unknown theme %q.", in.Theme)
	}
	if in.PrimaryColor == "" {
		in.PrimaryColor = model.DefaultPrimaryColor
	}
	if in.SecondaryColor == "" {
		in.SecondaryColor = model.DefaultSecondaryColor
	}
	if !model.ValidHexColor(in.PrimaryColor) || !model.ValidHexColor(in.SecondaryColor) {
		return newValidationError("Colors must be in #RRGGBB format.")
	}
	if in.HeroImageID != "" {
		if _, err := uuid.Parse(in.HeroImageID); err != nil {
			return newValidationError("Invalid hero image.")
		}
	}
	return nil
}

