package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/love4code/poolnplay/internal/domain/model"
)

// settingsKey — фиксированный ключ единственной строки site_settings.
const settingsKey = "site"

// SettingsRepository — доступ к единственной записи site_settings.
type SettingsRepository interface {
	// GetOrCreate возвращает настройки, создавая запись со значениями
	// по умолчанию при первом обращении. Конкурентные вызовы получают
	// одну и ту же запись.
	GetOrCreate(ctx context.Context) (*model.Settings, error)
	// Update сохраняет все поля настроек (upsert). ID существующей записи не меняется.
	Update(ctx context.Context, s *model.Settings) error
}

// settingsRepo — реализация SettingsRepository.
type settingsRepo struct {
	db DBTX
}

// NewSettingsRepository создаёт репозиторий настроек сайта.
func NewSettingsRepository(db DBTX) SettingsRepository {
	return &settingsRepo{db: db}
}

const settingsColumns = `id, company_name, address, phone, email,
	facebook, instagram, twitter, linkedin, youtube,
	theme, primary_color, secondary_color, hero_image_id,
	seo_title, seo_description, created_at, updated_at`

func scanSettings(row pgx.Row) (*model.Settings, error) {
	s := &model.Settings{}
	err := row.Scan(
		&s.ID, &s.CompanyName, &s.Address, &s.Phone, &s.Email,
		&s.Social.Facebook, &s.Social.Instagram, &s.Social.Twitter, &s.Social.LinkedIn, &s.Social.YouTube,
		&s.Theme, &s.PrimaryColor, &s.SecondaryColor, &s.HeroImageID,
		&s.SEOTitle, &s.SEODescription, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetOrCreate — один атомарный upsert: пустой DO UPDATE возвращает
// существующую строку, если она уже есть.
func (r *settingsRepo) GetOrCreate(ctx context.Context) (*model.Settings, error) {
	query := `
		INSERT INTO site_settings (singleton_key, id)
		VALUES ($1, $2)
		ON CONFLICT (singleton_key) DO UPDATE
		SET singleton_key = EXCLUDED.singleton_key
		RETURNING ` + settingsColumns

	s, err := scanSettings(r.db.QueryRow(ctx, query, settingsKey, uuid.New().String()))
	if err != nil {
		return nil, fmt.Errorf("ошибка получения настроек сайта: %w", err)
	}
	return s, nil
}

func (r *settingsRepo) Update(ctx context.Context, s *model.Settings) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO site_settings (singleton_key, id, company_name, address, phone, email,
			facebook, instagram, twitter, linkedin, youtube,
			theme, primary_color, secondary_color, hero_image_id,
			seo_title, seo_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (singleton_key) DO UPDATE
		SET company_name = EXCLUDED.company_name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			facebook = EXCLUDED.facebook,
			instagram = EXCLUDED.instagram,
			twitter = EXCLUDED.twitter,
			linkedin = EXCLUDED.linkedin,
			youtube = EXCLUDED.youtube,
			theme = EXCLUDED.theme,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			hero_image_id = EXCLUDED.hero_image_id,
			seo_title = EXCLUDED.seo_title,
			seo_description = EXCLUDED.seo_description,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		settingsKey, s.ID, s.CompanyName, s.Address, s.Phone, s.Email,
		s.Social.Facebook, s.Social.Instagram, s.Social.Twitter, s.Social.LinkedIn, s.Social.YouTube,
		s.Theme, s.PrimaryColor, s.SecondaryColor, s.HeroImageID,
		s.SEOTitle, s.SEODescription,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения настроек сайта: %w", err)
	}
	return nil
}
