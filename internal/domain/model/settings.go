package model

import (
	"regexp"
	"time"
)

// Темы оформления сайта.
const (
	ThemeBlueWater    = "blue-water"
	ThemeOceanBlue    = "ocean-blue"
	ThemeTropicalBlue = "tropical-blue"
	ThemeCustom       = "custom"
)

// Значения настроек по умолчанию.
const (
	DefaultCompanyName    = "Pool N Play"
	DefaultTheme          = ThemeBlueWater
	DefaultPrimaryColor   = "#0d6efd"
	DefaultSecondaryColor = "#6c757d"
	DefaultSEOTitle       = "Pool N Play - Professional Pool Installation & Services"
	DefaultSEODescription = "Expert pool installation, liner replacement, and pool services."
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// SocialLinks — ссылки на социальные сети.
type SocialLinks struct {
	Facebook  string
	Instagram string
	Twitter   string
	LinkedIn  string
	YouTube   string
}

// Settings — глобальные настройки сайта (единственная запись).
// Хранится в таблице site_settings (singleton_key = 'site').
type Settings struct {
	// ID — UUID записи, стабилен между вызовами
	ID string

	CompanyName string
	Address     string
	Phone       string
	Email       string

	Social SocialLinks

	// Theme — одна из Theme*
	Theme          string
	PrimaryColor   string
	SecondaryColor string

	// HeroImageID — ссылка на MediaAsset (опционально)
	HeroImageID *string

	SEOTitle       string
	SEODescription string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultSettings возвращает настройки по умолчанию без идентификатора.
func DefaultSettings() *Settings {
	return &Settings{
		CompanyName:    DefaultCompanyName,
		Theme:          DefaultTheme,
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		SEOTitle:       DefaultSEOTitle,
		SEODescription: DefaultSEODescription,
	}
}

// ValidTheme проверяет допустимость темы.
func ValidTheme(theme string) bool {
	switch theme {
	case ThemeBlueWater, ThemeOceanBlue, ThemeTropicalBlue, ThemeCustom:
		return true
	}
	return false
}

// ValidHexColor проверяет формат #RRGGBB.
func ValidHexColor(c string) bool {
	return hexColorRe.MatchString(c)
}
