package model

import "time"

// Service — услуга компании.
// Хранится в таблице services.
type Service struct {
	ID          string
	Name        string
	Description string
	// Icon — имя иконки Bootstrap Icons
	Icon     string
	Featured bool
	Order    int
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Project — проект портфолио.
// Хранится в таблице projects.
type Project struct {
	ID          string
	Title       string
	Description string
	// ImageIDs — ссылки на MediaAsset в порядке отображения
	ImageIDs []string
	// Images — заполняется сервисом по ImageIDs (только найденные)
	Images   []*MediaAsset
	Featured bool
	Order    int

	SEOTitle       string
	SEODescription string
	Active         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product — продукт каталога.
// Хранится в таблице products.
type Product struct {
	ID          string
	Name        string
	Description string
	// Price — nil, если цена не указана
	Price *float64
	Sizes []string

	FeaturedImageID *string
	// FeaturedImage — заполняется сервисом
	FeaturedImage *MediaAsset
	ImageIDs      []string
	// Images — заполняется сервисом по ImageIDs
	Images []*MediaAsset

	SEOTitle       string
	SEODescription string
	Active         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MetaDescription возвращает SEO-описание продукта или первые 160
// символов описания.
func (p *Product) MetaDescription() string {
	if p.SEODescription != "" {
		return p.SEODescription
	}
	r := []rune(p.Description)
	if len(r) > 160 {
		r = r[:160]
	}
	return string(r)
}

// MetaTitle возвращает SEO-заголовок продукта или его название.
func (p *Product) MetaTitle() string {
	if p.SEOTitle != "" {
		return p.SEOTitle
	}
	return p.Name
}

// DashboardStats — счётчики для главной страницы админки.
type DashboardStats struct {
	TotalInquiries  int
	UnreadInquiries int
	ActiveProducts  int
	ActiveServices  int
	ActiveProjects  int
	MediaCount      int
}
