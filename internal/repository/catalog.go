package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/love4code/poolnplay/internal/domain/model"
)

// ListFilter — фильтры списков каталога.
type ListFilter struct {
	// ActiveOnly — только active = true
	ActiveOnly bool
	// FeaturedOnly — только featured = true (services, projects)
	FeaturedOnly bool
	// Limit — максимум записей, 0 — без ограничения
	Limit int
}

// buildListWhere строит WHERE и LIMIT по фильтру.
func buildListWhere(f ListFilter, withFeatured bool) (where, limit string, args []any) {
	var conditions []string
	if f.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	}
	if f.FeaturedOnly && withFeatured {
		conditions = append(conditions, "featured = TRUE")
	}
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	if f.Limit > 0 {
		limit = "LIMIT $1"
		args = append(args, f.Limit)
	}
	return where, limit, args
}

// --- Services ---

// ServiceRepository — интерфейс CRUD для таблицы services.
type ServiceRepository interface {
	Create(ctx context.Context, s *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	// List возвращает услуги по sort_order ASC, created_at DESC.
	List(ctx context.Context, f ListFilter) ([]*model.Service, error)
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id string) error
	// CountActive возвращает количество активных услуг.
	CountActive(ctx context.Context) (int, error)
}

type serviceRepo struct {
	db DBTX
}

// NewServiceRepository создаёт репозиторий услуг.
func NewServiceRepository(db DBTX) ServiceRepository {
	return &serviceRepo{db: db}
}

const serviceColumns = `id, name, description, icon, featured, sort_order, active, created_at, updated_at`

func scanService(row pgx.Row) (*model.Service, error) {
	s := &model.Service{}
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Icon, &s.Featured, &s.Order, &s.Active,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *serviceRepo) Create(ctx context.Context, s *model.Service) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO services (id, name, description, icon, featured, sort_order, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Name, s.Description, s.Icon, s.Featured, s.Order, s.Active,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: услуга %s уже существует", ErrConflict, s.ID)
		}
		return fmt.Errorf("ошибка создания услуги: %w", err)
	}
	return nil
}

func (r *serviceRepo) GetByID(ctx context.Context, id string) (*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	s, err := scanService(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения услуги: %w", err)
	}
	return s, nil
}

func (r *serviceRepo) List(ctx context.Context, f ListFilter) ([]*model.Service, error) {
	where, limit, args := buildListWhere(f, true)
	query := fmt.Sprintf(`SELECT %s FROM services %s ORDER BY sort_order ASC, created_at DESC %s`,
		serviceColumns, where, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка услуг: %w", err)
	}
	defer rows.Close()

	result := []*model.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования услуги: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *serviceRepo) Update(ctx context.Context, s *model.Service) error {
	query := `
		UPDATE services
		SET name = $2, description = $3, icon = $4, featured = $5,
			sort_order = $6, active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Name, s.Description, s.Icon, s.Featured, s.Order, s.Active,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления услуги: %w", err)
	}
	return nil
}

func (r *serviceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления услуги: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *serviceRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services WHERE active`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта услуг: %w", err)
	}
	return count, nil
}

// --- Projects ---

// ProjectRepository — интерфейс CRUD для таблицы projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// List возвращает проекты по sort_order ASC, created_at DESC.
	List(ctx context.Context, f ListFilter) ([]*model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int, error)
}

type projectRepo struct {
	db DBTX
}

// NewProjectRepository создаёт репозиторий проектов портфолио.
func NewProjectRepository(db DBTX) ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `id, title, description, image_ids, featured, sort_order,
	seo_title, seo_description, active, created_at, updated_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	p := &model.Project{}
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageIDs, &p.Featured, &p.Order,
		&p.SEOTitle, &p.SEODescription, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	p.ImageIDs = nonNil(p.ImageIDs)
	return p, err
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO projects (id, title, description, image_ids, featured, sort_order,
			seo_title, seo_description, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Title, p.Description, nonNil(p.ImageIDs), p.Featured, p.Order,
		p.SEOTitle, p.SEODescription, p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: проект %s уже существует", ErrConflict, p.ID)
		}
		return fmt.Errorf("ошибка создания проекта: %w", err)
	}
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения проекта: %w", err)
	}
	return p, nil
}

func (r *projectRepo) List(ctx context.Context, f ListFilter) ([]*model.Project, error) {
	where, limit, args := buildListWhere(f, true)
	query := fmt.Sprintf(`SELECT %s FROM projects %s ORDER BY sort_order ASC, created_at DESC %s`,
		projectColumns, where, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка проектов: %w", err)
	}
	defer rows.Close()

	result := []*model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования проекта: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) error {
	query := `
		UPDATE projects
		SET title = $2, description = $3, image_ids = $4, featured = $5, sort_order = $6,
			seo_title = $7, seo_description = $8, active = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Title, p.Description, nonNil(p.ImageIDs), p.Featured, p.Order,
		p.SEOTitle, p.SEODescription, p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления проекта: %w", err)
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления проекта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE active`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта проектов: %w", err)
	}
	return count, nil
}

// --- Products ---

// ProductRepository — интерфейс CRUD для таблицы products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	// List возвращает продукты, новые первыми. FeaturedOnly игнорируется.
	List(ctx context.Context, f ListFilter) ([]*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int, error)
}

type productRepo struct {
	db DBTX
}

// NewProductRepository создаёт репозиторий продуктов.
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, name, description, price, sizes, featured_image_id, image_ids,
	seo_title, seo_description, active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Sizes, &p.FeaturedImageID, &p.ImageIDs,
		&p.SEOTitle, &p.SEODescription, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	p.Sizes = nonNil(p.Sizes)
	p.ImageIDs = nonNil(p.ImageIDs)
	return p, err
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO products (id, name, description, price, sizes, featured_image_id, image_ids,
			seo_title, seo_description, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Price, nonNil(p.Sizes), p.FeaturedImageID, nonNil(p.ImageIDs),
		p.SEOTitle, p.SEODescription, p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: продукт %s уже существует", ErrConflict, p.ID)
		}
		return fmt.Errorf("ошибка создания продукта: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения продукта: %w", err)
	}
	return p, nil
}

func (r *productRepo) List(ctx context.Context, f ListFilter) ([]*model.Product, error) {
	where, limit, args := buildListWhere(f, false)
	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_at DESC %s`,
		productColumns, where, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка продуктов: %w", err)
	}
	defer rows.Close()

	result := []*model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования продукта: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, sizes = $5, featured_image_id = $6,
			image_ids = $7, seo_title = $8, seo_description = $9, active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Price, nonNil(p.Sizes), p.FeaturedImageID, nonNil(p.ImageIDs),
		p.SEOTitle, p.SEODescription, p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления продукта: %w", err)
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления продукта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE active`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта продуктов: %w", err)
	}
	return count, nil
}
