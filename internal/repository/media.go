package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/love4code/poolnplay/internal/domain/model"
)

// MediaRepository — интерфейс CRUD для таблицы media_assets.
type MediaRepository interface {
	// Create сохраняет запись медиа, назначая ID и временные метки.
	Create(ctx context.Context, m *model.MediaAsset) error
	// GetByID возвращает медиа со всеми вариантами.
	GetByID(ctx context.Context, id string) (*model.MediaAsset, error)
	// GetByIDs возвращает найденные медиа в порядке ids. Отсутствующие пропускаются.
	GetByIDs(ctx context.Context, ids []string) ([]*model.MediaAsset, error)
	// List возвращает последние медиа (только thumbnail), новые первыми.
	List(ctx context.Context, limit int) ([]*model.MediaAsset, error)
	// UpdateAlt меняет альтернативный текст.
	UpdateAlt(ctx context.Context, id, alt string) error
	// Delete удаляет медиа. Ссылки на него из других записей не трогаются.
	Delete(ctx context.Context, id string) error
	// Count возвращает количество медиа.
	Count(ctx context.Context) (int, error)
}

// mediaRepo — реализация MediaRepository.
type mediaRepo struct {
	db DBTX
}

// NewMediaRepository создаёт репозиторий медиа.
func NewMediaRepository(db DBTX) MediaRepository {
	return &mediaRepo{db: db}
}

const mediaColumns = `id, filename, original_name, mime_type,
	large, medium, thumbnail, width, height,
	large_size, medium_size, thumbnail_size, alt, created_at, updated_at`

func scanMedia(row pgx.Row) (*model.MediaAsset, error) {
	m := &model.MediaAsset{}
	err := row.Scan(
		&m.ID, &m.Filename, &m.OriginalName, &m.MimeType,
		&m.Large, &m.Medium, &m.Thumbnail, &m.Width, &m.Height,
		&m.LargeSize, &m.MediumSize, &m.ThumbnailSize, &m.Alt, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *mediaRepo) Create(ctx context.Context, m *model.MediaAsset) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO media_assets (id, filename, original_name, mime_type,
			large, medium, thumbnail, width, height,
			large_size, medium_size, thumbnail_size, alt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		m.ID, m.Filename, m.OriginalName, m.MimeType,
		m.Large, m.Medium, m.Thumbnail, m.Width, m.Height,
		m.LargeSize, m.MediumSize, m.ThumbnailSize, m.Alt,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: медиа %s уже существует", ErrConflict, m.ID)
		}
		return fmt.Errorf("ошибка создания медиа: %w", err)
	}
	return nil
}

func (r *mediaRepo) GetByID(ctx context.Context, id string) (*model.MediaAsset, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_assets WHERE id = $1`

	m, err := scanMedia(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения медиа: %w", err)
	}
	return m, nil
}

func (r *mediaRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.MediaAsset, error) {
	if len(ids) == 0 {
		return []*model.MediaAsset{}, nil
	}

	query := `SELECT ` + mediaColumns + ` FROM media_assets WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения медиа по списку: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*model.MediaAsset, len(ids))
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования медиа: %w", err)
		}
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения медиа: %w", err)
	}

	// Сохраняем порядок ids
	result := make([]*model.MediaAsset, 0, len(byID))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *mediaRepo) List(ctx context.Context, limit int) ([]*model.MediaAsset, error) {
	query := `
		SELECT id, filename, original_name, mime_type, thumbnail, width, height,
			large_size, medium_size, thumbnail_size, alt, created_at, updated_at
		FROM media_assets
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка медиа: %w", err)
	}
	defer rows.Close()

	result := []*model.MediaAsset{}
	for rows.Next() {
		m := &model.MediaAsset{}
		if err := rows.Scan(
			&m.ID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Thumbnail, &m.Width, &m.Height,
			&m.LargeSize, &m.MediumSize, &m.ThumbnailSize, &m.Alt, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования медиа: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *mediaRepo) UpdateAlt(ctx context.Context, id, alt string) error {
	query := `UPDATE media_assets SET alt = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, alt)
	if err != nil {
		return fmt.Errorf("ошибка обновления alt медиа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mediaRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM media_assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления медиа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mediaRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM media_assets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта медиа: %w", err)
	}
	return count, nil
}
