package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/love4code/poolnplay/internal/domain/model"
)

// InquiryRepository — интерфейс для таблицы inquiries.
type InquiryRepository interface {
	// Create сохраняет заявку, назначая ID и created_at.
	Create(ctx context.Context, inq *model.Inquiry) error
	// List возвращает последние заявки с названием продукта.
	List(ctx context.Context, limit int) ([]*model.Inquiry, error)
	// MarkRead помечает заявку прочитанной.
	MarkRead(ctx context.Context, id string) error
	// Delete удаляет заявку.
	Delete(ctx context.Context, id string) error
	// Count возвращает общее количество заявок и количество непрочитанных.
	Count(ctx context.Context) (total, unread int, err error)
}

// inquiryRepo — реализация InquiryRepository.
type inquiryRepo struct {
	db DBTX
}

// NewInquiryRepository создаёт репозиторий заявок.
func NewInquiryRepository(db DBTX) InquiryRepository {
	return &inquiryRepo{db: db}
}

func (r *inquiryRepo) Create(ctx context.Context, inq *model.Inquiry) error {
	if inq.ID == "" {
		inq.ID = uuid.New().String()
	}

	query := `
		INSERT INTO inquiries (id, name, town, phone, email, service,
			pool_sizes, message, product_id, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		inq.ID, inq.Name, inq.Town, inq.Phone, inq.Email, inq.Service,
		nonNil(inq.PoolSizes), inq.Message, inq.ProductID, inq.Read,
	).Scan(&inq.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return nil
}

func (r *inquiryRepo) List(ctx context.Context, limit int) ([]*model.Inquiry, error) {
	query := `
		SELECT i.id, i.name, i.town, i.phone, i.email, i.service,
			i.pool_sizes, i.message, i.product_id, p.name, i.read, i.created_at
		FROM inquiries i
		LEFT JOIN products p ON p.id = i.product_id
		ORDER BY i.created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	result := []*model.Inquiry{}
	for rows.Next() {
		inq := &model.Inquiry{}
		if err := rows.Scan(
			&inq.ID, &inq.Name, &inq.Town, &inq.Phone, &inq.Email, &inq.Service,
			&inq.PoolSizes, &inq.Message, &inq.ProductID, &inq.ProductName, &inq.Read, &inq.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
		}
		inq.PoolSizes = nonNil(inq.PoolSizes)
		result = append(result, inq)
	}
	return result, rows.Err()
}

func (r *inquiryRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE inquiries SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка отметки заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inquiryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inquiryRepo) Count(ctx context.Context) (total, unread int, err error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT read) FROM inquiries`

	if err := r.db.QueryRow(ctx, query).Scan(&total, &unread); err != nil {
		return 0, 0, fmt.Errorf("ошибка подсчёта заявок: %w", err)
	}
	return total, unread, nil
}
