// Пакет repository — слой доступа к данным PostgreSQL.
// Все запросы — чистый SQL через pgx, без ORM.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — конфликт уникальности (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — запись уже существует")
	// ErrUnavailable — хранилище недоступно (нет соединения или истёк таймаут).
	ErrUnavailable = errors.New("хранилище недоступно")
)

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WithTimeout оборачивает DBTX: каждый запрос ограничен timeout,
// а ошибки соединения оборачиваются в ErrUnavailable.
func WithTimeout(db DBTX, timeout time.Duration) DBTX {
	return &timeoutDB{db: db, timeout: timeout}
}

type timeoutDB struct {
	db      DBTX
	timeout time.Duration
}

func (t *timeoutDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	tag, err := t.db.Exec(ctx, sql, args...)
	return tag, classify(err)
}

func (t *timeoutDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)

	rows, err := t.db.Query(ctx, sql, args...)
	if err != nil {
		cancel()
		return nil, classify(err)
	}
	return &timeoutRows{Rows: rows, cancel: cancel}, nil
}

func (t *timeoutDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	return &timeoutRow{row: t.db.QueryRow(ctx, sql, args...), cancel: cancel}
}

// timeoutRows освобождает контекст запроса при Close.
type timeoutRows struct {
	pgx.Rows
	cancel context.CancelFunc
}

func (r *timeoutRows) Close() {
	r.Rows.Close()
	r.cancel()
}

func (r *timeoutRows) Err() error {
	return classify(r.Rows.Err())
}

// timeoutRow освобождает контекст запроса после Scan.
type timeoutRow struct {
	row    pgx.Row
	cancel context.CancelFunc
}

func (r *timeoutRow) Scan(dest ...any) error {
	defer r.cancel()
	return classify(r.row.Scan(dest...))
}

// classify добавляет ErrUnavailable к ошибкам соединения и таймаутам,
// сохраняя исходную цепочку для errors.Is.
func classify(err error) error {
	if err == nil || !isUnavailable(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// isUnavailable сообщает, вызвана ли ошибка недоступностью PostgreSQL.
func isUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// TxRunner позволяет выполнять операции в транзакции.
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxRunner создаёт TxRunner для управления транзакциями.
// timeout ограничивает всю транзакцию целиком.
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, timeout: timeout}
}

// RunInTx выполняет fn внутри транзакции.
// При ошибке fn — транзакция откатывается.
// При успехе — коммитится.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", classify(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck // откат после коммита — no-op

	if err := fn(tx); err != nil {
		return classify(err)
	}

	return classify(tx.Commit(ctx))
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникальности PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// nonNil возвращает пустой срез вместо nil (для колонок TEXT[] NOT NULL).
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
