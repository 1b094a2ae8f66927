// media.go — загрузка и управление медиатекой.
// Варианты изображений генерируются параллельно, запись пакета —
// одна транзакция: либо сохраняются все файлы, либо ни одного.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/domain/variants"
	"github.com/love4code/poolnplay/internal/repository"
)

// Prometheus-метрики загрузки медиа.
var (
	mediaUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pp_media_uploads_total",
		Help: "Количество загрузок медиа по результату (ok, rejected, failed).",
	}, []string{"result"})
	mediaFilesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pp_media_files_total",
		Help: "Количество сохранённых изображений.",
	})
	variantsDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pp_media_variants_duration_seconds",
		Help:    "Время генерации вариантов одного изображения.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)

// MediaLibraryLimit — сколько медиа показывает медиатека.
const MediaLibraryLimit = 50

// UploadFile — один файл из multipart-запроса.
type UploadFile struct {
	Filename string
	MimeType string
	Data     []byte
}

// UploadLimits — ограничения загрузки.
type UploadLimits struct {
	MaxFiles int
	MaxBytes int64
}

// TxRunner выполняет функцию в транзакции (repository.TxRunner).
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// MediaService — медиатека.
type MediaService struct {
	repo   repository.MediaRepository
	tx     TxRunner
	limits UploadLimits
	logger *slog.Logger

	// txRepo строит репозиторий поверх транзакции
	txRepo func(tx pgx.Tx) repository.MediaRepository
}

// NewMediaService создаёт сервис медиатеки.
func NewMediaService(repo repository.MediaRepository, tx TxRunner, limits UploadLimits, logger *slog.Logger) *MediaService {
	return &MediaService{
		repo:   repo,
		tx:     tx,
		limits: limits,
		logger: logger.With(slog.String("service", "media")),
		txRepo: func(tx pgx.Tx) repository.MediaRepository {
			return repository.NewMediaRepository(tx)
		},
	}
}

// Upload проверяет файлы, генерирует варианты и сохраняет пакет целиком.
func (s *MediaService) Upload(ctx context.Context, files []UploadFile) ([]*model.MediaAsset, error) {
	if err := s.validateUpload(files); err != nil {
		mediaUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// 1. Генерация вариантов параллельно
	assets := make([]*model.MediaAsset, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			set, err := variants.Generate(f.Data, f.MimeType)
			variantsDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				if errors.Is(err, variants.ErrDecode) {
					return &ImageError{Filename: f.Filename, Cause: err}
				}
				return fmt.Errorf("ошибка обработки %s: %w", f.Filename, err)
			}
			assets[i] = model.NewMediaAsset(set, f.Filename)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrDecode) {
			mediaUploadsTotal.WithLabelValues("rejected").Inc()
		} else {
			mediaUploadsTotal.WithLabelValues("failed").Inc()
		}
		return nil, err
	}

	// 2. Сохранение одной транзакцией
	err := s.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		repo := s.txRepo(tx)
		for _, a := range assets {
			if err := repo.Create(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		mediaUploadsTotal.WithLabelValues("failed").Inc()
		return nil, storeError("ошибка сохранения медиа", err)
	}

	mediaUploadsTotal.WithLabelValues("ok").Inc()
	mediaFilesTotal.Add(float64(len(assets)))
	s.logger.Info("Медиа загружены", slog.Int("count", len(assets)))
	return assets, nil
}

// validateUpload проверяет количество, размер и тип файлов.
func (s *MediaService) validateUpload(files []UploadFile) error {
	if len(files) == 0 {
		return newValidationError("No files uploaded")
	}
	if len(files) > s.limits.MaxFiles {
		return newValidationError("Too many files: at most %d per upload", s.limits.MaxFiles)
	}
	for _, f := range files {
		if int64(len(f.Data)) > s.limits.MaxBytes {
			return newValidationError("File %s exceeds the %d MB limit", f.Filename, s.limits.MaxBytes>>20)
		}
		if !strings.HasPrefix(f.MimeType, "image/") {
			return newValidationError("Only image files are allowed: %s", f.Filename)
		}
	}
	return nil
}

// List возвращает последние медиа (только thumbnail).
func (s *MediaService) List(ctx context.Context, limit int) ([]*model.MediaAsset, error) {
	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, storeError("ошибка получения медиатеки", err)
	}
	return items, nil
}

// Get возвращает медиа со всеми вариантами.
func (s *MediaService) Get(ctx context.Context, id string) (*model.MediaAsset, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("ошибка получения медиа", err)
	}
	return m, nil
}

// Resolve возвращает существующие медиа по списку ID в исходном порядке.
// Некорректные и удалённые ID пропускаются.
func (s *MediaService) Resolve(ctx context.Context, ids []string) ([]*model.MediaAsset, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []*model.MediaAsset{}, nil
	}
	items, err := s.repo.GetByIDs(ctx, valid)
	if err != nil {
		return nil, storeError("ошибка получения медиа", err)
	}
	return items, nil
}

// UpdateAlt меняет альтернативный текст.
func (s *MediaService) UpdateAlt(ctx context.Context, id, alt string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := s.repo.UpdateAlt(ctx, id, strings.TrimSpace(alt)); err != nil {
		return storeError("ошибка обновления alt", err)
	}
	return nil
}

// Delete удаляет медиа. Ссылки из проектов, продуктов и настроек остаются.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError("ошибка удаления медиа", err)
	}
	s.logger.Info("Медиа удалено", slog.String("id", id))
	return nil
}

// Count возвращает количество медиа.
func (s *MediaService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, storeError("ошибка подсчёта медиа", err)
	}
	return n, nil
}

// validID проверяет формат UUID.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
