// inquiry.go — приём заявок с сайта.
// Заявка считается принятой только после записи в хранилище; письмо
// на операционный ящик отправляется после записи, и его ошибка
// не влияет на результат.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/mail"
	"github.com/love4code/poolnplay/internal/repository"
)

// Prometheus-метрики заявок.
var (
	inquiriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pp_inquiries_total",
		Help: "Количество заявок по результату (accepted, invalid, failed).",
	}, []string{"result"})
	inquiryMailFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pp_inquiry_mail_failures_total",
		Help: "Количество заявок, уведомление о которых не удалось отправить.",
	})
)

// InquiryListLimit — сколько заявок показывает админка.
const InquiryListLimit = 100

// Сообщения для посетителя сайта.
const (
	MsgRequiredFields  = "Please fill in all required fields."
	MsgInvalidService  = "Please select a valid service."
	MsgInquiryAccepted = "Thank you! Your inquiry has been submitted successfully."
)

// SubmitInquiryInput — данные формы заявки.
type SubmitInquiryInput struct {
	Name      string
	Town      string
	Phone     string
	Email     string
	Service   string
	PoolSizes []string
	Message   string
	ProductID string
}

// InquiryMailConfig — адреса уведомлений.
type InquiryMailConfig struct {
	From string
	To   string
}

// InquiryService — приём и администрирование заявок.
type InquiryService struct {
	repo     repository.InquiryRepository
	products repository.ProductRepository
	sender   mail.Sender
	mailCfg  InquiryMailConfig
	logger   *slog.Logger
}

// NewInquiryService создаёт сервис заявок.
func NewInquiryService(
	repo repository.InquiryRepository,
	products repository.ProductRepository,
	sender mail.Sender,
	mailCfg InquiryMailConfig,
	logger *slog.Logger,
) *InquiryService {
	return &InquiryService{
		repo:     repo,
		products: products,
		sender:   sender,
		mailCfg:  mailCfg,
		logger:   logger.With(slog.String("service", "inquiry")),
	}
}

// Submit валидирует и сохраняет заявку, затем отправляет одно уведомление.
func (s *InquiryService) Submit(ctx context.Context, in SubmitInquiryInput) (*model.Inquiry, error) {
	inq, err := normalizeInquiry(in)
	if err != nil {
		inquiriesTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	// 1. Запись в хранилище
	if err := s.repo.Create(ctx, inq); err != nil {
		inquiriesTotal.WithLabelValues("failed").Inc()
		s.logger.Error("Не удалось сохранить заявку",
			slog.String("service", inq.Service),
			slog.String("error", err.Error()),
		)
		return nil, storeError("ошибка сохранения заявки", err)
	}
	inquiriesTotal.WithLabelValues("accepted").Inc()

	// 2. Название продукта (ошибка поиска не критична)
	if inq.ProductID != nil {
		if p, err := s.products.GetByID(ctx, *inq.ProductID); err == nil {
			inq.ProductName = &p.Name
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Не удалось получить продукт для заявки",
				slog.String("product_id", *inq.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}

	// 3. Уведомление
	s.notify(ctx, inq)

	s.logger.Info("Заявка принята",
		slog.String("id", inq.ID),
		slog.String("service", inq.Service),
	)
	return inq, nil
}

// notify отправляет уведомление; ошибки только логируются и считаются.
func (s *InquiryService) notify(ctx context.Context, inq *model.Inquiry) {
	data := mail.InquiryEmail{
		Name:        inq.Name,
		Town:        inq.Town,
		Phone:       inq.Phone,
		Email:       inq.Email,
		Service:     inq.Service,
		PoolSizes:   inq.PoolSizes,
		Message:     inq.Message,
		SubmittedAt: inq.CreatedAt,
	}
	if inq.ProductName != nil {
		data.ProductName = *inq.ProductName
	}

	body, err := mail.RenderInquiry(data)
	if err == nil {
		err = s.sender.Send(ctx, mail.Message{
			From:    s.mailCfg.From,
			To:      s.mailCfg.To,
			Subject: mail.InquirySubject(inq.Service),
			HTML:    body,
		})
	}
	if err != nil {
		inquiryMailFailuresTotal.Inc()
		s.logger.Warn("Уведомление о заявке не отправлено",
			slog.String("id", inq.ID),
			slog.String("error", err.Error()),
		)
	}
}

// normalizeInquiry проверяет обязательные поля и приводит данные к форме хранения.
func normalizeInquiry(in SubmitInquiryInput) (*model.Inquiry, error) {
	inq := &model.Inquiry{
		Name:      strings.TrimSpace(in.Name),
		Town:      strings.TrimSpace(in.Town),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Service:   strings.TrimSpace(in.Service),
		Message:   strings.TrimSpace(in.Message),
		PoolSizes: []string{},
	}

	if inq.Name == "" || inq.Town == "" || inq.Phone == "" || inq.Email == "" || inq.Service == "" {
		return nil, newValidationError(MsgRequiredFields)
	}
	if !model.ValidInquiryService(inq.Service) {
		return nil, newValidationError(MsgInvalidService)
	}

	for _, size := range in.PoolSizes {
		if size = strings.TrimSpace(size); size != "" {
			inq.PoolSizes = append(inq.PoolSizes, size)
		}
	}

	// Некорректный productId не ломает заявку
	if id := strings.TrimSpace(in.ProductID); id != "" && validID(id) {
		inq.ProductID = &id
	}

	return inq, nil
}

// List возвращает последние заявки с названием продукта.
func (s *InquiryService) List(ctx context.Context) ([]*model.Inquiry, error) {
	items, err := s.repo.List(ctx, InquiryListLimit)
	if err != nil {
		return nil, storeError("ошибка получения заявок", err)
	}
	return items, nil
}

// MarkRead помечает заявку прочитанной.
func (s *InquiryService) MarkRead(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return storeError("ошибка отметки заявки", err)
	}
	return nil
}

// Delete удаляет заявку.
func (s *InquiryService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError("ошибка удаления заявки", err)
	}
	s.logger.Info("Заявка удалена", slog.String("id", id))
	return nil
}
