// Пакет mail — отправка HTML-писем через SMTP (wneessen/go-mail).
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// ErrNotConfigured — SMTP не настроен, письмо не отправлено.
var ErrNotConfigured = errors.New("SMTP не настроен")

// Message — одно HTML-письмо.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender отправляет письма.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig — параметры подключения к SMTP-серверу.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Timeout — таймаут одной отправки
	Timeout time.Duration
}

// SMTPSender — отправка через SMTP с опциональным STARTTLS.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender создаёт SMTP-отправителя.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "mail")),
	}
}

// Send собирает письмо и отправляет его одним SMTP-сеансом.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(s.cfg.Timeout),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("ошибка создания SMTP-клиента: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("ошибка отправки письма: %w", err)
	}

	s.logger.Info("Письмо отправлено",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// buildMsg проверяет адреса и формирует MIME-сообщение.
func buildMsg(msg Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("некорректный адрес отправителя %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("некорректный адрес получателя %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	return m, nil
}

// NoopSender используется, когда SMTP не настроен: пишет в лог
// и возвращает ErrNotConfigured.
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender создаёт отправителя-заглушку.
func NewNoopSender(logger *slog.Logger) *NoopSender {
	return &NoopSender{logger: logger.With(slog.String("component", "mail"))}
}

func (s *NoopSender) Send(_ context.Context, msg Message) error {
	s.logger.Warn("SMTP не настроен, письмо не отправлено",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return ErrNotConfigured
}
