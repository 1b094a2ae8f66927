// inquiry.go — POST /inquiry: форма обратной связи сайта.
// Принимает JSON или form-urlencoded, отвечает {"success", "message"}.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/service"
)

// maxInquiryBody — ограничение размера тела заявки.
const maxInquiryBody = 64 << 10

// Сообщения при ошибках, не связанных с валидацией.
const (
	msgUnavailable = "We are temporarily unable to accept inquiries. Please try again later."
	msgInternal    = "An error occurred. Please try again later."
)

// InquirySubmitter — приём заявки (service.InquiryService).
type InquirySubmitter interface {
	Submit(ctx context.Context, in service.SubmitInquiryInput) (*model.Inquiry, error)
}

// InquiryHandler — обработчик формы заявки.
type InquiryHandler struct {
	inquiries InquirySubmitter
	logger    *slog.Logger
}

// NewInquiryHandler создаёт обработчик заявок.
func NewInquiryHandler(inquiries InquirySubmitter, logger *slog.Logger) *InquiryHandler {
	return &InquiryHandler{
		inquiries: inquiries,
		logger:    logger.With(slog.String("component", "inquiry_handler")),
	}
}

// inquiryResponse — тело ответа формы.
type inquiryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// inquiryRequest — JSON-тело заявки.
type inquiryRequest struct {
	Name      string     `json:"name"`
	Town      string     `json:"town"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Service   string     `json:"service"`
	PoolSizes stringList `json:"poolSizes"`
	Message   string     `json:"message"`
	ProductID string     `json:"productId"`
}

// stringList принимает как строку, так и массив строк.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one != "" {
			*s = stringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// Submit — POST /inquiry.
func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInquiryBody)

	in, err := decodeInquiry(r)
	if err != nil {
		h.logger.Debug("Некорректное тело заявки", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, inquiryResponse{Message: service.MsgRequiredFields})
		return
	}

	if _, err := h.inquiries.Submit(r.Context(), in); err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, inquiryResponse{Message: verr.Message})
		case errors.Is(err, service.ErrStoreUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, inquiryResponse{Message: msgUnavailable})
		default:
			h.logger.Error("Ошибка приёма заявки", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, inquiryResponse{Message: msgInternal})
		}
		return
	}

	writeJSON(w, http.StatusOK, inquiryResponse{Success: true, Message: service.MsgInquiryAccepted})
}

// decodeInquiry разбирает JSON или форму в зависимости от Content-Type.
func decodeInquiry(r *http.Request) (service.SubmitInquiryInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req inquiryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return service.SubmitInquiryInput{}, err
		}
		return service.SubmitInquiryInput{
			Name:      req.Name,
			Town:      req.Town,
			Phone:     req.Phone,
			Email:     req.Email,
			Service:   req.Service,
			PoolSizes: req.PoolSizes,
			Message:   req.Message,
			ProductID: req.ProductID,
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return service.SubmitInquiryInput{}, err
	}
	sizes := r.PostForm["poolSizes"]
	if len(sizes) == 0 {
		sizes = r.PostForm["poolSizes[]"]
	}
	return service.SubmitInquiryInput{
		Name:      r.PostForm.Get("name"),
		Town:      r.PostForm.Get("town"),
		Phone:     r.PostForm.Get("phone"),
		Email:     r.PostForm.Get("email"),
		Service:   r.PostForm.Get("service"),
		PoolSizes: sizes,
		Message:   r.PostForm.Get("message"),
		ProductID: r.PostForm.Get("productId"),
	}, nil
}
