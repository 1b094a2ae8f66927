package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/service"
)

// fakeSubmitter запоминает последнюю заявку и возвращает заданную ошибку.
type fakeSubmitter struct {
	got *service.SubmitInquiryInput
	err error
}

func (f *fakeSubmitter) Submit(_ context.Context, in service.SubmitInquiryInput) (*model.Inquiry, error) {
	f.got = &in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Inquiry{ID: "1"}, nil
}

func newTestInquiryHandler(sub *fakeSubmitter) *InquiryHandler {
	return NewInquiryHandler(sub, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) inquiryResponse {
	t.Helper()
	var resp inquiryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("некорректный JSON ответа: %v", err)
	}
	return resp
}

func TestInquirySubmit_JSON(t *testing.T) {
	sub := &fakeSubmitter{}
	h := newTestInquiryHandler(sub)

	body := `{"name":"Jane","town":"Springfield","phone":"555","email":"j@e.com",
		"service":"Pool Install","poolSizes":["24' Round","18x33 Oval"],"productId":"abc"}`
	req := httptest.NewRequest(http.MethodPost, "/inquiry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидается 200", w.Code)
	}
	resp := decodeResponse(t, w)
	if !resp.Success || resp.Message != service.MsgInquiryAccepted {
		t.Errorf("ответ = %+v", resp)
	}
	if sub.got == nil || sub.got.Name != "Jane" || len(sub.got.PoolSizes) != 2 || sub.got.ProductID != "abc" {
		t.Errorf("в сервис передано %+v", sub.got)
	}
}

func TestInquirySubmit_JSONSinglePoolSize(t *testing.T) {
	sub := &fakeSubmitter{}
	h := newTestInquiryHandler(sub)

	req := httptest.NewRequest(http.MethodPost, "/inquiry",
		strings.NewReader(`{"name":"J","poolSizes":"24' Round"}`))
	req.Header.Set("Content-Type", "application/json")
	h.Submit(httptest.NewRecorder(), req)

	if sub.got == nil || len(sub.got.PoolSizes) != 1 || sub.got.PoolSizes[0] != "24' Round" {
		t.Errorf("PoolSizes = %v, ожидается одно значение", sub.got)
	}
}

func TestInquirySubmit_Form(t *testing.T) {
	sub := &fakeSubmitter{}
	h := newTestInquiryHandler(sub)

	form := url.Values{
		"name":      {"Jane"},
		"town":      {"Springfield"},
		"phone":     {"555"},
		"email":     {"j@e.com"},
		"service":   {"Service Call"},
		"poolSizes": {"24' Round", "27' Round"},
		"message":   {"hello"},
	}
	req := httptest.NewRequest(http.MethodPost, "/inquiry", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидается 200", w.Code)
	}
	if sub.got.Service != "Service Call" || len(sub.got.PoolSizes) != 2 || sub.got.Message != "hello" {
		t.Errorf("в сервис передано %+v", sub.got)
	}
}

func TestInquirySubmit_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"валидация", &service.ValidationError{Message: service.MsgRequiredFields}, http.StatusBadRequest, service.MsgRequiredFields},
		{"хранилище недоступно", fmt.Errorf("%w: timeout", service.ErrStoreUnavailable), http.StatusServiceUnavailable, msgUnavailable},
		{"внутренняя ошибка", errors.New("boom"), http.StatusInternalServerError, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestInquiryHandler(&fakeSubmitter{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/inquiry", strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			h.Submit(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("статус = %d, ожидается %d", w.Code, tt.wantStatus)
			}
			resp := decodeResponse(t, w)
			if resp.Success || resp.Message != tt.wantMessage {
				t.Errorf("ответ = %+v", resp)
			}
		})
	}
}

func TestInquirySubmit_BadJSON(t *testing.T) {
	sub := &fakeSubmitter{}
	h := newTestInquiryHandler(sub)

	req := httptest.NewRequest(http.MethodPost, "/inquiry", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Submit(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("статус = %d, ожидается 400", w.Code)
	}
	if sub.got != nil {
		t.Error("сервис не должен вызываться для некорректного JSON")
	}
}
