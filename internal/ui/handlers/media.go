// media.go — медиатека панели управления.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/love4code/poolnplay/internal/api/errors"
	"github.com/love4code/poolnplay/internal/service"
	"github.com/love4code/poolnplay/internal/ui/i18n"
	"github.com/love4code/poolnplay/internal/ui/pages"
)

// Поля multipart-формы с файлами.
var uploadFields = []string{"images", "images[]", "files"}

// uploadMemory — сколько multipart-данных держать в памяти.
const uploadMemory = 32 << 20

// MediaHandler — обработчики медиатеки.
type MediaHandler struct {
	base
	media  *service.MediaService
	limits service.UploadLimits
}

// NewMediaHandler создаёт MediaHandler.
func NewMediaHandler(site SiteSettings, media *service.MediaService, limits service.UploadLimits, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		base:   base{site: site, logger: logger.With(slog.String("component", "ui.media"))},
		media:  media,
		limits: limits,
	}
}

// HandleMediaPage — GET /admin/media.
func (h *MediaHandler) HandleMediaPage(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.List(r.Context(), service.MediaLibraryLimit)
	if err != nil {
		h.adminError(w, r, err)
		return
	}
	data := pages.MediaData{
		Page:  h.page(r, i18n.T(r.Context(), "admin.media"), "media"),
		Media: items,
	}
	h.render(w, r, http.StatusOK, pages.Media(data))
}

// HandleUpload — POST /admin/media/upload.
// Ответ: {"success": true, "media": [...]}; пакет сохраняется целиком или не сохраняется.
func (h *MediaHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// Ограничение тела: все файлы пакета плюс запас на заголовки частей
	maxBody := h.limits.MaxBytes*int64(h.limits.MaxFiles) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			apierrors.ValidationError(w, "Upload is too large")
			return
		}
		apierrors.ValidationError(w, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files, err := readUploadFiles(r.MultipartForm)
	if err != nil {
		h.logger.Warn("Ошибка чтения загруженного файла", slog.String("error", err.Error()))
		apierrors.ValidationError(w, "Invalid uploaded file")
		return
	}

	assets, err := h.media.Upload(r.Context(), files)
	if err != nil {
		h.logger.Warn("Загрузка медиа отклонена",
			slog.Int("files", len(files)),
			slog.String("error", err.Error()),
		)
		apierrors.FromService(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"media":   assets,
	})
}

// readUploadFiles читает файлы из известных полей формы в порядке отправки.
func readUploadFiles(form *multipart.Form) ([]service.UploadFile, error) {
	var files []service.UploadFile
	for _, field := range uploadFields {
		for _, fh := range form.File[field] {
			data, err := readPart(fh)
			if err != nil {
				return nil, err
			}
			files = append(files, service.UploadFile{
				Filename: fh.Filename,
				MimeType: partMimeType(fh, data),
				Data:     data,
			})
		}
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// partMimeType берёт тип из заголовка части, при его отсутствии — по содержимому.
func partMimeType(fh *multipart.FileHeader, data []byte) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
	}
	return http.DetectContentType(data)
}

// HandleDelete — DELETE /admin/media/{id}.
func (h *MediaHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.media.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromService(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleUpdateAlt — POST|PUT /admin/media/{id}/alt. Тело: JSON {"alt"} или форма.
func (h *MediaHandler) HandleUpdateAlt(w http.ResponseWriter, r *http.Request) {
	alt, err := readAlt(w, r)
	if err != nil {
		apierrors.ValidationError(w, "Invalid request body")
		return
	}
	if err := h.media.UpdateAlt(r.Context(), chi.URLParam(r, "id"), alt); err != nil {
		apierrors.FromService(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func readAlt(w http.ResponseWriter, r *http.Request) (string, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		var body struct {
			Alt string `json:"alt"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&body); err != nil {
			return "", err
		}
		return body.Alt, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostFormValue("alt"), nil
}
