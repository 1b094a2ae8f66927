package model

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/love4code/poolnplay/internal/domain/variants"
)

// MediaAsset — загруженное изображение с тремя вариантами.
// Хранится в таблице media_assets. После создания меняется только Alt.
type MediaAsset struct {
	// ID — UUID записи
	ID string
	// Filename — имя файла (совпадает с OriginalName)
	Filename string
	// OriginalName — имя файла при загрузке
	OriginalName string
	// MimeType — MIME-тип вариантов (image/jpeg)
	MimeType string

	// Large, Medium, Thumbnail — закодированные варианты (nil, если не загружены)
	Large     []byte
	Medium    []byte
	Thumbnail []byte

	// Width, Height — размеры исходного изображения
	Width  int
	Height int

	// Размеры вариантов в байтах
	LargeSize     int
	MediumSize    int
	ThumbnailSize int

	// Alt — альтернативный текст
	Alt string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMediaAsset строит запись медиа из набора вариантов.
// Alt пустой, ID и временные метки назначает хранилище.
func NewMediaAsset(set *variants.Set, filename string) *MediaAsset {
	return &MediaAsset{
		Filename:      filename,
		OriginalName:  filename,
		MimeType:      set.MimeType,
		Large:         set.Large.Data,
		Medium:        set.Medium.Data,
		Thumbnail:     set.Thumbnail.Data,
		Width:         set.Width,
		Height:        set.Height,
		LargeSize:     set.Large.Size(),
		MediumSize:    set.Medium.Size(),
		ThumbnailSize: set.Thumbnail.Size(),
	}
}

// LargeDataURL возвращает data URL варианта large или nil.
func (m *MediaAsset) LargeDataURL() *string {
	return dataURL(m.MimeType, m.Large)
}

// MediumDataURL возвращает data URL варианта medium или nil.
func (m *MediaAsset) MediumDataURL() *string {
	return dataURL(m.MimeType, m.Medium)
}

// ThumbnailDataURL возвращает data URL варианта thumbnail или nil.
func (m *MediaAsset) ThumbnailDataURL() *string {
	return dataURL(m.MimeType, m.Thumbnail)
}

// BestDataURL возвращает самый крупный из доступных вариантов.
func (m *MediaAsset) BestDataURL() *string {
	for _, u := range []*string{m.LargeDataURL(), m.MediumDataURL(), m.ThumbnailDataURL()} {
		if u != nil {
			return u
		}
	}
	return nil
}

func dataURL(mimeType string, data []byte) *string {
	if len(data) == 0 {
		return nil
	}
	s := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return &s
}

// mediaAssetJSON — JSON-представление без бинарных данных.
type mediaAssetJSON struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalName     string    `json:"originalName"`
	MimeType         string    `json:"mimeType"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	LargeSize        int       `json:"largeSize"`
	MediumSize       int       `json:"mediumSize"`
	ThumbnailSize    int       `json:"thumbnailSize"`
	Alt              string    `json:"alt"`
	LargeDataURL     *string   `json:"largeDataUrl"`
	MediumDataURL    *string   `json:"mediumDataUrl"`
	ThumbnailDataURL *string   `json:"thumbnailDataUrl"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// MarshalJSON отдаёт варианты только в виде data URL.
func (m *MediaAsset) MarshalJSON() ([]byte, error) {
	return json.Marshal(mediaAssetJSON{
		ID:               m.ID,
		Filename:         m.Filename,
		OriginalName:     m.OriginalName,
		MimeType:         m.MimeType,
		Width:            m.Width,
		Height:           m.Height,
		LargeSize:        m.LargeSize,
		MediumSize:       m.MediumSize,
		ThumbnailSize:    m.ThumbnailSize,
		Alt:              m.Alt,
		LargeDataURL:     m.LargeDataURL(),
		MediumDataURL:    m.MediumDataURL(),
		ThumbnailDataURL: m.ThumbnailDataURL(),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	})
}
