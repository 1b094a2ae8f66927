// Пакет variants — генерация трёх JPEG-вариантов загруженного изображения:
// large (до 1920px), medium (до 800px) и thumbnail (ровно 300×300).
package variants

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	// Декодеры стандартной библиотеки
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	// Дополнительные декодеры
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// OutputMimeType — MIME-тип всех вариантов.
const OutputMimeType = "image/jpeg"

// Параметры вариантов.
const (
	LargeMaxSide  = 1920
	MediumMaxSide = 800
	ThumbnailSide = 300

	LargeQuality     = 85
	MediumQuality    = 80
	ThumbnailQuality = 75
)

// MaxPixels — предельная площадь исходного изображения (50 Мп).
const MaxPixels = 50_000_000

// ErrDecode — входные данные не удалось декодировать как изображение.
var ErrDecode = errors.New("не удалось декодировать изображение")

// DecodeError описывает ошибку декодирования с исходной причиной.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return ErrDecode.Error()
	}
	return fmt.Sprintf("%s: %v", ErrDecode.Error(), e.Cause)
}

// Is позволяет сравнивать через errors.Is(err, ErrDecode).
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Variant — один закодированный вариант изображения.
type Variant struct {
	Data   []byte
	Width  int
	Height int
}

// Size возвращает размер закодированных данных в байтах.
func (v Variant) Size() int {
	return len(v.Data)
}

// Set — результат генерации: три варианта и размеры исходника.
type Set struct {
	// MimeType — всегда image/jpeg
	MimeType string
	// Width, Height — размеры исходного изображения
	Width  int
	Height int

	Large     Variant
	Medium    Variant
	Thumbnail Variant
}

// Generate декодирует raw и строит три варианта.
// mimeType — заявленный тип загрузки, используется только в сообщениях об ошибках;
// формат определяется по содержимому.
// Либо создаются все три варианта, либо возвращается ошибка.
func Generate(raw []byte, mimeType string) (*Set, error) {
	if len(raw) == 0 {
		return nil, &DecodeError{Cause: errors.New("пустые данные")}
	}

	// Размеры из заголовка проверяются до выделения памяти под пиксели
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Cause: fmt.Errorf("%s: %w", mimeType, err)}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &DecodeError{Cause: errors.New("нулевые размеры изображения")}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, &DecodeError{Cause: fmt.Errorf("%dx%d превышает предел %d пикселей", cfg.Width, cfg.Height, MaxPixels)}
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Cause: fmt.Errorf("%s: %w", mimeType, err)}
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &DecodeError{Cause: errors.New("нулевые размеры изображения")}
	}

	// JPEG не поддерживает прозрачность, подкладываем белый фон
	flat := flatten(src)

	set := &Set{
		MimeType: OutputMimeType,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}

	set.Large, err = encode(fitInside(flat, LargeMaxSide), LargeQuality)
	if err != nil {
		return nil, fmt.Errorf("вариант large: %w", err)
	}

	set.Medium, err = encode(fitInside(flat, MediumMaxSide), MediumQuality)
	if err != nil {
		return nil, fmt.Errorf("вариант medium: %w", err)
	}

	set.Thumbnail, err = encode(cover(flat, ThumbnailSide, ThumbnailSide), ThumbnailQuality)
	if err != nil {
		return nil, fmt.Errorf("вариант thumbnail: %w", err)
	}

	return set, nil
}

// FitInsideSize вычисляет размеры, вписанные в квадрат maxSide
// с сохранением пропорций. Увеличение не выполняется.
func FitInsideSize(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		nh := int(float64(h)*float64(maxSide)/float64(w) + 0.5)
		if nh < 1 {
			nh = 1
		}
		return maxSide, nh
	}
	nw := int(float64(w)*float64(maxSide)/float64(h) + 0.5)
	if nw < 1 {
		nw = 1
	}
	return nw, maxSide
}

// flatten копирует изображение на белый RGBA-холст с началом координат в (0,0).
func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// fitInside уменьшает изображение так, чтобы большая сторона не превышала maxSide.
func fitInside(src *image.RGBA, maxSide int) image.Image {
	b := src.Bounds()
	w, h := FitInsideSize(b.Dx(), b.Dy(), maxSide)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// cover заполняет прямоугольник w×h целиком: центральная обрезка
// по пропорциям цели и масштабирование.
func cover(src *image.RGBA, w, h int) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	// Область исходника с пропорциями цели
	cw, ch := sw, sw*h/w
	if ch > sh {
		ch = sh
		cw = sh * w / h
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	x0 := b.Min.X + (sw-cw)/2
	y0 := b.Min.Y + (sh-ch)/2
	crop := image.Rect(x0, y0, x0+cw, y0+ch)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

// encode кодирует изображение в JPEG с заданным качеством.
func encode(img image.Image, quality int) (Variant, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return Variant{}, fmt.Errorf("кодирование jpeg: %w", err)
	}
	b := img.Bounds()
	return Variant{
		Data:   buf.Bytes(),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}
