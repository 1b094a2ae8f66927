package mail

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/inquiry.html
var inquiryTemplateSrc string

var inquiryTemplate = template.Must(template.New("inquiry").Parse(inquiryTemplateSrc))

// InquiryEmail — данные уведомления о новой заявке.
type InquiryEmail struct {
	Name        string
	Town        string
	Phone       string
	Email       string
	Service     string
	ProductName string
	PoolSizes   []string
	Message     string
	SubmittedAt time.Time
}

// InquirySubject возвращает тему письма для услуги.
func InquirySubject(service string) string {
	return "New Inquiry: " + service
}

// RenderInquiry рендерит HTML-тело уведомления. Пользовательские
// значения экранируются html/template.
func RenderInquiry(data InquiryEmail) (string, error) {
	view := struct {
		InquiryEmail
		PoolSizesText string
		SubmittedText string
	}{
		InquiryEmail:  data,
		PoolSizesText: strings.Join(data.PoolSizes, ", "),
		SubmittedText: data.SubmittedAt.Format("January 2, 2006 3:04 PM MST"),
	}

	var buf bytes.Buffer
	if err := inquiryTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("ошибка рендеринга письма: %w", err)
	}
	return buf.String(), nil
}
