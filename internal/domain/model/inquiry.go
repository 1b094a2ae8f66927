package model

import "time"

// Услуги, доступные в форме заявки.
const (
	InquiryServiceAboveGroundPool  = "New Above Ground Pool"
	InquiryServiceLinerReplacement = "Liner Replacement"
	InquiryServicePoolInstall      = "Pool Install"
	InquiryServiceServiceCall      = "Service Call"
)

// InquiryServices — допустимые значения Inquiry.Service в порядке отображения.
var InquiryServices = []string{
	InquiryServiceAboveGroundPool,
	InquiryServiceLinerReplacement,
	InquiryServicePoolInstall,
	InquiryServiceServiceCall,
}

// ValidInquiryService проверяет, что услуга входит в InquiryServices.
func ValidInquiryService(s string) bool {
	for _, v := range InquiryServices {
		if v == s {
			return true
		}
	}
	return false
}

// Inquiry — заявка посетителя сайта.
// Хранится в таблице inquiries.
type Inquiry struct {
	ID string

	Name  string
	Town  string
	Phone string
	// Email — в нижнем регистре
	Email   string
	Service string
	// PoolSizes — выбранные размеры бассейна, всегда не nil
	PoolSizes []string
	Message   string

	// ProductID — продукт, со страницы которого отправлена заявка
	ProductID *string
	// ProductName — заполняется при чтении (join с products)
	ProductName *string

	Read      bool
	CreatedAt time.Time
}
