// forms.go — разбор полей HTML-форм панели управления.
package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

// formBool — checkbox: "on", "true" и "1" означают true.
func formBool(r *http.Request, name string) bool {
	switch strings.ToLower(r.PostFormValue(name)) {
	case "on", "true", "1":
		return true
	}
	return false
}

// formInt — целое число; пустое или некорректное значение даёт 0.
func formInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue(name)))
	if err != nil {
		return 0
	}
	return n
}

// maxPrice — верхняя граница цены (NUMERIC(12,2)).
const maxPrice = 1e10

// formPrice — цена; пустое значение даёт nil. NaN, бесконечность,
// отрицательные значения и значения от maxPrice отклоняются.
func formPrice(r *http.Request, name string) (*float64, bool) {
	raw := strings.TrimSpace(r.PostFormValue(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= maxPrice {
		return nil, false
	}
	return &v, true
}

// formCSV — список через запятую, без пустых элементов.
func formCSV(r *http.Request, name string) []string {
	var out []string
	for _, s := range strings.Split(r.PostFormValue(name), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// formIDs — список ID: повторяющееся поле (name или name[]) либо одно
// значение через запятую.
func formIDs(r *http.Request, name string) []string {
	values := append([]string{}, r.PostForm[name]...)
	values = append(values, r.PostForm[name+"[]"]...)

	var out []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

// formPriceValue — цена для поля ввода формы.
func formPriceValue(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
