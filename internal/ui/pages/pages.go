// Пакет pages — HTML-страницы сайта и панели управления.
// Шаблоны html/template встроены в бинарник; каждая страница
// отдаётся как templ.Component.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/ui/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

// Макеты и страницы, собираемые с ними.
var layouts = map[string][]string{
	"layout_public.html": {"home", "about", "contact", "products", "product", "portfolio", "error"},
	"layout_admin.html": {
		"login", "dashboard", "media", "services", "service_form",
		"projects", "project_form", "admin_products", "product_form",
		"settings", "inquiries", "admin_error",
	},
}

var templates = mustParse()

func mustParse() map[string]*template.Template {
	out := make(map[string]*template.Template)
	for layout, names := range layouts {
		for _, name := range names {
			t := template.Must(template.New(layout).Funcs(funcs).ParseFS(templateFS,
				"templates/"+layout,
				"templates/partials.html",
				"templates/"+name+".html",
			))
			out[name] = t
		}
	}
	return out
}

var funcs = template.FuncMap{
	// src пропускает data URL изображения в атрибут src
	"src": func(u *string) template.URL {
		if u == nil {
			return ""
		}
		return template.URL(*u) //nolint:gosec // data URL формируется из собственных JPEG
	},
	"color": func(c string) template.CSS {
		if !model.ValidHexColor(c) {
			return ""
		}
		return template.CSS(c) //nolint:gosec // проверено ValidHexColor
	},
	"price": func(p *float64) string {
		if p == nil {
			return ""
		}
		return fmt.Sprintf("$%.2f", *p)
	},
	"join": strings.Join,
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006 3:04 PM")
	},
	"kb": func(n int) string {
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	},
	"has": func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"themes": func() []string {
		return []string{model.ThemeBlueWater, model.ThemeOceanBlue, model.ThemeTropicalBlue, model.ThemeCustom}
	},
	"inquiryServices": func() []string { return model.InquiryServices },
	"year":            func() int { return time.Now().Year() },
}

// view — корневой объект шаблона.
type view struct {
	ctx  context.Context
	Data any
}

// T возвращает перевод ключа на языке запроса.
func (v view) T(key string) string {
	return i18n.T(v.ctx, key)
}

// Lang — язык запроса.
func (v view) Lang() string {
	return i18n.LangFromContext(v.ctx)
}

// formView — данные формы заявки.
type formView struct {
	view
	Product *model.Product
}

// InquiryForm готовит данные формы заявки; product может быть nil.
func (v view) InquiryForm(product *model.Product) formView {
	return formView{view: v, Product: product}
}

// pickerView — данные выбора изображений.
type pickerView struct {
	view
	Name     string
	Media    []*model.MediaAsset
	Selected []string
}

// Picker готовит выбор изображений для поля name.
func (v view) Picker(name string, media []*model.MediaAsset, selected []string) pickerView {
	return pickerView{view: v, Name: name, Media: media, Selected: selected}
}

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := templates[name]
		if !ok {
			return fmt.Errorf("шаблон %s не найден", name)
		}
		return t.ExecuteTemplate(w, "layout", view{ctx: ctx, Data: data})
	})
}

// Page — общие данные макета.
type Page struct {
	Site        *model.Settings
	Title       string
	Description string
	// Nav — активный пункт меню
	Nav string
	// Username — вошедший администратор (только в панели)
	Username string
}

// ===== Публичные страницы =====

// HomeData — главная страница.
type HomeData struct {
	Page
	Hero     *model.MediaAsset
	Services []*model.Service
	Projects []*model.Project
}

// Home — главная страница.
func Home(data HomeData) templ.Component { return component("home", data) }

// AboutData — страница «О компании».
type AboutData struct {
	Page
	Services []*model.Service
}

// About — страница «О компании».
func About(data AboutData) templ.Component { return component("about", data) }

// ContactData — страница контактов.
type ContactData struct {
	Page
}

// Contact — страница контактов с формой заявки.
func Contact(data ContactData) templ.Component { return component("contact", data) }

// ProductsData — каталог продуктов.
type ProductsData struct {
	Page
	Products []*model.Product
}

// Products — каталог продуктов.
func Products(data ProductsData) templ.Component { return component("products", data) }

// ProductData — страница продукта.
type ProductData struct {
	Page
	Product *model.Product
}

// Product — страница продукта.
func Product(data ProductData) templ.Component { return component("product", data) }

// PortfolioData — портфолио.
type PortfolioData struct {
	Page
	Projects []*model.Project
}

// Portfolio — портфолио проектов.
func Portfolio(data PortfolioData) templ.Component { return component("portfolio", data) }

// ErrorData — страница ошибки.
type ErrorData struct {
	Page
	Status  int
	Message string
}

// Error — публичная страница ошибки.
func Error(data ErrorData) templ.Component { return component("error", data) }

// AdminError — страница ошибки панели управления.
func AdminError(data ErrorData) templ.Component { return component("admin_error", data) }

// ===== Панель управления =====

// LoginData — страница входа.
type LoginData struct {
	Page
	Error string
	// LoginName — введённое имя при неудачной попытке
	LoginName string
}

// Login — страница входа.
func Login(data LoginData) templ.Component { return component("login", data) }

// DashboardData — главная панели.
type DashboardData struct {
	Page
	Stats *model.DashboardStats
}

// Dashboard — главная панели управления.
func Dashboard(data DashboardData) templ.Component { return component("dashboard", data) }

// MediaData — медиатека.
type MediaData struct {
	Page
	Media []*model.MediaAsset
}

// Media — медиатека.
func Media(data MediaData) templ.Component { return component("media", data) }

// ServicesData — список услуг.
type ServicesData struct {
	Page
	Services []*model.Service
}

// Services — список услуг.
func Services(data ServicesData) templ.Component { return component("services", data) }

// ServiceFormData — форма услуги.
type ServiceFormData struct {
	Page
	Service *model.Service
	IsNew   bool
	Error   string
}

// ServiceForm — форма услуги.
func ServiceForm(data ServiceFormData) templ.Component { return component("service_form", data) }

// ProjectsData — список проектов.
type ProjectsData struct {
	Page
	Projects []*model.Project
}

// Projects — список проектов.
func Projects(data ProjectsData) templ.Component { return component("projects", data) }

// ProjectFormData — форма проекта.
type ProjectFormData struct {
	Page
	Project *model.Project
	Media   []*model.MediaAsset
	IsNew   bool
	Error   string
}

// ProjectForm — форма проекта.
func ProjectForm(data ProjectFormData) templ.Component { return component("project_form", data) }

// AdminProductsData — список продуктов.
type AdminProductsData struct {
	Page
	Products []*model.Product
}

// AdminProducts — список продуктов.
func AdminProducts(data AdminProductsData) templ.Component { return component("admin_products", data) }

// ProductFormData — форма продукта.
type ProductFormData struct {
	Page
	Product *model.Product
	// Sizes — размеры через запятую
	Sizes string
	// Price — цена в поле ввода
	Price string
	Media []*model.MediaAsset
	IsNew bool
	Error string
}

// ProductForm — форма продукта.
func ProductForm(data ProductFormData) templ.Component { return component("product_form", data) }

// SettingsData — настройки сайта.
type SettingsData struct {
	Page
	Settings *model.Settings
	Media    []*model.MediaAsset
	Success  bool
	Error    string
}

// Settings — настройки сайта.
func Settings(data SettingsData) templ.Component { return component("settings", data) }

// InquiriesData — заявки.
type InquiriesData struct {
	Page
	Inquiries []*model.Inquiry
}

// Inquiries — список заявок.
func Inquiries(data InquiriesData) templ.Component { return component("inquiries", data) }
