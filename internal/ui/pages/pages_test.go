package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/ui/i18n"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(i18n.WithLang(context.Background(), "en"), &buf); err != nil {
		t.Fatalf("ошибка рендеринга: %v", err)
	}
	return buf.String()
}

func testAsset(id string) *model.MediaAsset {
	return &model.MediaAsset{
		ID:           id,
		OriginalName: "pool.jpg",
		MimeType:     "image/jpeg",
		Large:        []byte{0xff, 0xd8, 0x01},
		Medium:       []byte{0xff, 0xd8, 0x02},
		Thumbnail:    []byte{0xff, 0xd8, 0x03},
		Alt:          "Backyard pool",
	}
}

func site() *model.Settings {
	s := model.DefaultSettings()
	s.Phone = "555-0100"
	s.Social.Facebook = "https://facebook.com/poolnplay"
	return s
}

func price(v float64) *float64 { return &v }

func TestAllPagesRender(t *testing.T) {
	asset := testAsset("11111111-1111-1111-1111-111111111111")
	product := &model.Product{
		ID:            "22222222-2222-2222-2222-222222222222",
		Name:          "Deluxe Above Ground",
		Description:   "Steel wall pool",
		Price:         price(4999),
		Sizes:         []string{"18' Round", "24' Round"},
		FeaturedImage: asset,
		Images:        []*model.MediaAsset{asset},
		ImageIDs:      []string{asset.ID},
		Active:        true,
	}
	project := &model.Project{ID: "33333333-3333-3333-3333-333333333333", Title: "Smith Backyard", Description: "Liner", Images: []*model.MediaAsset{asset}, ImageIDs: []string{asset.ID}}
	service := &model.Service{ID: "44444444-4444-4444-4444-444444444444", Name: "Liner Replacement", Description: "Fast", Active: true}
	inquiry := &model.Inquiry{ID: "55555555-5555-5555-5555-555555555555", Name: "Jane", Town: "Springfield", Service: model.InquiryServicePoolInstall, PoolSizes: []string{"24' Round"}, ProductName: &product.Name, CreatedAt: time.Now()}

	public := Page{Site: site()}
	admin := Page{Site: site(), Username: "admin"}

	tests := []struct {
		name string
		c    templ.Component
		want []string
	}{
		{"home", Home(HomeData{Page: public, Hero: asset, Services: []*model.Service{service}, Projects: []*model.Project{project}}), []string{"Pool N Play", "data:image/jpeg;base64,", "Liner Replacement", "Smith Backyard"}},
		{"about", About(AboutData{Page: public, Services: []*model.Service{service}}), []string{"about.title", "Liner Replacement"}},
		{"contact", Contact(ContactData{Page: public}), []string{"data-inquiry-form", "555-0100", model.InquiryServiceServiceCall}},
		{"products", Products(ProductsData{Page: public, Products: []*model.Product{product}}), []string{"/products/" + product.ID, "$4999.00"}},
		{"products empty", Products(ProductsData{Page: public}), []string{"products.empty"}},
		{"product", Product(ProductData{Page: public, Product: product}), []string{"Deluxe Above Ground", `name="productId"`, "24&#39; Round"}},
		{"portfolio", Portfolio(PortfolioData{Page: public, Projects: []*model.Project{project}}), []string{"Smith Backyard"}},
		{"error", Error(ErrorData{Page: public, Status: 404, Message: "Page not found."}), []string{"404", "Page not found."}},
		{"login", Login(LoginData{Page: Page{Site: site()}, Error: "Invalid", LoginName: "bob"}), []string{"Invalid", `value="bob"`}},
		{"dashboard", Dashboard(DashboardData{Page: admin, Stats: &model.DashboardStats{TotalInquiries: 7, UnreadInquiries: 3}}), []string{">7<", ">3<", "/admin/logout"}},
		{"media", Media(MediaData{Page: admin, Media: []*model.MediaAsset{asset}}), []string{"data-upload-form", "/admin/media/" + asset.ID}},
		{"services", Services(ServicesData{Page: admin, Services: []*model.Service{service}}), []string{"/admin/services/" + service.ID + "/edit"}},
		{"service form", ServiceForm(ServiceFormData{Page: admin, Service: &model.Service{Active: true}, IsNew: true}), []string{`action="/admin/services"`}},
		{"projects", Projects(ProjectsData{Page: admin, Projects: []*model.Project{project}}), []string{"Smith Backyard"}},
		{"project form", ProjectForm(ProjectFormData{Page: admin, Project: project, Media: []*model.MediaAsset{asset}}), []string{`action="/admin/projects/` + project.ID + `"`, "checked"}},
		{"admin products", AdminProducts(AdminProductsData{Page: admin, Products: []*model.Product{product}}), []string{"18&#39; Round, 24&#39; Round"}},
		{"product form", ProductForm(ProductFormData{Page: admin, Product: product, Sizes: "18' Round", Price: "4999", Media: []*model.MediaAsset{asset}}), []string{`value="4999"`}},
		{"settings", Settings(SettingsData{Page: admin, Settings: site(), Success: true}), []string{"settings.saved", `value="#0d6efd"`}},
		{"inquiries", Inquiries(InquiriesData{Page: admin, Inquiries: []*model.Inquiry{inquiry}}), []string{"Jane", "/admin/inquiries/" + inquiry.ID + "/read", "Deluxe Above Ground"}},
		{"admin error", AdminError(ErrorData{Page: admin, Status: 503, Message: "Unavailable"}), []string{"503"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := render(t, tt.c)
			for _, want := range tt.want {
				if !strings.Contains(html, want) {
					t.Errorf("страница не содержит %q", want)
				}
			}
		})
	}
}

func TestLoginPageHasNoSidebar(t *testing.T) {
	html := render(t, Login(LoginData{Page: Page{Site: site()}}))
	if strings.Contains(html, "/admin/logout") {
		t.Error("страница входа не должна показывать меню панели")
	}
}

func TestInvalidColorIsDropped(t *testing.T) {
	s := site()
	s.PrimaryColor = "red; } body { display:none"
	html := render(t, Home(HomeData{Page: Page{Site: s}}))
	if strings.Contains(html, "display:none") {
		t.Error("некорректный цвет попал в CSS")
	}
}

func TestHomeWithoutHero(t *testing.T) {
	html := render(t, Home(HomeData{Page: Page{Site: site()}}))
	if strings.Contains(html, "background-image") {
		t.Error("без hero-изображения фон не задаётся")
	}
}

func TestSpanishLayout(t *testing.T) {
	var buf bytes.Buffer
	ctx := i18n.WithLang(context.Background(), "es")
	if err := Contact(ContactData{Page: Page{Site: site()}}).Render(ctx, &buf); err != nil {
		t.Fatalf("ошибка рендеринга: %v", err)
	}
	if !strings.Contains(buf.String(), `<html lang="es">`) {
		t.Error("атрибут lang не установлен")
	}
}
