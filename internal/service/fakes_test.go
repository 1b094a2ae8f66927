package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/love4code/poolnplay/internal/domain/model"
	"github.com/love4code/poolnplay/internal/mail"
	"github.com/love4code/poolnplay/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Inquiry ---

type fakeInquiryRepo struct {
	mu        sync.Mutex
	items     []*model.Inquiry
	createErr error
}

func (f *fakeInquiryRepo) Create(_ context.Context, inq *model.Inquiry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	inq.ID = uuid.New().String()
	inq.CreatedAt = time.Now()
	f.items = append(f.items, inq)
	return nil
}

func (f *fakeInquiryRepo) List(_ context.Context, limit int) ([]*model.Inquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > 0 && len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeInquiryRepo) MarkRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inq := range f.items {
		if inq.ID == id {
			inq.Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeInquiryRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, inq := range f.items {
		if inq.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeInquiryRepo) Count(_ context.Context) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	unread := 0
	for _, inq := range f.items {
		if !inq.Read {
			unread++
		}
	}
	return len(f.items), unread, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

// --- Settings ---

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *model.Settings
	err      error
	calls    int
}

func (f *fakeSettingsRepo) GetOrCreate(_ context.Context) (*model.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.settings == nil {
		f.settings = model.DefaultSettings()
		f.settings.ID = uuid.New().String()
	}
	cp := *f.settings
	return &cp, nil
}

func (f *fakeSettingsRepo) Update(_ context.Context, s *model.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *s
	f.settings = &cp
	return nil
}

// --- Media ---

type fakeMediaRepo struct {
	mu        sync.Mutex
	items     map[string]*model.MediaAsset
	order     []string
	createErr error
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{items: make(map[string]*model.MediaAsset)}
}

func (f *fakeMediaRepo) Create(_ context.Context, m *model.MediaAsset) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	f.items[m.ID] = m
	f.order = append(f.order, m.ID)
	return nil
}

func (f *fakeMediaRepo) GetByID(_ context.Context, id string) (*model.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (f *fakeMediaRepo) GetByIDs(_ context.Context, ids []string) ([]*model.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.MediaAsset{}
	for _, id := range ids {
		if m, ok := f.items[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) List(_ context.Context, limit int) ([]*model.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.MediaAsset{}
	for i := len(f.order) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m, ok := f.items[f.order[i]]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) UpdateAlt(_ context.Context, id, alt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Alt = alt
	return nil
}

func (f *fakeMediaRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeMediaRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items), nil
}

// fakeTxRunner выполняет fn без транзакции и запоминает результат.
type fakeTxRunner struct {
	calls int
	err   error
}

func (f *fakeTxRunner) RunInTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// newTestMediaService создаёт MediaService поверх фейков;
// внутри транзакции используется тот же repo.
func newTestMediaService(repo *fakeMediaRepo, tx *fakeTxRunner, limits UploadLimits) *MediaService {
	s := NewMediaService(repo, tx, limits, testLogger())
	s.txRepo = func(pgx.Tx) repository.MediaRepository { return repo }
	return s
}

// --- Catalog ---

type fakeServiceRepo struct {
	mu    sync.Mutex
	items []*model.Service
}

func (f *fakeServiceRepo) Create(_ context.Context, s *model.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New().String()
	f.items = append(f.items, s)
	return nil
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id string) (*model.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeServiceRepo) List(_ context.Context, flt repository.ListFilter) ([]*model.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Service{}
	for _, s := range f.items {
		if flt.ActiveOnly && !s.Active || flt.FeaturedOnly && !s.Featured {
			continue
		}
		if flt.Limit > 0 && len(out) == flt.Limit {
			break
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, s *model.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, cur := range f.items {
		if cur.ID == s.ID {
			f.items[i] = s
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeServiceRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.items {
		if s.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeServiceRepo) CountActive(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.items {
		if s.Active {
			n++
		}
	}
	return n, nil
}

type fakeProjectRepo struct {
	mu    sync.Mutex
	items []*model.Project
	err   error
}

func (f *fakeProjectRepo) Create(_ context.Context, p *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New().String()
	f.items = append(f.items, p)
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProjectRepo) List(_ context.Context, flt repository.ListFilter) ([]*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*model.Project{}
	for _, p := range f.items {
		if flt.ActiveOnly && !p.Active || flt.FeaturedOnly && !p.Featured {
			continue
		}
		if flt.Limit > 0 && len(out) == flt.Limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, p *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, cur := range f.items {
		if cur.ID == p.ID {
			f.items[i] = p
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProjectRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProjectRepo) CountActive(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, p := range f.items {
		if p.Active {
			n++
		}
	}
	return n, nil
}

type fakeProductRepo struct {
	mu     sync.Mutex
	items  []*model.Product
	getErr error
}

func (f *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New().String()
	f.items = append(f.items, p)
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.items {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProductRepo) List(_ context.Context, flt repository.ListFilter) ([]*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Product{}
	for _, p := range f.items {
		if flt.ActiveOnly && !p.Active {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, cur := range f.items {
		if cur.ID == p.ID {
			f.items[i] = p
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProductRepo) CountActive(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.items {
		if p.Active {
			n++
		}
	}
	return n, nil
}
