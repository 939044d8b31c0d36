package service

import (
	"bytes"
	"context"
	"io"
	"sync"

	"storefront-admin-server/internal/domain"
	"storefront-admin-server/internal/repository"
)

type mockUserRepo struct {
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

type mockCategoryRepo struct {
	categories map[int64]*domain.Category
	images     map[int64][]byte
	putErr     error
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{
		categories: make(map[int64]*domain.Category),
		images:     make(map[int64][]byte),
	}
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if _, ok := m.categories[c.ID]; ok {
		return repository.ErrCategoryExists
	}
	copied := *c
	m.categories[c.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) Get(ctx context.Context, id int64) (*domain.Category, error) {
	if c, ok := m.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	copied := *c
	m.categories[c.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	delete(m.images, id)
	return nil
}

func (m *mockCategoryRepo) PutImage(ctx context.Context, id int64, info domain.ImageInfo, content io.Reader) error {
	if m.putErr != nil {
		return m.putErr
	}
	c, ok := m.categories[id]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	m.images[id] = data
	c.Image = &info
	return nil
}

func (m *mockCategoryRepo) GetImage(ctx context.Context, id int64) (io.ReadCloser, *domain.ImageInfo, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, nil, repository.ErrCategoryNotFound
	}
	data, ok := m.images[id]
	if !ok || c.Image == nil {
		return nil, nil, repository.ErrImageNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), c.Image, nil
}

type mockSequenceRepo struct {
	values map[string]int64
}

func newMockSequenceRepo() *mockSequenceRepo {
	return &mockSequenceRepo{values: make(map[string]int64)}
}

func (m *mockSequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	m.values[name]++
	return m.values[name], nil
}

type mockProductRepo struct {
	products map[string]*domain.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]*domain.Product)}
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if _, ok := m.products[p.ID]; ok {
		return repository.ErrProductExists
	}
	copied := *p
	m.products[p.ID] = &copied
	return nil
}

func (m *mockProductRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := m.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *p
	m.products[p.ID] = &copied
	return nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

type mockCustomerRepo struct {
	customers map[string]*domain.Customer
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[string]*domain.Customer)}
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	copied := *c
	m.customers[c.ID] = &copied
	return nil
}

func (m *mockCustomerRepo) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if c, ok := m.customers[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, repository.ErrCustomerNotFound
}

func (m *mockCustomerRepo) List(ctx context.Context) ([]*domain.Customer, error) {
	var out []*domain.Customer
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	if _, ok := m.customers[c.ID]; !ok {
		return repository.ErrCustomerNotFound
	}
	copied := *c
	m.customers[c.ID] = &copied
	return nil
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.customers[id]; !ok {
		return repository.ErrCustomerNotFound
	}
	delete(m.customers, id)
	return nil
}

type recordedEvent struct {
	name    string
	payload any
}

type mockPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (m *mockPublisher) Publish(event string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{name: event, payload: payload})
}

func (m *mockPublisher) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.events))
	for i, e := range m.events {
		names[i] = e.name
	}
	return names
}
