package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront-admin-server/internal/domain"
	"storefront-admin-server/internal/repository"
	"storefront-admin-server/internal/validation"
	"storefront-admin-server/pkg/money"
)

func newTestProductService(t *testing.T) (*ProductService, *mockProductRepo, *mockPublisher) {
	t.Helper()

	categories := newMockCategoryRepo()
	categories.Create(context.Background(), &domain.Category{ID: 1, Name: "Shoes", Slug: "shoes"})
	categories.Create(context.Background(), &domain.Category{ID: 2, Name: "Hats", Slug: "hats"})

	formatter, err := money.NewFormatter("USD", "en")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	repo := newMockProductRepo()
	events := &mockPublisher{}
	return NewProductService(repo, categories, formatter, events), repo, events
}

func productInput(name string) *domain.ProductInput {
	return &domain.ProductInput{
		Name:           name,
		Description:    "",
		IsVisible:      true,
		Availability:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Categories:     []int64{1},
		Images:         []string{"https://cdn.example.com/a.png"},
		Price:          12.5,
		CompareAtPrice: 15,
	}
}

func TestProductService_Create(t *testing.T) {
	svc, _, events := newTestProductService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, productInput("Red Running Shoe"))
	if err != nil {
		t.Fatalf("Create() unexpected error = %v", err)
	}

	if resp.Slug != "red-running-shoe" {
		t.Errorf("derived slug = %q, want red-running-shoe", resp.Slug)
	}
	if resp.ID == "" {
		t.Error("expected product ID to be generated")
	}
	if !strings.Contains(resp.FormattedPrice, "12.50") {
		t.Errorf("FormattedPrice = %q", resp.FormattedPrice)
	}
	if !strings.Contains(resp.FormattedCompareAtPrice, "15.00") {
		t.Errorf("FormattedCompareAtPrice = %q", resp.FormattedCompareAtPrice)
	}

	in := productInput("Another")
	in.Slug = "red-running-shoe"
	_, err = svc.Create(ctx, in)
	if fe, ok := validation.AsFieldErrors(err); !ok || fe.ByField()["slug"] != "Slug is already in use" {
		t.Errorf("Create() duplicate slug error = %v", err)
	}

	if got := events.names(); len(got) != 1 || got[0] != EventProductCreated {
		t.Errorf("events = %v", got)
	}
}

func TestProductService_CreateUnknownCategory(t *testing.T) {
	svc, repo, _ := newTestProductService(t)

	in := productInput("Cap")
	in.Categories = []int64{2, 42}

	_, err := svc.Create(context.Background(), in)
	fe, ok := validation.AsFieldErrors(err)
	if !ok || fe.ByField()["categories"] != "Category 42 does not exist" {
		t.Errorf("Create() error = %v", err)
	}
	if len(repo.products) != 0 {
		t.Error("expected nothing to be stored")
	}
}

func TestProductService_CreateNameWithoutSlugCharacters(t *testing.T) {
	svc, repo, _ := newTestProductService(t)
	ctx := context.Background()

	for _, name := range []string{"!!!", "???"} {
		_, err := svc.Create(ctx, productInput(name))
		fe, ok := validation.AsFieldErrors(err)
		if !ok || fe.ByField()["name"] != "Name must contain at least one letter or digit" {
			t.Errorf("Create(%q) error = %v", name, err)
		}
	}
	if len(repo.products) != 0 {
		t.Errorf("stored products = %d, want 0", len(repo.products))
	}

	in := productInput("!!!")
	in.Slug = "bang"
	if _, err := svc.Create(ctx, in); err != nil {
		t.Errorf("Create() with explicit slug unexpected error = %v", err)
	}
}

func TestProductService_Update(t *testing.T) {
	svc, _, _ := newTestProductService(t)
	ctx := context.Background()

	shoe, _ := svc.Create(ctx, productInput("Shoe"))
	svc.Create(ctx, productInput("Boot"))

	in := productInput("Shoe")
	in.Price = 20
	in.Categories = []int64{1, 2}
	updated, err := svc.Update(ctx, shoe.ID, in)
	if err != nil {
		t.Fatalf("Update() unexpected error = %v", err)
	}
	if updated.Price != 20 || len(updated.CategoryIDs) != 2 {
		t.Errorf("Update() = %+v", updated.Product)
	}

	clash := productInput("Boot")
	if _, err := svc.Update(ctx, shoe.ID, clash); err == nil {
		t.Error("Update() expected slug conflict")
	}

	if _, err := svc.Update(ctx, "missing", productInput("X")); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("Update() missing error = %v", err)
	}
}

func TestProductService_GetListDelete(t *testing.T) {
	svc, _, events := newTestProductService(t)
	ctx := context.Background()

	shoe, _ := svc.Create(ctx, productInput("Shoe"))

	got, err := svc.Get(ctx, shoe.ID)
	if err != nil || got.Name != "Shoe" || got.FormattedPrice == "" {
		t.Errorf("Get() = %+v, %v", got, err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("List() = %d items, %v", len(list), err)
	}

	if err := svc.Delete(ctx, shoe.ID); err != nil {
		t.Fatalf("Delete() unexpected error = %v", err)
	}
	if _, err := svc.Get(ctx, shoe.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}

	names := events.names()
	if names[len(names)-1] != EventProductDeleted {
		t.Errorf("events = %v", names)
	}
}
