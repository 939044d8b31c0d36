package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-admin-server/internal/domain"
	"storefront-admin-server/internal/repository"
	"storefront-admin-server/pkg/money"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProductService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	formatter  *money.Formatter
	events     EventPublisher
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository, formatter *money.Formatter, events EventPublisher) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		formatter:  formatter,
		events:     publisherOrNoop(events),
	}
}

func (s *ProductService) Create(ctx context.Context, in *domain.ProductInput) (*domain.ProductResponse, error) {
	productSlug, err := s.slugFor(in)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSlugFree(ctx, productSlug, ""); err != nil {
		return nil, err
	}
	if err := s.ensureCategoriesExist(ctx, in.Categories); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:        uuid.New().String(),
		Slug:      productSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyProductInput(product, in)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	resp := s.toResponse(product)
	s.events.Publish(EventProductCreated, resp)
	return resp, nil
}

func (s *ProductService) List(ctx context.Context) ([]*domain.ProductResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, s.toResponse(p))
	}
	return responses, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.ProductResponse, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(product), nil
}

func (s *ProductService) Update(ctx context.Context, id string, in *domain.ProductInput) (*domain.ProductResponse, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	productSlug, err := s.slugFor(in)
	if err != nil {
		return nil, err
	}
	if productSlug != product.Slug {
		if err := s.ensureSlugFree(ctx, productSlug, id); err != nil {
			return nil, err
		}
	}
	if err := s.ensureCategoriesExist(ctx, in.Categories); err != nil {
		return nil, err
	}

	product.Slug = productSlug
	product.UpdatedAt = time.Now()
	applyProductInput(product, in)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	resp := s.toResponse(product)
	s.events.Publish(EventProductUpdated, resp)
	return resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Publish(EventProductDeleted, deletedPayload{ID: id})
	return nil
}

// slugFor keeps a provided slug and otherwise derives one from the name.
// A name that yields no slug characters is reported on the name field.
func (s *ProductService) slugFor(in *domain.ProductInput) (string, error) {
	if in.Slug != "" {
		return in.Slug, nil
	}
	derived := slug.Make(in.Name)
	if derived == "" {
		return "", fieldError("name", "Name must contain at least one letter or digit")
	}
	return derived, nil
}

func (s *ProductService) ensureSlugFree(ctx context.Context, productSlug, selfID string) error {
	existing, err := s.repo.GetBySlug(ctx, productSlug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if existing.ID != selfID {
		return fieldError("slug", "Slug is already in use")
	}
	return nil
}

func (s *ProductService) ensureCategoriesExist(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := s.categories.Get(ctx, id); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return fieldError("categories", fmt.Sprintf("Category %d does not exist", id))
			}
			return fmt.Errorf("failed to check category %d: %w", id, err)
		}
	}
	return nil
}

func (s *ProductService) toResponse(p *domain.Product) *domain.ProductResponse {
	return &domain.ProductResponse{
		Product:                 p,
		FormattedPrice:          s.formatter.Format(p.Price),
		FormattedCompareAtPrice: s.formatter.Format(p.CompareAtPrice),
	}
}

func applyProductInput(p *domain.Product, in *domain.ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.IsVisible = in.IsVisible
	p.Availability = in.Availability
	p.CategoryIDs = in.Categories
	p.Images = in.Images
	p.Price = in.Price
	p.CompareAtPrice = in.CompareAtPrice
	p.CostPerItem = in.CostPerItem
}
