package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"storefront-admin-server/internal/domain"
	"storefront-admin-server/internal/repository"
	"storefront-admin-server/internal/validation"
)

const categorySequence = "category"

type CategoryService struct {
	repo   repository.CategoryRepository
	seq    repository.SequenceRepository
	events EventPublisher
}

func NewCategoryService(repo repository.CategoryRepository, seq repository.SequenceRepository, events EventPublisher) *CategoryService {
	return &CategoryService{
		repo:   repo,
		seq:    seq,
		events: publisherOrNoop(events),
	}
}

func (s *CategoryService) Create(ctx context.Context, in *domain.CategoryInput) (*domain.Category, error) {
	if err := s.ensureSlugFree(ctx, in.Slug, 0); err != nil {
		return nil, err
	}

	content, err := openImage(in.Image)
	if err != nil {
		return nil, err
	}
	if content != nil {
		defer content.Close()
	}

	id, err := s.seq.Next(ctx, categorySequence)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate category id: %w", err)
	}

	now := time.Now()
	category := &domain.Category{
		ID:          id,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	if content != nil {
		if err := s.repo.PutImage(ctx, id, *imageInfo(in.Image), content); err != nil {
			if delErr := s.repo.Delete(ctx, id); delErr != nil {
				return nil, errors.Join(fmt.Errorf("failed to store image: %w", err), delErr)
			}
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		category.Image = imageInfo(in.Image)
	}

	s.events.Publish(EventCategoryCreated, category)
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, id int64, in *domain.CategoryInput) (*domain.Category, error) {
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Slug != category.Slug {
		if err := s.ensureSlugFree(ctx, in.Slug, id); err != nil {
			return nil, err
		}
	}

	content, err := openImage(in.Image)
	if err != nil {
		return nil, err
	}
	if content != nil {
		defer content.Close()
	}

	category.Name = in.Name
	category.Slug = in.Slug
	category.Description = in.Description
	category.IsActive = in.IsActive
	category.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	if content != nil {
		if err := s.repo.PutImage(ctx, id, *imageInfo(in.Image), content); err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		category.Image = imageInfo(in.Image)
	}

	s.events.Publish(EventCategoryUpdated, category)
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Publish(EventCategoryDeleted, deletedPayload{ID: id})
	return nil
}

func (s *CategoryService) Image(ctx context.Context, id int64) (io.ReadCloser, *domain.ImageInfo, error) {
	return s.repo.GetImage(ctx, id)
}

func (s *CategoryService) ensureSlugFree(ctx context.Context, slug string, selfID int64) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if existing.ID != selfID {
		return fieldError("slug", "Slug is already in use")
	}
	return nil
}

// openImage opens the uploaded image before anything is written, so a
// failure leaves the store untouched. A nil ref yields a nil reader.
func openImage(ref *validation.FileRef) (io.ReadCloser, error) {
	if ref == nil {
		return nil, nil
	}
	if ref.Open == nil {
		return nil, fieldError("image", "Image content is missing")
	}

	content, err := ref.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return content, nil
}

func imageInfo(ref *validation.FileRef) *domain.ImageInfo {
	return &domain.ImageInfo{
		Filename:    ref.Filename,
		ContentType: ref.MediaType,
		Size:        ref.Size,
	}
}
