package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"storefront-admin-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

const categoryImageAttachment = "image"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrImageNotFound    = errors.New("image not found")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Get(ctx context.Context, id int64) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
	PutImage(ctx context.Context, id int64, info domain.ImageInfo, content io.Reader) error
	GetImage(ctx context.Context, id int64) (io.ReadCloser, *domain.ImageInfo, error)
}

type categoryDoc struct {
	ID          string            `json:"_id"`
	Rev         string            `json:"_rev,omitempty"`
	Attachments json.RawMessage   `json:"_attachments,omitempty"`
	DocType     string            `json:"doc_type"`
	Number      int64             `json:"number"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description,omitempty"`
	IsActive    bool              `json:"is_active"`
	Image       *domain.ImageInfo `json:"image,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

type CouchDBCategoryRepository struct {
	db *kivik.DB
}

func NewCategoryRepository(client *kivik.Client, dbName string) *CouchDBCategoryRepository {
	return &CouchDBCategoryRepository{
		db: client.DB(dbName),
	}
}

func (r *CouchDBCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	doc := categoryToDoc(category)

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		if kivik.HTTPStatus(err) == 409 {
			return ErrCategoryExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *CouchDBCategoryRepository) Get(ctx context.Context, id int64) (*domain.Category, error) {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return nil, err
	}
	return docToCategory(doc)
}

func (r *CouchDBCategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"doc_type": "category",
			"slug":     slug,
		},
		"limit": 1,
	}

	rows := r.db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query category by slug: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrCategoryNotFound
	}

	var doc categoryDoc
	if err := rows.ScanDoc(&doc); err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	return docToCategory(&doc)
}

func (r *CouchDBCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"doc_type": "category",
		},
	}

	rows := r.db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var doc categoryDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		c, err := docToCategory(&doc)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})

	return categories, nil
}

// Update keeps the stored attachments; CouchDB drops them when a revision omits _attachments.
func (r *CouchDBCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	existing, err := r.getDoc(ctx, category.ID)
	if err != nil {
		return err
	}

	doc := categoryToDoc(category)
	doc.Rev = existing.Rev
	doc.Attachments = existing.Attachments
	if doc.Image == nil {
		doc.Image = existing.Image
	}

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	return nil
}

func (r *CouchDBCategoryRepository) Delete(ctx context.Context, id int64) error {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return err
	}

	if _, err := r.db.Delete(ctx, doc.ID, doc.Rev); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

func (r *CouchDBCategoryRepository) PutImage(ctx context.Context, id int64, info domain.ImageInfo, content io.Reader) error {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return err
	}

	att := &kivik.Attachment{
		Filename:    categoryImageAttachment,
		ContentType: info.ContentType,
		Content:     io.NopCloser(content),
	}

	rev, err := r.db.PutAttachment(ctx, doc.ID, att, kivik.Rev(doc.Rev))
	if err != nil {
		return fmt.Errorf("failed to store category image: %w", err)
	}

	// Refresh so the new revision carries the attachment stub.
	var current categoryDoc
	if err := r.db.Get(ctx, doc.ID, kivik.Rev(rev)).ScanDoc(&current); err != nil {
		return fmt.Errorf("failed to reload category: %w", err)
	}
	current.Image = &info

	if _, err := r.db.Put(ctx, current.ID, current); err != nil {
		return fmt.Errorf("failed to record category image: %w", err)
	}

	return nil
}

func (r *CouchDBCategoryRepository) GetImage(ctx context.Context, id int64) (io.ReadCloser, *domain.ImageInfo, error) {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc.Image == nil {
		return nil, nil, ErrImageNotFound
	}

	att, err := r.db.GetAttachment(ctx, doc.ID, categoryImageAttachment)
	if err != nil {
		if kivik.HTTPStatus(err) == 404 {
			return nil, nil, ErrImageNotFound
		}
		return nil, nil, fmt.Errorf("failed to load category image: %w", err)
	}

	info := *doc.Image
	info.ContentType = att.ContentType
	return att.Content, &info, nil
}

func (r *CouchDBCategoryRepository) getDoc(ctx context.Context, id int64) (*categoryDoc, error) {
	var doc categoryDoc
	if err := r.db.Get(ctx, categoryDocID(id)).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == 404 {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &doc, nil
}

func categoryDocID(id int64) string {
	return fmt.Sprintf("category:%d", id)
}

func categoryToDoc(c *domain.Category) categoryDoc {
	return categoryDoc{
		ID:          categoryDocID(c.ID),
		DocType:     "category",
		Number:      c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		Image:       c.Image,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

func docToCategory(doc *categoryDoc) (*domain.Category, error) {
	createdAt, err := parseTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	updatedAt, err := parseTime(doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &domain.Category{
		ID:          doc.Number,
		Name:        doc.Name,
		Slug:        doc.Slug,
		Description: doc.Description,
		IsActive:    doc.IsActive,
		Image:       doc.Image,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
