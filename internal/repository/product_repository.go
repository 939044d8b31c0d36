package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"storefront-admin-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type productDoc struct {
	ID             string   `json:"_id"`
	Rev            string   `json:"_rev,omitempty"`
	DocType        string   `json:"doc_type"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	IsVisible      bool     `json:"is_visible"`
	Availability   string   `json:"availability"`
	CategoryIDs    []int64  `json:"category_ids"`
	Images         []string `json:"images"`
	Price          float64  `json:"price"`
	CompareAtPrice float64  `json:"compare_at_price"`
	CostPerItem    *float64 `json:"cost_per_item,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type CouchDBProductRepository struct {
	db *kivik.DB
}

func NewProductRepository(client *kivik.Client, dbName string) *CouchDBProductRepository {
	return &CouchDBProductRepository{
		db: client.DB(dbName),
	}
}

func (r *CouchDBProductRepository) Create(ctx context.Context, product *domain.Product) error {
	doc := productToDoc(product)

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		if kivik.HTTPStatus(err) == 409 {
			return ErrProductExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *CouchDBProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return nil, err
	}
	return docToProduct(doc)
}

func (r *CouchDBProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	products, err := r.find(ctx, map[string]interface{}{"doc_type": "product", "slug": slug}, 1)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	return products[0], nil
}

func (r *CouchDBProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := r.find(ctx, map[string]interface{}{"doc_type": "product"}, 0)
	if err != nil {
		return nil, err
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})

	return products, nil
}

func (r *CouchDBProductRepository) Update(ctx context.Context, product *domain.Product) error {
	existing, err := r.getDoc(ctx, product.ID)
	if err != nil {
		return err
	}

	doc := productToDoc(product)
	doc.Rev = existing.Rev

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

func (r *CouchDBProductRepository) Delete(ctx context.Context, id string) error {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return err
	}

	if _, err := r.db.Delete(ctx, doc.ID, doc.Rev); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func (r *CouchDBProductRepository) find(ctx context.Context, selector map[string]interface{}, limit int) ([]*domain.Product, error) {
	query := map[string]interface{}{
		"selector": selector,
	}
	if limit > 0 {
		query["limit"] = limit
	}

	rows := r.db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var doc productDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p, err := docToProduct(&doc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, nil
}

func (r *CouchDBProductRepository) getDoc(ctx context.Context, id string) (*productDoc, error) {
	var doc productDoc
	if err := r.db.Get(ctx, "product:"+id).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == 404 {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &doc, nil
}

func productToDoc(p *domain.Product) productDoc {
	return productDoc{
		ID:             "product:" + p.ID,
		DocType:        "product",
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		IsVisible:      p.IsVisible,
		Availability:   formatTime(p.Availability),
		CategoryIDs:    p.CategoryIDs,
		Images:         p.Images,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		CostPerItem:    p.CostPerItem,
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
	}
}

func docToProduct(doc *productDoc) (*domain.Product, error) {
	availability, err := parseTime(doc.Availability)
	if err != nil {
		return nil, fmt.Errorf("failed to parse availability: %w", err)
	}

	createdAt, err := parseTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	updatedAt, err := parseTime(doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &domain.Product{
		ID:             trimPrefix(doc.ID, "product:"),
		Name:           doc.Name,
		Slug:           doc.Slug,
		Description:    doc.Description,
		IsVisible:      doc.IsVisible,
		Availability:   availability,
		CategoryIDs:    doc.CategoryIDs,
		Images:         doc.Images,
		Price:          doc.Price,
		CompareAtPrice: doc.CompareAtPrice,
		CostPerItem:    doc.CostPerItem,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}
