package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"storefront-admin-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
}

type customerDoc struct {
	ID         string `json:"_id"`
	Rev        string `json:"_rev,omitempty"`
	DocType    string `json:"doc_type"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone"`
	City       string `json:"city,omitempty"`
	Address    string `json:"address,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type CouchDBCustomerRepository struct {
	db *kivik.DB
}

func NewCustomerRepository(client *kivik.Client, dbName string) *CouchDBCustomerRepository {
	return &CouchDBCustomerRepository{
		db: client.DB(dbName),
	}
}

func (r *CouchDBCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	doc := customerToDoc(customer)

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

func (r *CouchDBCustomerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return nil, err
	}
	return docToCustomer(doc)
}

func (r *CouchDBCustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"doc_type": "customer",
		},
	}

	rows := r.db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		var doc customerDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}

		c, err := docToCustomer(&doc)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	sort.Slice(customers, func(i, j int) bool {
		return customers[i].Name < customers[j].Name
	})

	return customers, nil
}

func (r *CouchDBCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	existing, err := r.getDoc(ctx, customer.ID)
	if err != nil {
		return err
	}

	doc := customerToDoc(customer)
	doc.Rev = existing.Rev

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return nil
}

func (r *CouchDBCustomerRepository) Delete(ctx context.Context, id string) error {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return err
	}

	if _, err := r.db.Delete(ctx, doc.ID, doc.Rev); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return nil
}

func (r *CouchDBCustomerRepository) getDoc(ctx context.Context, id string) (*customerDoc, error) {
	var doc customerDoc
	if err := r.db.Get(ctx, "customer:"+id).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == 404 {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &doc, nil
}

func customerToDoc(c *domain.Customer) customerDoc {
	return customerDoc{
		ID:         "customer:" + c.ID,
		DocType:    "customer",
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		City:       c.City,
		Address:    c.Address,
		Occupation: c.Occupation,
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

func docToCustomer(doc *customerDoc) (*domain.Customer, error) {
	createdAt, err := parseTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	updatedAt, err := parseTime(doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &domain.Customer{
		ID:         trimPrefix(doc.ID, "customer:"),
		Name:       doc.Name,
		Email:      doc.Email,
		Phone:      doc.Phone,
		City:       doc.City,
		Address:    doc.Address,
		Occupation: doc.Occupation,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}
