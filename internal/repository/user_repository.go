package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-admin-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type userDoc struct {
	ID        string `json:"_id"`
	Rev       string `json:"_rev,omitempty"`
	DocType   string `json:"doc_type"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CouchDBUserRepository struct {
	db *kivik.DB
}

func NewUserRepository(client *kivik.Client, dbName string) *CouchDBUserRepository {
	return &CouchDBUserRepository{
		db: client.DB(dbName),
	}
}

func (r *CouchDBUserRepository) Create(ctx context.Context, user *domain.User) error {
	doc := userDoc{
		ID:        userDocID(user.ID),
		DocType:   "user",
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: formatTime(user.CreatedAt),
		UpdatedAt: formatTime(user.UpdatedAt),
	}

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *CouchDBUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"doc_type": "user",
			"email":    email,
		},
		"limit": 1,
	}

	rows := r.db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrUserNotFound
	}

	var doc userDoc
	if err := rows.ScanDoc(&doc); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return docToUser(&doc)
}

func (r *CouchDBUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var doc userDoc
	if err := r.db.Get(ctx, userDocID(id)).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == 404 {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return docToUser(&doc)
}

func (r *CouchDBUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func userDocID(id string) string {
	return "user:" + id
}

func docToUser(doc *userDoc) (*domain.User, error) {
	createdAt, err := parseTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	updatedAt, err := parseTime(doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &domain.User{
		ID:        trimPrefix(doc.ID, "user:"),
		Name:      doc.Name,
		Email:     doc.Email,
		Password:  doc.Password,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func trimPrefix(id, prefix string) string {
	if len(id) > len(prefix) && id[:len(prefix)] == prefix {
		return id[len(prefix):]
	}
	return id
}
