package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kivik/kivik/v4"
)

const maxSequenceRetries = 5

var ErrSequenceContention = errors.New("sequence update kept conflicting")

// SequenceRepository hands out increasing integer IDs, one counter per name.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

type sequenceDoc struct {
	ID      string `json:"_id"`
	Rev     string `json:"_rev,omitempty"`
	DocType string `json:"doc_type"`
	Value   int64  `json:"value"`
}

type CouchDBSequenceRepository struct {
	db *kivik.DB
}

func NewSequenceRepository(client *kivik.Client, dbName string) *CouchDBSequenceRepository {
	return &CouchDBSequenceRepository{
		db: client.DB(dbName),
	}
}

// Next relies on CouchDB revisions: a concurrent increment makes Put fail with
// 409 and the read-increment-write is retried.
func (r *CouchDBSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	docID := "sequence:" + name

	for attempt := 0; attempt < maxSequenceRetries; attempt++ {
		doc := sequenceDoc{ID: docID, DocType: "sequence"}
		if err := r.db.Get(ctx, docID).ScanDoc(&doc); err != nil && kivik.HTTPStatus(err) != 404 {
			return 0, fmt.Errorf("failed to read sequence %s: %w", name, err)
		}

		doc.Value++
		if _, err := r.db.Put(ctx, docID, doc); err != nil {
			if kivik.HTTPStatus(err) == 409 {
				continue
			}
			return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
		}

		return doc.Value, nil
	}

	return 0, ErrSequenceContention
}
