// Package store persists flowsheet definitions.
//
// Two implementations are provided: [MemoryStore] for tests and single-process
// servers, and [MongoStore] backed by a MongoDB collection. Both assign
// UUIDv4 identifiers on first save.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flowsheet/pkg/errors"
	fio "github.com/matzehuels/flowsheet/pkg/io"
)

// Record is a stored definition.
type Record struct {
	ID         string          `json:"id" bson:"_id"`
	Name       string          `json:"name" bson:"name"`
	Definition *fio.Definition `json:"definition,omitempty" bson:"definition"`
	CreatedAt  time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" bson:"updated_at"`
}

// Store saves and retrieves definitions.
type Store interface {
	// Save stores def under id, or under a new id when id is empty.
	// Saving an existing id replaces the definition and keeps CreatedAt.
	Save(ctx context.Context, id string, def *fio.Definition) (*Record, error)
	// Get returns the record with the given id or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns all records, most recently updated first, without
	// their definitions.
	List(ctx context.Context) ([]Record, error)
	// Delete removes a record or returns a NOT_FOUND error.
	Delete(ctx context.Context, id string) error
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "flowsheet %s not found", id)
}

func checkSave(id string, def *fio.Definition) error {
	if def == nil {
		return errors.New(errors.ErrCodeInvalidInput, "definition is nil")
	}
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid flowsheet id %q", id)
		}
	}
	return nil
}
