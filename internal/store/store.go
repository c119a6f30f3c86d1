package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/grazeland/paddock-cli/internal/model"
)

// ErrNotFound reports a lookup for a paddock that does not exist.
var ErrNotFound = eris.New("store: paddock not found")

// Store defines persistence for imported paddocks.
type Store interface {
	// CreatePaddocks inserts a batch of paddocks in a single transaction:
	// either every paddock in the batch becomes durable or none do, as
	// observed by any other reader.
	CreatePaddocks(ctx context.Context, paddocks []model.Paddock) error

	// ListPaddocks returns all paddocks ordered by name.
	ListPaddocks(ctx context.Context) ([]model.Paddock, error)

	// GetPaddock retrieves a paddock by id, or ErrNotFound.
	GetPaddock(ctx context.Context, id string) (*model.Paddock, error)

	// DeletePaddock removes a paddock by id, or ErrNotFound.
	DeletePaddock(ctx context.Context, id string) error

	// Migrate creates or updates the schema. Idempotent.
	Migrate(ctx context.Context) error

	Close() error
}
