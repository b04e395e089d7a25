package interfaces

import (
	"context"
	"errors"

	"touristsafety/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrCaseNotFound is returned by lookups that match no case. Handlers map it
// to a 404.
var ErrCaseNotFound = errors.New("case not found")

type CaseRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, c *models.Case) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Reply correlation: the most recently created case for a submitter name.
	GetLatestByName(ctx context.Context, name string) (*models.Case, error)

	// Responder dashboard: all cases, newest first.
	GetAll(ctx context.Context) ([]*models.Case, error)

	// EnsureIndexes creates the collection indexes. Called once at startup.
	EnsureIndexes(ctx context.Context) error
}
