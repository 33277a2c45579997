package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/mindflow/backend/services/task/domain/models"
)

// CategoryRepository is the persistence interface for categories.
type CategoryRepository interface {
	// Save persists a new category. Returns ErrCategoryAlreadyExists when the
	// owner already has one with the same name.
	Save(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Category, error)

	// ListActive returns active, non-archived categories ordered by sort order then name.
	ListActive(ctx context.Context, ownerID uuid.UUID) ([]*models.Category, error)

	Exists(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}
