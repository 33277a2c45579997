package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mindflow/backend/pkg/database"
	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
	"github.com/mindflow/backend/services/task/infrastructure/persistence/postgres/db"
)

// CategoryRepository implements repositories.CategoryRepository against PostgreSQL.
type CategoryRepository struct {
	db *database.Database
}

// NewCategoryRepository returns a CategoryRepository backed by the given pool.
func NewCategoryRepository(database *database.Database) *CategoryRepository {
	return &CategoryRepository{db: database}
}

// Save persists a new Category.
// Returns ErrCategoryAlreadyExists on unique constraint violations.
func (r *CategoryRepository) Save(ctx context.Context, c *models.Category) error {
	q := db.New(r.db.DB())
	if err := q.InsertCategory(ctx, db.InsertCategoryParams{
		ID:           c.ID,
		OwnerID:      c.OwnerID,
		Name:         c.Name,
		Description:  c.Description,
		Color:        c.Color,
		Icon:         c.Icon,
		CategoryType: string(c.Type),
		SortOrder:    int32(c.SortOrder),
		IsActive:     c.IsActive,
		IsArchived:   c.IsArchived,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}); err != nil {
		if database.ErrorCode(err) == database.CodeUniqueViolation {
			return taskdomain.ErrCategoryAlreadyExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID retrieves a Category scoped to the given owner. Returns ErrCategoryNotFound if not found.
func (r *CategoryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Category, error) {
	row, err := db.New(r.db.DB()).GetCategoryByID(ctx, db.GetCategoryByIDParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskdomain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("query category: %w", err)
	}
	return rowToCategory(row), nil
}

// ListActive returns the owner's active categories.
func (r *CategoryRepository) ListActive(ctx context.Context, ownerID uuid.UUID) ([]*models.Category, error) {
	rows, err := db.New(r.db.DB()).ListActiveCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*models.Category, len(rows))
	for i, row := range rows {
		out[i] = rowToCategory(row)
	}
	return out, nil
}

// Exists reports whether a category with the given ID exists for the owner.
func (r *CategoryRepository) Exists(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	exists, err := db.New(r.db.DB()).CategoryExists(ctx, db.CategoryExistsParams{ID: id, OwnerID: ownerID})
	if err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return exists, nil
}
