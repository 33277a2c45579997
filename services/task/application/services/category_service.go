package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
	"github.com/mindflow/backend/services/task/domain/repositories"
)

// CreateCategoryInput carries the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name        string
	Description string
	Color       string
	Icon        string
	Type        string
	SortOrder   int
}

// CategoryService manages the categories tasks can be filed under.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService returns a CategoryService backed by repo.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// Create validates and stores a new category. Names are unique per owner.
func (s *CategoryService) Create(ctx context.Context, ownerID uuid.UUID, in CreateCategoryInput) (*models.Category, error) {
	ct := models.CategoryProject
	if in.Type != "" {
		var err error
		if ct, err = models.ParseCategoryType(in.Type); err != nil {
			return nil, fmt.Errorf("%w: %w", taskdomain.ErrInvalidCategory, err)
		}
	}

	c, err := models.NewCategory(ownerID, in.Name, ct, in.Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", taskdomain.ErrInvalidCategory, err)
	}
	c.Description = in.Description
	c.Icon = in.Icon
	c.SortOrder = in.SortOrder

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	return c, nil
}

// List returns the owner's active categories ordered by sort order, then name.
func (s *CategoryService) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Category, error) {
	cs, err := s.repo.ListActive(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cs, nil
}
