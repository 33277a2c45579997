package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryType groups categories the way a user organises work.
type CategoryType string

const (
	CategoryProject CategoryType = "project"
	CategoryArea    CategoryType = "area"
	CategoryGoal    CategoryType = "goal"
	CategoryContext CategoryType = "context"
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

const maxCategoryNameLength = 100

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ParseCategoryType validates s as a known category type.
func ParseCategoryType(s string) (CategoryType, error) {
	switch ct := CategoryType(s); ct {
	case CategoryProject, CategoryArea, CategoryGoal, CategoryContext:
		return ct, nil
	default:
		return "", fmt.Errorf("unknown category type %q", s)
	}
}

// Category labels tasks. Categories are owner scoped and soft-archived rather
// than deleted.
type Category struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Color       string
	Icon        string
	Type        CategoryType
	SortOrder   int
	IsActive    bool
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory constructs an active Category. An empty color falls back to
// DefaultCategoryColor.
func NewCategory(ownerID uuid.UUID, name string, ct CategoryType, color string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if len(name) > maxCategoryNameLength {
		return nil, fmt.Errorf("category name must not exceed %d characters", maxCategoryNameLength)
	}
	if color == "" {
		color = DefaultCategoryColor
	}
	if !hexColor.MatchString(color) {
		return nil, fmt.Errorf("category color %q must have the form #RRGGBB", color)
	}

	now := time.Now().UTC()
	return &Category{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Color:     color,
		Type:      ct,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
