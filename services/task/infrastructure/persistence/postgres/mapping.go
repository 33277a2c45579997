package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindflow/backend/services/task/domain/models"
	"github.com/mindflow/backend/services/task/infrastructure/persistence/postgres/db"
)

// rowToTask maps a db.TaskTask to a domain models.Task.
func rowToTask(row db.TaskTask) *models.Task {
	t := &models.Task{
		ID:                 row.ID,
		OwnerID:            row.OwnerID,
		Title:              models.TaskTitle(row.Title),
		Description:        row.Description,
		Status:             models.Status(row.Status),
		Priority:           models.Priority(row.Priority),
		DueDate:            fromNullTime(row.DueDate),
		StartDate:          fromNullTime(row.StartDate),
		ProgressPercentage: int(row.ProgressPercentage),
		Tags:               splitTags(row.Tags),
		Source:             models.Source(row.Source),
		BoardColumn:        models.BoardColumn(row.BoardColumn),
		BoardPosition:      int(row.BoardPosition),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
		CompletedAt:        fromNullTime(row.CompletedAt),
	}
	if row.CategoryID.Valid {
		id := row.CategoryID.UUID
		t.CategoryID = &id
	}
	if row.EstimatedDuration.Valid {
		d := int(row.EstimatedDuration.Int32)
		t.EstimatedDuration = &d
	}
	return t
}

func rowsToTasks(rows []db.TaskTask) []*models.Task {
	tasks := make([]*models.Task, len(rows))
	for i, row := range rows {
		tasks[i] = rowToTask(row)
	}
	return tasks
}

// rowToCategory maps a db.TaskCategory to a domain models.Category.
func rowToCategory(row db.TaskCategory) *models.Category {
	return &models.Category{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Name:        row.Name,
		Description: row.Description,
		Color:       row.Color,
		Icon:        row.Icon,
		Type:        models.CategoryType(row.CategoryType),
		SortOrder:   int(row.SortOrder),
		IsActive:    row.IsActive,
		IsArchived:  row.IsArchived,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// Tags are stored as one comma-separated column.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func toNullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func toNullInt32(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

func toNullString[T ~string](v *T) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*v), Valid: true}
}
