package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
)

const maxTags = 20

// ValidateTitle enforces business rules for TaskTitle beyond the structural
// constraints enforced by the TaskTitle constructor (length 1–200).
//
// Business rules:
//   - No control characters (Unicode category Cc)
//   - Must not be only whitespace characters
func ValidateTitle(title models.TaskTitle) error {
	s := title.String()

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("task title must not be only whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("task title must not contain control characters")
		}
	}

	return nil
}

// ValidateTaskFields checks the fields a user may edit on a task.
func ValidateTaskFields(task *models.Task) error {
	if err := ValidateTitle(task.Title); err != nil {
		return err
	}

	if task.ProgressPercentage < 0 || task.ProgressPercentage > 100 {
		return fmt.Errorf("progress must be between 0 and 100, got %d", task.ProgressPercentage)
	}

	if task.EstimatedDuration != nil && *task.EstimatedDuration < 0 {
		return fmt.Errorf("estimated duration must not be negative")
	}

	if task.StartDate != nil && task.DueDate != nil && task.DueDate.Before(*task.StartDate) {
		return fmt.Errorf("due date must not be before start date")
	}

	if len(task.Tags) > maxTags {
		return fmt.Errorf("a task may have at most %d tags", maxTags)
	}
	for _, tag := range task.Tags {
		if tag == "" || strings.Contains(tag, ",") {
			return fmt.Errorf("tag %q must be non-empty and must not contain commas", tag)
		}
	}

	return nil
}

// ValidateTaskForCreation performs cross-field validation on a fully-constructed
// Task aggregate before it is appended to the board.
func ValidateTaskForCreation(task *models.Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	if err := ValidateTaskFields(task); err != nil {
		return err
	}

	if task.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id must be set")
	}

	if task.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}

	if _, err := models.NewBoardColumn(task.BoardColumn.String()); err != nil {
		return err
	}

	return nil
}

// ValidateStatusForColumn rejects a status that disagrees with the status
// mapped to column. Tasks in unmapped columns accept any status.
func ValidateStatusForColumn(status models.Status, column models.BoardColumn, m *models.ColumnStatusMap) error {
	mapped, ok := m.StatusFor(column)
	if !ok || mapped == status {
		return nil
	}
	return fmt.Errorf("%w: column %q requires status %q, got %q",
		taskdomain.ErrStatusConflict, column, mapped, status)
}

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
