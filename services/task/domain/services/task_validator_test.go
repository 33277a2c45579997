package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   models.TaskTitle
		wantErr bool
	}{
		{"valid title", "Write quarterly report", false},
		{"valid with punctuation", "Fix bug #42 (urgent!)", false},
		{"double space allowed", "Call  mom", false},
		{"only whitespace", "   ", true},
		{"tab character (control)", "Call\tmom", true},
		{"newline character (control)", "Call\nmom", true},
		{"null byte (control)", "Call\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTitle(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTaskForCreation(t *testing.T) {
	valid := func() *models.Task {
		return &models.Task{
			ID:          uuid.New(),
			OwnerID:     uuid.New(),
			Title:       "Plan week",
			BoardColumn: "todo",
		}
	}

	t.Run("nil task returns error", func(t *testing.T) {
		if err := ValidateTaskForCreation(nil); err == nil {
			t.Fatal("expected error for nil task")
		}
	})

	t.Run("valid task returns nil", func(t *testing.T) {
		if err := ValidateTaskForCreation(valid()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	start := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	before := start.Add(-24 * time.Hour)
	negative := -5

	cases := map[string]func(*models.Task){
		"nil owner":          func(t *models.Task) { t.OwnerID = uuid.Nil },
		"nil id":             func(t *models.Task) { t.ID = uuid.Nil },
		"bad column":         func(t *models.Task) { t.BoardColumn = "To Do" },
		"progress over 100":  func(t *models.Task) { t.ProgressPercentage = 101 },
		"negative progress":  func(t *models.Task) { t.ProgressPercentage = -1 },
		"negative duration":  func(t *models.Task) { t.EstimatedDuration = &negative },
		"due before start":   func(t *models.Task) { t.StartDate, t.DueDate = &start, &before },
		"tag with comma":     func(t *models.Task) { t.Tags = []string{"a,b"} },
		"too many tags":      func(t *models.Task) { t.Tags = manyTags(21) },
		"control char title": func(t *models.Task) { t.Title = "bad\x07" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			task := valid()
			mutate(task)
			if err := ValidateTaskForCreation(task); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestValidateStatusForColumn(t *testing.T) {
	m := models.DefaultColumnStatusMap()

	tests := []struct {
		name    string
		status  models.Status
		column  models.BoardColumn
		wantErr bool
	}{
		{"matches mapped", models.StatusWaiting, "review", false},
		{"conflicts with mapped", models.StatusDone, "review", true},
		{"unmapped accepts anything", models.StatusCancelled, "backlog", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatusForColumn(tt.status, tt.column, m)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, taskdomain.ErrStatusConflict) {
				t.Fatalf("expected ErrStatusConflict, got %v", err)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" work ", "", "home", "work", "  "})
	want := []string{"work", "home"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NormalizeTags() = %v, want %v", got, want)
		}
	}
}

func manyTags(n int) []string {
	tags := make([]string, n)
	for i := range tags {
		tags[i] = fmt.Sprintf("tag%d", i)
	}
	return tags
}
