package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	taskdomain "github.com/mindflow/backend/services/task/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrTaskNotFound", taskdomain.ErrTaskNotFound, http.StatusNotFound},
		{"ErrCategoryNotFound", taskdomain.ErrCategoryNotFound, http.StatusNotFound},
		{"ErrCategoryAlreadyExists", taskdomain.ErrCategoryAlreadyExists, http.StatusConflict},
		{"ErrInvalidTask", taskdomain.ErrInvalidTask, http.StatusUnprocessableEntity},
		{"ErrInvalidCategory", taskdomain.ErrInvalidCategory, http.StatusUnprocessableEntity},
		{"ErrMissingColumn", taskdomain.ErrMissingColumn, http.StatusUnprocessableEntity},
		{"ErrInvalidColumn", taskdomain.ErrInvalidColumn, http.StatusUnprocessableEntity},
		{"ErrInvalidPosition", taskdomain.ErrInvalidPosition, http.StatusUnprocessableEntity},
		{"ErrStatusConflict", taskdomain.ErrStatusConflict, http.StatusUnprocessableEntity},
		{"ErrBoardConflict", taskdomain.ErrBoardConflict, http.StatusConflict},
		{"ErrStorageFailure", taskdomain.ErrStorageFailure, http.StatusServiceUnavailable},
		{"wrapped ErrTaskNotFound", fmt.Errorf("move task: %w", taskdomain.ErrTaskNotFound), http.StatusNotFound},
		{"wrapped ErrInvalidTask", fmt.Errorf("%w: title too long", taskdomain.ErrInvalidTask), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_RetryAfter(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"conflict", fmt.Errorf("%w: lock timeout", taskdomain.ErrBoardConflict), "1"},
		{"storage", fmt.Errorf("%w: connection reset", taskdomain.ErrStorageFailure), "1"},
		{"not retryable", taskdomain.ErrTaskNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)
			if got := w.Header().Get("Retry-After"); got != tt.want {
				t.Errorf("Retry-After = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"storage failure", fmt.Errorf("%w: pq: password=secret", taskdomain.ErrStorageFailure), "storage failure"},
		{"board conflict", fmt.Errorf("%w: SQLSTATE 40P01", taskdomain.ErrBoardConflict), "board changed concurrently"},
		{"unknown", errors.New("dial tcp 10.0.0.1:5432"), "Internal Server Error"},
		{"validation keeps detail", fmt.Errorf("%w: title too long", taskdomain.ErrInvalidTask), "invalid task: title too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("response body is not valid JSON: %v", err)
			}
			if body["error"] != tt.want {
				t.Errorf("error = %q, want %q", body["error"], tt.want)
			}
		})
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, taskdomain.ErrTaskNotFound)

	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatal("Content-Type header not set")
	}
}
