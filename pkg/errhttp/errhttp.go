// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mindflow/backend/pkg/httpx"
	taskdomain "github.com/mindflow/backend/services/task/domain"
)

// RetryAfter is advertised on responses for operations that rolled back and
// may be repeated as-is.
const RetryAfter = time.Second

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Retryable failures carry a Retry-After header and only the sentinel message,
// never the wrapped driver error.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	switch {
	case errors.Is(err, taskdomain.ErrBoardConflict):
		msg = taskdomain.ErrBoardConflict.Error()
	case errors.Is(err, taskdomain.ErrStorageFailure):
		msg = taskdomain.ErrStorageFailure.Error()
	case status == http.StatusInternalServerError:
		msg = http.StatusText(status)
	}
	if taskdomain.IsRetryable(err) {
		w.Header().Set("Retry-After", strconv.Itoa(int(RetryAfter.Seconds())))
	}
	httpx.JSONError(w, status, msg)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, taskdomain.ErrTaskNotFound),
		errors.Is(err, taskdomain.ErrCategoryNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, taskdomain.ErrCategoryAlreadyExists):
		return http.StatusConflict // 409
	case errors.Is(err, taskdomain.ErrInvalidTask),
		errors.Is(err, taskdomain.ErrInvalidCategory),
		errors.Is(err, taskdomain.ErrMissingColumn),
		errors.Is(err, taskdomain.ErrInvalidColumn),
		errors.Is(err, taskdomain.ErrInvalidPosition),
		errors.Is(err, taskdomain.ErrStatusConflict):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, taskdomain.ErrBoardConflict):
		return http.StatusConflict // 409
	case errors.Is(err, taskdomain.ErrStorageFailure):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
