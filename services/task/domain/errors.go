package domain

import "errors"

// Sentinel errors for the task domain. Use errors.Is() to check these.
var (
	// ErrTaskNotFound indicates the task does not exist for the requesting owner.
	ErrTaskNotFound = errors.New("task not found")

	// ErrCategoryNotFound indicates the category does not exist for the requesting owner.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryAlreadyExists indicates the owner already has a category with that name.
	ErrCategoryAlreadyExists = errors.New("category already exists")

	// ErrInvalidTask indicates a task field violates domain constraints.
	ErrInvalidTask = errors.New("invalid task")

	// ErrInvalidCategory indicates a category field violates domain constraints.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrMissingColumn indicates a move request without a target board column.
	ErrMissingColumn = errors.New("board column is required")

	// ErrInvalidColumn indicates a malformed board column label.
	ErrInvalidColumn = errors.New("invalid board column")

	// ErrInvalidPosition indicates a negative board position.
	ErrInvalidPosition = errors.New("invalid board position")

	// ErrStatusConflict indicates a status that disagrees with the status
	// mapped to the task's current board column.
	ErrStatusConflict = errors.New("status conflicts with board column")

	// ErrBoardConflict indicates the task moved under a concurrent operation
	// after it was read. The whole operation was rolled back and may be retried.
	ErrBoardConflict = errors.New("board changed concurrently")

	// ErrStorageFailure indicates the transaction could not be committed.
	// Nothing was written; the operation may be retried.
	ErrStorageFailure = errors.New("storage failure")
)

// IsRetryable reports whether err leaves state unchanged and the caller may
// repeat the whole operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageFailure) || errors.Is(err, ErrBoardConflict)
}
