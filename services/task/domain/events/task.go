package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the task bounded context. All of them are
// written through the transactional outbox in the same transaction as the
// board change they describe.
const (
	TopicTaskCreated    = "task.created"
	TopicTaskMoved      = "task.moved"
	TopicTaskUpdated    = "task.updated"
	TopicTaskDeleted    = "task.deleted"
	TopicBoardCompacted = "board.compacted"
)

// BoardTopics lists every topic whose events change an owner's board.
var BoardTopics = []string{
	TopicTaskCreated,
	TopicTaskMoved,
	TopicTaskUpdated,
	TopicTaskDeleted,
	TopicBoardCompacted,
}

// Envelope is the header shared by every task event.
// Consumers deduplicate on EventID and key caches by OwnerID.
type Envelope struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	OwnerID    uuid.UUID `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEnvelope stamps a fresh event ID and version 1.
func NewEnvelope(ownerID uuid.UUID, at time.Time) Envelope {
	return Envelope{EventID: uuid.New(), Version: 1, OwnerID: ownerID, OccurredAt: at}
}

// ID returns the deduplication key of the event.
func (e Envelope) ID() uuid.UUID {
	return e.EventID
}

// Owner returns the owner whose board the event changed.
func (e Envelope) Owner() uuid.UUID {
	return e.OwnerID
}

// TaskCreatedEvent is published after a task is appended to a column.
type TaskCreatedEvent struct {
	Envelope
	TaskID   uuid.UUID `json:"task_id"`
	Title    string    `json:"title"`
	Column   string    `json:"board_column"`
	Position int       `json:"board_position"`
	Status   string    `json:"status"`
}

// TaskMovedEvent is published after a move that changed the board.
// Shifted counts the other tasks whose positions changed.
type TaskMovedEvent struct {
	Envelope
	TaskID       uuid.UUID `json:"task_id"`
	FromColumn   string    `json:"from_column"`
	FromPosition int       `json:"from_position"`
	ToColumn     string    `json:"to_column"`
	ToPosition   int       `json:"to_position"`
	Status       string    `json:"status"`
	Shifted      int64     `json:"shifted"`
}

// TaskUpdatedEvent is published after a task's non-board fields change.
type TaskUpdatedEvent struct {
	Envelope
	TaskID uuid.UUID `json:"task_id"`
	Status string    `json:"status"`
}

// TaskDeletedEvent is published after a task is removed and its column compacted.
type TaskDeletedEvent struct {
	Envelope
	TaskID   uuid.UUID `json:"task_id"`
	Column   string    `json:"board_column"`
	Position int       `json:"board_position"`
}

// BoardCompactedEvent is published after an owner's partitions were renumbered.
type BoardCompactedEvent struct {
	Envelope
	Partitions int `json:"partitions"`
	Moved      int `json:"moved"`
}
