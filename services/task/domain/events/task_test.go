package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mindflow/backend/services/task/domain/events"
)

func TestTaskMovedEvent_JSONRoundTrip(t *testing.T) {
	original := events.TaskMovedEvent{
		Envelope: events.Envelope{
			EventID:    uuid.MustParse("550e8400-e29b-41d4-a716-446655440001"),
			Version:    1,
			OwnerID:    uuid.MustParse("660e8400-e29b-41d4-a716-446655440000"),
			OccurredAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
		},
		TaskID:       uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		FromColumn:   "todo",
		FromPosition: 1,
		ToColumn:     "done",
		ToPosition:   0,
		Status:       "done",
		Shifted:      3,
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var decoded events.TaskMovedEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if !decoded.OccurredAt.Equal(original.OccurredAt) {
		t.Errorf("OccurredAt: got %v, want %v", decoded.OccurredAt, original.OccurredAt)
	}
	decoded.OccurredAt = original.OccurredAt
	if decoded != original {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", decoded, original)
	}
}

func TestTaskEvents_EnvelopeIsFlattened(t *testing.T) {
	evt := events.TaskCreatedEvent{
		Envelope: events.NewEnvelope(uuid.New(), time.Now().UTC()),
		TaskID:   uuid.New(),
		Title:    "Write tests",
		Column:   "todo",
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}

	for _, field := range []string{"event_id", "version", "owner_id", "occurred_at", "task_id", "title", "board_column", "board_position", "status"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
	if raw["version"] != float64(1) {
		t.Errorf("version: got %v, want 1", raw["version"])
	}
}

func TestBoardTopics(t *testing.T) {
	seen := map[string]bool{}
	for _, topic := range events.BoardTopics {
		if topic == "" {
			t.Fatal("topic must not be empty")
		}
		if seen[topic] {
			t.Fatalf("duplicate topic %q", topic)
		}
		seen[topic] = true
	}
	if !seen[events.TopicTaskMoved] || !seen[events.TopicBoardCompacted] {
		t.Fatalf("BoardTopics missing entries: %v", events.BoardTopics)
	}
}
