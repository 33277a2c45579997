package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Metadata keys set on every message.
const (
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
	MetadataOwnerID      = "owner_id"
)

const eventVersion = "1"

type identified interface{ ID() uuid.UUID }

type owned interface{ Owner() uuid.UUID }

// NewMessage JSON-encodes event into a watermill message. The trace context of
// ctx is injected into the metadata. Events exposing ID or Owner also get the
// event_id and owner_id keys.
func NewMessage(ctx context.Context, event any) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("events: marshal %T: %w", event, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventVersion, eventVersion)
	if e, ok := event.(identified); ok {
		msg.Metadata.Set(MetadataEventID, e.ID().String())
	}
	if e, ok := event.(owned); ok {
		msg.Metadata.Set(MetadataOwnerID, e.Owner().String())
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
	return msg, nil
}

// Decode unmarshals the payload of msg into a T.
func Decode[T any](msg *message.Message) (T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("events: decode %T: %w", out, err)
	}
	return out, nil
}

// OwnerOf returns the owner_id metadata of msg.
func OwnerOf(msg *message.Message) (uuid.UUID, error) {
	raw := msg.Metadata.Get(MetadataOwnerID)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("events: message %s has no %s", msg.UUID, MetadataOwnerID)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("events: parse %s: %w", MetadataOwnerID, err)
	}
	return id, nil
}
