// Package events carries domain events from the API to the worker over a
// redis stream or a kafka topic.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Type string

const (
	FollowCreated      Type = "follow.created"
	FollowDeleted      Type = "follow.deleted"
	PublicationCreated Type = "publication.created"
	PublicationDeleted Type = "publication.deleted"
	MessageSent        Type = "message.sent"
	UserImageReplaced  Type = "user.image_replaced"
	OrphanSweep        Type = "maintenance.orphan_sweep"
)

// Data keys shared by producers and the worker.
const (
	KeyUserID        = "user_id"
	KeyFollowedID    = "followed_id"
	KeyPublicationID = "publication_id"
	KeyMessageID     = "message_id"
	KeyReceiverID    = "receiver_id"
	KeyFile          = "file"
	KeyPreviousImage = "previous_image"
	KeyImage         = "image"
)

type Event struct {
	ID         string            `json:"-"`
	Type       Type              `json:"type"`
	ActorID    string            `json:"actor_id,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func New(t Type, actorID string, data map[string]string) Event {
	return Event{
		Type:       t,
		ActorID:    actorID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop drops every event. Used when events.driver is "none".
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Values flattens the event into stream fields.
func (e Event) Values() (map[string]any, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, fmt.Errorf("encode event data: %w", err)
	}
	return map[string]any{
		"type":        string(e.Type),
		"actor_id":    e.ActorID,
		"data":        string(data),
		"occurred_at": e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

// FromValues is the inverse of Values.
func FromValues(id string, values map[string]any) (Event, error) {
	event := Event{ID: id}

	t, ok := values["type"].(string)
	if !ok || t == "" {
		return Event{}, fmt.Errorf("event %s: missing type", id)
	}
	event.Type = Type(t)
	event.ActorID, _ = values["actor_id"].(string)

	if raw, ok := values["data"].(string); ok && raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &event.Data); err != nil {
			return Event{}, fmt.Errorf("event %s: decode data: %w", id, err)
		}
	}
	if raw, ok := values["occurred_at"].(string); ok && raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Event{}, fmt.Errorf("event %s: parse time: %w", id, err)
		}
		event.OccurredAt = at
	}
	return event, nil
}
