package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RECOMMENDATION_SHOWN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewRecommendationShown records that a set of products was surfaced to
// a user, so the analytics pipeline can track exposure per session.
func NewRecommendationShown(userId string, productIds []string, intent string) Event {
	return BaseEvent{
		Type: "RECOMMENDATION_SHOWN",
		Data: map[string]interface{}{
			"user_id":     userId,
			"product_ids": productIds,
			"intent":      intent,
		},
		OccurredAt: time.Now(),
	}
}

// NewCatalogReloaded records a catalog swap with its acceptance counts.
func NewCatalogReloaded(accepted, rejected int) Event {
	return BaseEvent{
		Type: "CATALOG_RELOADED",
		Data: map[string]interface{}{
			"accepted": accepted,
			"rejected": rejected,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionExpired records a sweep that evicted idle sessions.
func NewSessionExpired(evicted, remaining int) Event {
	return BaseEvent{
		Type: "SESSION_EXPIRED",
		Data: map[string]interface{}{
			"evicted":   evicted,
			"remaining": remaining,
		},
		OccurredAt: time.Now(),
	}
}
