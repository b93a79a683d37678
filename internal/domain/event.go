package domain

import "time"

// GigPackEventType represents the type of a gig pack change event
type GigPackEventType string

const (
	GigPackEventCreated          GigPackEventType = "gigpack.created"
	GigPackEventUpdated          GigPackEventType = "gigpack.updated"
	GigPackEventDeleted          GigPackEventType = "gigpack.deleted"
	GigPackEventScheduleImported GigPackEventType = "gigpack.schedule_imported"
)

// GigPackEvent is the message published when a gig pack changes
type GigPackEvent struct {
	EventID    string           `json:"event_id"`
	EventType  GigPackEventType `json:"event_type"`
	OccurredAt time.Time        `json:"occurred_at"`
	Version    int              `json:"version"`
	Data       GigPackEventData `json:"data"`
}

// GigPackEventData carries the fields consumers need without the full pack
type GigPackEventData struct {
	GigPackID     string `json:"gig_pack_id"`
	OwnerID       string `json:"owner_id"`
	PublicSlug    string `json:"public_slug"`
	Title         string `json:"title"`
	ScheduleCount int    `json:"schedule_count"`
	ImportedCount int    `json:"imported_count,omitempty"`
}

// NewGigPackEvent builds an event for the given pack
func NewGigPackEvent(eventType GigPackEventType, pack *GigPack, eventID string) *GigPackEvent {
	return &GigPackEvent{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Version:    1,
		Data: GigPackEventData{
			GigPackID:     pack.ID,
			OwnerID:       pack.OwnerID,
			PublicSlug:    pack.PublicSlug,
			Title:         pack.Title,
			ScheduleCount: len(pack.Schedule),
		},
	}
}

// Key returns the partition key; events of one pack stay ordered
func (e *GigPackEvent) Key() string {
	return e.Data.GigPackID
}
