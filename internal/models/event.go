package models

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType categorizes events in the system.
type EventType string

const (
	// Wizard events
	EventTypeWizardStarted   EventType = "wizard.started"
	EventTypeWizardCompleted EventType = "wizard.completed"
	EventTypeWizardCancelled EventType = "wizard.cancelled"

	// Brand pack events
	EventTypeBrandPackCreated EventType = "brand_pack.created"
	EventTypeBrandPackUpdated EventType = "brand_pack.updated"
	EventTypeBrandPackDeleted EventType = "brand_pack.deleted"

	// Content pack events
	EventTypeContentPackCreated EventType = "content_pack.created"
	EventTypeContentPackDeleted EventType = "content_pack.deleted"

	// Knowledge base events
	EventTypeKnowledgeFileAdded   EventType = "knowledge.added"
	EventTypeKnowledgeFileRemoved EventType = "knowledge.removed"

	// System events
	EventTypeError EventType = "error"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeWizard        EntityType = "wizard"
	EntityTypeBrandPack     EntityType = "brand_pack"
	EntityTypeContentPack   EntityType = "content_pack"
	EntityTypeKnowledgeFile EntityType = "knowledge_file"
	EntityTypeSystem        EntityType = "system"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		validation.AddMessage("entity_type", "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		validation.AddMessage("entity_id", "entity_id is required")
	}
	return validation.Err()
}

// WizardStartedPayload is the payload for wizard.started events.
type WizardStartedPayload struct {
	Script   string `json:"script"`
	Brand    string `json:"brand"`
	Industry string `json:"industry,omitempty"`
	Steps    int    `json:"steps"`
}

// WizardFinishedPayload is the payload for wizard.completed and
// wizard.cancelled events.
type WizardFinishedPayload struct {
	Script      string `json:"script"`
	StepReached int    `json:"step_reached"`
	Steps       int    `json:"steps"`
	Duration    string `json:"duration"`
	BrandPackID string `json:"brand_pack_id,omitempty"`
}

// BrandPackCreatedPayload is the payload for brand_pack.created events.
type BrandPackCreatedPayload struct {
	Name   string          `json:"name"`
	Source string          `json:"source"`
	Status BrandPackStatus `json:"status"`
}

// ErrorPayload is the payload for error events.
type ErrorPayload struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}
