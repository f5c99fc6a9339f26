// Package events provides helper functions for logging brandkit events.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opencode-ai/brandkit/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// LogWizardStarted records the start of a wizard run.
func LogWizardStarted(ctx context.Context, repo Repository, runID string, payload models.WizardStartedPayload) error {
	return write(ctx, repo, models.EventTypeWizardStarted, models.EntityTypeWizard, runID, payload)
}

// LogWizardCompleted records a wizard run that reached its last step.
func LogWizardCompleted(ctx context.Context, repo Repository, runID string, payload models.WizardFinishedPayload) error {
	return write(ctx, repo, models.EventTypeWizardCompleted, models.EntityTypeWizard, runID, payload)
}

// LogWizardCancelled records a wizard run torn down before completion.
func LogWizardCancelled(ctx context.Context, repo Repository, runID string, payload models.WizardFinishedPayload) error {
	return write(ctx, repo, models.EventTypeWizardCancelled, models.EntityTypeWizard, runID, payload)
}

// LogBrandPackCreated records a newly stored brand pack.
func LogBrandPackCreated(ctx context.Context, repo Repository, pack *models.BrandPack) error {
	if pack == nil {
		return fmt.Errorf("brand pack is required")
	}
	return write(ctx, repo, models.EventTypeBrandPackCreated, models.EntityTypeBrandPack, pack.ID, models.BrandPackCreatedPayload{
		Name:   pack.Name,
		Source: string(pack.Source),
		Status: pack.Status,
	})
}

// LogEntity records an event without a payload.
func LogEntity(ctx context.Context, repo Repository, eventType models.EventType, entityType models.EntityType, entityID string) error {
	return write(ctx, repo, eventType, entityType, entityID, nil)
}

func write(ctx context.Context, repo Repository, eventType models.EventType, entityType models.EntityType, entityID string, payload any) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if entityID == "" {
		return fmt.Errorf("%s id is required", entityType)
	}

	event := &models.Event{
		Type:       eventType,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
		}
		event.Payload = data
	}

	return repo.Create(ctx, event)
}
