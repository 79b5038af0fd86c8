package audit

import (
	"context"
	"encoding/json"
	"time"

	"fieldstock/internal/core/id"
)

// Entry is one audit-trail record as exposed to readers. Changes is the
// stored field-level diff, already decompressed.
type Entry struct {
	ID         id.ID           `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   id.ID           `json:"entity_id"`
	Action     Action          `json:"action"`
	UserID     string          `json:"user_id,omitempty"`
	UserEmail  string          `json:"user_email,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// HistoryReader lists the audit trail of one entity, newest first.
type HistoryReader interface {
	EntityHistory(ctx context.Context, companyID id.ID, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Diff calculates the field-level difference between two entity states.
// Each changed key maps to its old and new value; unchanged keys are
// omitted.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if !equal(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}

	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}

func equal(a, b any) bool {
	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	return string(aJSON) == string(bJSON)
}
