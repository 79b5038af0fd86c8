// Package audit defines the domain-facing audit trail contract.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
package audit

import (
	"context"

	"fieldstock/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionMovement Action = "movement"
	ActionTransfer Action = "transfer"
)

// Recorder records audit entries for entity changes. Recording is
// best-effort at call sites: audit failure never fails the business
// operation, services log and continue.
type Recorder interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error
}

// Nop is a Recorder that discards entries. Used in tests and in deployments
// without an audit store.
type Nop struct{}

func (Nop) LogChange(context.Context, string, id.ID, Action, map[string]any) error { return nil }
