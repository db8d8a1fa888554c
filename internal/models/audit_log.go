package models

import "time"

type AuditLog struct {
	ID         uint64         `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   uint64         `json:"entity_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
