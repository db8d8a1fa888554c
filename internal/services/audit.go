package services

import (
	"log/slog"

	"github.com/pointspay/ledger-backend/internal/models"
	repo "github.com/pointspay/ledger-backend/internal/repository"
	"github.com/pointspay/ledger-backend/internal/worker"
)

// Auditor appends audit records off the request path. Best effort: a failed
// or dropped write is logged, never surfaced to the caller.
type Auditor struct {
	logs repo.AuditLogs
	wp   *worker.Pool
}

func NewAuditor(logs repo.AuditLogs, wp *worker.Pool) *Auditor {
	return &Auditor{logs: logs, wp: wp}
}

func (a *Auditor) Record(entityType string, entityID uint64, action string, details map[string]any) {
	ok := a.wp.TrySubmit(func() {
		err := a.logs.Create(models.AuditLog{
			EntityType: entityType,
			EntityID:   entityID,
			Action:     action,
			Details:    details,
		})
		if err != nil {
			slog.Error("audit write", "entity", entityType, "id", entityID, "action", action, "err", err)
		}
	})
	if !ok {
		slog.Warn("audit write dropped, queue full", "entity", entityType, "id", entityID, "action", action)
	}
}
