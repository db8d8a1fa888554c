package kvstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pointspay/ledger-backend/internal/models"
	"github.com/pointspay/ledger-backend/internal/repository"
	"github.com/pointspay/ledger-backend/internal/store"
)

type auditLogsRepo struct {
	kv  store.KV
	ids repository.Counter
}

// NewAuditLogs uses a counter of its own; audit entries live outside the
// shared user/transaction id sequence.
func NewAuditLogs(kv store.KV, ids repository.Counter) repository.AuditLogs {
	return &auditLogsRepo{kv: kv, ids: ids}
}

func (r *auditLogsRepo) Create(l models.AuditLog) error {
	id, err := r.ids.Next()
	if err != nil {
		return err
	}
	l.ID = id
	l.CreatedAt = time.Now().UTC()
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode audit log %d: %w", id, err)
	}
	return r.kv.Insert(store.RegionAudit, id, raw)
}
