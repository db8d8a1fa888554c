package kvstore

import (
	"github.com/pointspay/ledger-backend/internal/repository"
	"github.com/pointspay/ledger-backend/internal/store"
)

type Repositories struct {
	Users        repository.Users
	Transactions repository.Transactions
	AuditLogs    repository.AuditLogs
}

func NewRepositories(kv store.KV) *Repositories {
	ids := NewCounter(kv, store.RegionCounter)
	return &Repositories{
		Users:        NewUsers(kv, ids),
		Transactions: NewTransactions(kv, ids),
		AuditLogs:    NewAuditLogs(kv, NewCounter(kv, store.RegionAuditCounter)),
	}
}
