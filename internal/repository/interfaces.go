package repository

import (
	"errors"

	"github.com/pointspay/ledger-backend/internal/models"
)

// Sentinels the service layer translates into the API error taxonomy.
var (
	ErrNotExist           = errors.New("record does not exist")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// Counter issues a strictly increasing sequence of u64 ids and persists its
// position so restarts resume above the highest issued value. A read or
// write failure of the persisted counter makes Next fail; callers must
// abort the enclosing operation, there is no safe fallback.
type Counter interface {
	Next() (uint64, error)
}

type Users interface {
	// Create allocates an id, stamps created_at, persists and returns a copy.
	Create(u models.User) (models.User, error)
	Get(id uint64) (models.User, error)
	EmailTaken(email string) (bool, error)
	List() ([]models.User, error)
	// Credit and Debit are single-record read-modify-writes; Debit fails
	// with ErrInsufficientFunds before touching the record.
	Credit(id uint64, amount uint64) (models.User, error)
	Debit(id uint64, amount uint64) (models.User, error)
	AddPoints(id uint64, points uint64) (models.User, error)
	// RedeemPoints decrements the user's points; on insufficient points it
	// re-persists the unchanged record and fails with ErrInsufficientPoints.
	RedeemPoints(id uint64, points uint64) (models.User, error)
}

type Transactions interface {
	// Append allocates an id, stamps created_at and stores the immutable
	// record. Callers must have validated amount and participants.
	Append(fromID, toID, amount uint64) (models.Transaction, error)
	Get(id uint64) (models.Transaction, error)
	// ListByUser returns every transaction where userID is sender or
	// recipient, in ascending id order.
	ListByUser(userID uint64) ([]models.Transaction, error)
}

type AuditLogs interface {
	Create(l models.AuditLog) error
}
