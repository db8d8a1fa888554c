package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pointspay/ledger-backend/internal/config"
	"github.com/pointspay/ledger-backend/internal/metrics"
	"github.com/pointspay/ledger-backend/internal/models"
	repo "github.com/pointspay/ledger-backend/internal/repository"
)

// LedgerService runs every balance-mutating operation. The shared mutex
// serializes operations across both services, so each multi-step sequence
// executes atomically with respect to the rest of the ledger.
type LedgerService struct {
	users repo.Users
	txns  repo.Transactions
	audit *Auditor
	cfg   config.Config
	mu    *sync.Mutex
}

func NewLedgerService(users repo.Users, txns repo.Transactions, audit *Auditor, cfg config.Config, mu *sync.Mutex) *LedgerService {
	return &LedgerService{users: users, txns: txns, audit: audit, cfg: cfg, mu: mu}
}

// Transfer moves amount from one user to another, appends the transaction
// record and awards the sender amount/10 points. Any rejection leaves every
// store untouched.
func (s *LedgerService) Transfer(fromID, toID, amount uint64) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validating
	if amount == 0 {
		metrics.TransfersRejected.WithLabelValues("invalid_payload").Inc()
		return models.Transaction{}, models.InvalidPayload("Amount must be greater than 0.")
	}
	if fromID == toID {
		metrics.TransfersRejected.WithLabelValues("invalid_payload").Inc()
		return models.Transaction{}, models.InvalidPayload("Sender and recipient must differ.")
	}
	if _, err := s.users.Get(fromID); err != nil {
		if errors.Is(err, repo.ErrNotExist) {
			metrics.TransfersRejected.WithLabelValues("not_found").Inc()
			return models.Transaction{}, models.NotFound("Sender not found")
		}
		return models.Transaction{}, err
	}
	if _, err := s.users.Get(toID); err != nil {
		if errors.Is(err, repo.ErrNotExist) {
			metrics.TransfersRejected.WithLabelValues("not_found").Inc()
			return models.Transaction{}, models.NotFound("Recipient not found")
		}
		return models.Transaction{}, err
	}

	// Debiting
	if _, err := s.users.Debit(fromID, amount); err != nil {
		if errors.Is(err, repo.ErrInsufficientFunds) {
			metrics.TransfersRejected.WithLabelValues("insufficient_balance").Inc()
			return models.Transaction{}, models.BusinessError("Insufficient balance.")
		}
		return models.Transaction{}, err
	}

	// Crediting
	if _, err := s.users.Credit(toID, amount); err != nil {
		s.revert(fromID, 0, amount)
		return models.Transaction{}, err
	}

	// Logging
	tx, err := s.txns.Append(fromID, toID, amount)
	if err != nil {
		s.revert(fromID, toID, amount)
		return models.Transaction{}, err
	}

	// Rewarding
	if s.cfg.RewardsEnabled {
		if _, err := s.users.AddPoints(fromID, amount/10); err != nil {
			// The transfer itself is committed; points are a side effect.
			slog.Error("award points", "user_id", fromID, "tx_id", tx.ID, "err", err)
		}
	}

	metrics.TransfersTotal.Inc()
	s.audit.Record("transaction", tx.ID, "committed", map[string]any{
		"from_user_id": fromID, "to_user_id": toID, "amount": amount,
	})
	return tx, nil
}

// revert is the best-effort undo for a store failure after the debit; the
// debited amount goes back to the sender and, when the credit already
// landed, comes back out of the recipient. toID 0 marks a credit that never
// happened (the counter issues ids from 1).
func (s *LedgerService) revert(fromID, toID, amount uint64) {
	if toID != 0 {
		if _, err := s.users.Debit(toID, amount); err != nil {
			slog.Error("revert credit", "user_id", toID, "err", err)
		}
	}
	if _, err := s.users.Credit(fromID, amount); err != nil {
		slog.Error("revert debit", "user_id", fromID, "err", err)
	}
}

func (s *LedgerService) Deposit(userID, amount uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount == 0 {
		return "", models.InvalidPayload("Amount must be greater than 0.")
	}
	if _, err := s.users.Credit(userID, amount); err != nil {
		return "", userErr(err)
	}
	metrics.DepositsTotal.Inc()
	s.audit.Record("user", userID, "deposit", map[string]any{"amount": amount})
	return fmt.Sprintf("Deposited %d units of currency to user %d", amount, userID), nil
}

func (s *LedgerService) RedeemPoints(userID, points uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.users.RedeemPoints(userID, points); err != nil {
		if errors.Is(err, repo.ErrInsufficientPoints) {
			return "", models.BusinessError("Insufficient points.")
		}
		return "", userErr(err)
	}
	metrics.PointsRedeemedTotal.Add(float64(points))
	s.audit.Record("user", userID, "redeem_points", map[string]any{"points": points})
	return fmt.Sprintf("Redeemed %d points from user %d", points, userID), nil
}

// History returns every transaction involving userID in ascending id order.
func (s *LedgerService) History(userID uint64) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.txns.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, models.NotFound("No transactions found")
	}
	return txs, nil
}

func (s *LedgerService) GetTransaction(id uint64) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.txns.Get(id)
	if err != nil {
		if errors.Is(err, repo.ErrNotExist) {
			return models.Transaction{}, models.NotFound("Transaction not found")
		}
		return models.Transaction{}, err
	}
	return tx, nil
}
