package kvstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pointspay/ledger-backend/internal/models"
	"github.com/pointspay/ledger-backend/internal/repository"
	"github.com/pointspay/ledger-backend/internal/store"
)

type transactionsRepo struct {
	kv  store.KV
	ids repository.Counter
}

// NewTransactions shares the user ledger's counter so user and transaction
// ids never collide within the common sequence.
func NewTransactions(kv store.KV, ids repository.Counter) repository.Transactions {
	return &transactionsRepo{kv: kv, ids: ids}
}

func (r *transactionsRepo) Append(fromID, toID, amount uint64) (models.Transaction, error) {
	id, err := r.ids.Next()
	if err != nil {
		return models.Transaction{}, err
	}
	tx := models.Transaction{
		ID:         id,
		FromUserID: fromID,
		ToUserID:   toID,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}
	raw, err := json.Marshal(tx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("encode transaction %d: %w", id, err)
	}
	if err := r.kv.Insert(store.RegionTransactions, id, raw); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

func (r *transactionsRepo) Get(id uint64) (models.Transaction, error) {
	raw, ok, err := r.kv.Get(store.RegionTransactions, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if !ok {
		return models.Transaction{}, repository.ErrNotExist
	}
	var tx models.Transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return models.Transaction{}, fmt.Errorf("decode transaction %d: %w", id, err)
	}
	return tx, nil
}

func (r *transactionsRepo) ListByUser(userID uint64) ([]models.Transaction, error) {
	var out []models.Transaction
	err := r.kv.Iterate(store.RegionTransactions, func(_ uint64, raw []byte) (bool, error) {
		var tx models.Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			return false, err
		}
		if tx.FromUserID == userID || tx.ToUserID == userID {
			out = append(out, tx)
		}
		return true, nil
	})
	return out, err
}
