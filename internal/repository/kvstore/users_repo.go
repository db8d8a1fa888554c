package kvstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pointspay/ledger-backend/internal/models"
	"github.com/pointspay/ledger-backend/internal/repository"
	"github.com/pointspay/ledger-backend/internal/store"
)

type usersRepo struct {
	kv  store.KV
	ids repository.Counter
}

func NewUsers(kv store.KV, ids repository.Counter) repository.Users {
	return &usersRepo{kv: kv, ids: ids}
}

func (r *usersRepo) Create(u models.User) (models.User, error) {
	id, err := r.ids.Next()
	if err != nil {
		return models.User{}, err
	}
	u.ID = id
	u.CreatedAt = time.Now().UTC()
	u.Balance = 0
	u.Points = 0
	if err := r.put(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) Get(id uint64) (models.User, error) {
	raw, ok, err := r.kv.Get(store.RegionUsers, id)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, repository.ErrNotExist
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return models.User{}, fmt.Errorf("decode user %d: %w", id, err)
	}
	return u, nil
}

// EmailTaken is a full-scan equality check; fine at this scale, a secondary
// email→id index is the upgrade path if the user set grows.
func (r *usersRepo) EmailTaken(email string) (bool, error) {
	taken := false
	err := r.kv.Iterate(store.RegionUsers, func(_ uint64, raw []byte) (bool, error) {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return false, err
		}
		if u.Email == email {
			taken = true
			return false, nil
		}
		return true, nil
	})
	return taken, err
}

func (r *usersRepo) List() ([]models.User, error) {
	var out []models.User
	err := r.kv.Iterate(store.RegionUsers, func(_ uint64, raw []byte) (bool, error) {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return false, err
		}
		out = append(out, u)
		return true, nil
	})
	return out, err
}

func (r *usersRepo) Credit(id uint64, amount uint64) (models.User, error) {
	u, err := r.Get(id)
	if err != nil {
		return models.User{}, err
	}
	u.Balance += amount
	if err := r.put(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) Debit(id uint64, amount uint64) (models.User, error) {
	u, err := r.Get(id)
	if err != nil {
		return models.User{}, err
	}
	if u.Balance < amount {
		return models.User{}, repository.ErrInsufficientFunds
	}
	u.Balance -= amount
	if err := r.put(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) AddPoints(id uint64, points uint64) (models.User, error) {
	u, err := r.Get(id)
	if err != nil {
		return models.User{}, err
	}
	u.Points += points
	if err := r.put(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) RedeemPoints(id uint64, points uint64) (models.User, error) {
	u, err := r.Get(id)
	if err != nil {
		return models.User{}, err
	}
	if u.Points < points {
		// The record was untouched; write it back anyway so the store sees
		// a full-record replace for every mutating call path.
		if err := r.put(u); err != nil {
			return models.User{}, err
		}
		return models.User{}, repository.ErrInsufficientPoints
	}
	u.Points -= points
	if err := r.put(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) put(u models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %d: %w", u.ID, err)
	}
	return r.kv.Insert(store.RegionUsers, u.ID, raw)
}
