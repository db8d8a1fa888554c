package models

import "time"

// Transaction records a committed balance transfer. Records are append-only:
// once stored they are never updated or deleted.
type Transaction struct {
	ID         uint64    `json:"id"`
	FromUserID uint64    `json:"from_user_id"`
	ToUserID   uint64    `json:"to_user_id"`
	Amount     uint64    `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}
