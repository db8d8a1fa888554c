package models

import (
	"strings"
	"time"
)

type User struct {
	ID          uint64    `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Balance     uint64    `json:"balance"`
	Points      uint64    `json:"points"`
}

// DeriveUsername builds the account username from the holder's names:
// lowercase concatenation capped at 10 characters.
func DeriveUsername(firstName, lastName string) string {
	u := strings.ToLower(firstName) + strings.ToLower(lastName)
	runes := []rune(u)
	if len(runes) > 10 {
		runes = runes[:10]
	}
	return string(runes)
}
