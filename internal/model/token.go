package model

import (
	"time"
)

// Token is one live session for a user. A user may hold many concurrent
// tokens (multi-device). A signed token string is only accepted while its
// row exists; logout deletes the row, which revokes the session regardless
// of signature validity.
type Token struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}
