package model

import (
	"time"
)

// User is an account holder. PasswordHash, Avatar and session tokens are
// never serialized to clients.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Age          int       `db:"age" json:"age"`
	Avatar       []byte    `db:"avatar" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

func (u *User) HasAvatar() bool {
	return len(u.Avatar) > 0
}
