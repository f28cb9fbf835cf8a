package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tasklift/tasklift/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Create(token *model.Token) error
	Exists(userID, token string) (bool, error)
	Delete(userID, token string) error
	DeleteAllForUser(userID string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.Token) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `INSERT INTO tokens (id, user_id, token, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, token.ID, token.UserID, token.Token, token.CreatedAt)
	return err
}

// Exists reports whether the token is in the user's current session set.
// A signed token whose row has been deleted is revoked.
func (r *tokenRepository) Exists(userID, token string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM tokens WHERE user_id = $1 AND token = $2`

	err := r.db.QueryRow(query, userID, token).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *tokenRepository) Delete(userID, token string) error {
	result, err := r.db.Exec(`DELETE FROM tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTokenNotFound
	}

	return nil
}

func (r *tokenRepository) DeleteAllForUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM tokens WHERE user_id = $1`, userID)
	return err
}
