package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tasklift/tasklift/internal/model"
	"github.com/tasklift/tasklift/internal/repository"
	"github.com/tasklift/tasklift/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUnableToLogin deliberately covers both unknown email and wrong
	// password so callers cannot enumerate accounts.
	ErrUnableToLogin = errors.New("unable to login")
	ErrUnauthorized  = errors.New("please authenticate")
	ErrEmailTaken    = errors.New("email already in use")
)

// bcryptCost is fixed; session validity is revocation-based so there is no
// need to track cost migrations per user.
const bcryptCost = 8

type AuthService struct {
	userRepository  repository.UserRepository
	tokenRepository repository.TokenRepository
	jwtSecret       string
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		jwtSecret:       jwtSecret,
	}
}

// Register validates and persists a new account. The plaintext password is
// hashed exactly once, here, before the user row is written.
func (s *AuthService) Register(name, email, password string, age int) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateName(name)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateAge(age)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Age:          age,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials and returns the matching user. Lookup and
// comparison failures collapse into the same generic error.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		return nil, ErrUnableToLogin
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrUnableToLogin
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IssueToken signs a session token carrying the user id and records it in
// the user's token set. The jti claim keeps concurrent sessions distinct.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  user.ID,
		ID:       uuid.New().String(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	err = s.tokenRepository.Create(&model.Token{
		UserID: user.ID,
		Token:  tokenString,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return tokenString, nil
}

// Authenticate resolves a bearer token to its user. Signature validity is
// not sufficient: the token must still be present in the owner's session
// set, otherwise it has been revoked.
func (s *AuthService) Authenticate(tokenString string) (*model.User, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrUnauthorized
	}

	exists, err := s.tokenRepository.Exists(claims.Subject, tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if !exists {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepository.ByID(claims.Subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	return user, nil
}

// RevokeToken ends the single session the token belongs to.
func (s *AuthService) RevokeToken(userID, token string) error {
	err := s.tokenRepository.Delete(userID, token)
	if err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		return err
	}
	return nil
}

// RevokeAll clears the user's entire session set.
func (s *AuthService) RevokeAll(userID string) error {
	return s.tokenRepository.DeleteAllForUser(userID)
}
