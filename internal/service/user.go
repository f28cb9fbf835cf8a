package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tasklift/tasklift/internal/model"
	"github.com/tasklift/tasklift/internal/repository"
	"github.com/tasklift/tasklift/internal/validation"
)

// ProfileUpdate carries the allow-listed PATCH /users/me fields. Nil means
// the field was absent from the request.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

type UserService struct {
	userRepository repository.UserRepository
	authService    *AuthService
}

func NewUserService(userRepository repository.UserRepository, authService *AuthService) *UserService {
	return &UserService{
		userRepository: userRepository,
		authService:    authService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

// UpdateProfile applies the permitted updates to the user. Each field is
// re-validated, and a new password plaintext is hashed before persistence;
// untouched fields keep their stored values, so an unchanged password hash
// is never hashed a second time.
func (s *UserService) UpdateProfile(userID string, upd ProfileUpdate) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		err = validation.ValidateName(name)
		if err != nil {
			return nil, err
		}
		user.Name = name
	}

	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		err = validation.ValidateEmail(email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}

	if upd.Password != nil {
		err = validation.ValidatePassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		hash, hashErr := s.authService.HashPassword(*upd.Password)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user.PasswordHash = hash
	}

	if upd.Age != nil {
		err = validation.ValidateAge(*upd.Age)
		if err != nil {
			return nil, err
		}
		user.Age = *upd.Age
	}

	user.UpdatedAt = time.Now()

	err = s.userRepository.Update(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes the account and everything it owns. The repository runs
// the task and token deletes in the same transaction as the user row.
func (s *UserService) Delete(userID string) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	err = s.userRepository.DeleteCascade(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted", "user_id", userID, "email", user.Email)
	return user, nil
}
