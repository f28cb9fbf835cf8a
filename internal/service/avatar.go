package service

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/tasklift/tasklift/internal/repository"
)

// AvatarService normalizes uploaded images and stores them on the user row.
// Every stored avatar is a dim×dim PNG regardless of the upload format.
type AvatarService struct {
	userRepository repository.UserRepository
	dim            int
}

func NewAvatarService(userRepository repository.UserRepository, dim int) *AvatarService {
	return &AvatarService{
		userRepository: userRepository,
		dim:            dim,
	}
}

// Process decodes an uploaded image, resizes it to the configured square
// and re-encodes it as PNG.
func (s *AvatarService) Process(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("unable to decode image: %w", err)
	}

	resized := imaging.Resize(img, s.dim, s.dim, imaging.Lanczos)

	var buf bytes.Buffer
	err = imaging.Encode(&buf, resized, imaging.PNG)
	if err != nil {
		return nil, fmt.Errorf("unable to encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}

// Set processes the upload and persists the result on the user.
func (s *AvatarService) Set(userID string, upload io.Reader) error {
	data, err := s.Process(upload)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return err
	}

	user.Avatar = data
	user.UpdatedAt = time.Now()

	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}

	slog.Info("avatar updated", "user_id", userID, "bytes", len(data))
	return nil
}

// ByUserID returns the stored PNG bytes. A user without an avatar is
// indistinguishable from a missing user.
func (s *AvatarService) ByUserID(userID string) ([]byte, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}

	if !user.HasAvatar() {
		return nil, repository.ErrUserNotFound
	}

	return user.Avatar, nil
}

// Clear drops the stored avatar.
func (s *AvatarService) Clear(userID string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return err
	}

	user.Avatar = nil
	user.UpdatedAt = time.Now()

	return s.userRepository.Update(user)
}
