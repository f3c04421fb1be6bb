package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"registration-backend/internal/common/logger"
	"registration-backend/internal/features/user/models"
	"registration-backend/internal/features/user/repository"
	"registration-backend/internal/notifications"
)

// UploadStore persists profile pictures and returns their store-relative
// paths.
type UploadStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(storedPath string) error
}

type UserService interface {
	// Register stores the picture (if any), inserts the row and fires the
	// welcome email in the background.
	Register(ctx context.Context, input models.CreateUserRequest, picture *multipart.FileHeader) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, input models.UpdateUserRequest) error
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	repo        repository.UserRepository
	uploads     UploadStore
	notifier    notifications.Notifier
	mailTimeout time.Duration
}

// NewUserService wires the service. notifier may be nil when email is
// disabled.
func NewUserService(repo repository.UserRepository, uploads UploadStore, notifier notifications.Notifier, mailTimeout time.Duration) UserService {
	if mailTimeout <= 0 {
		mailTimeout = 10 * time.Second
	}
	return &userService{
		repo:        repo,
		uploads:     uploads,
		notifier:    notifier,
		mailTimeout: mailTimeout,
	}
}

func (s *userService) Register(ctx context.Context, input models.CreateUserRequest, picture *multipart.FileHeader) (*models.User, error) {
	var storedPath string
	if picture != nil {
		path, err := s.uploads.Save(picture)
		if err != nil {
			return nil, fmt.Errorf("failed to store profile picture: %w", err)
		}
		storedPath = path
	}

	user := &models.User{
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		ProfilePicture: storedPath,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The picture was written before the insert; don't leave an
		// orphan behind.
		if storedPath != "" {
			if rmErr := s.uploads.Remove(storedPath); rmErr != nil {
				logger.Warn().Err(rmErr).Str("path", storedPath).Msg("Failed to remove orphaned upload")
			}
		}
		return nil, err
	}

	s.sendWelcome(user.Email, user.Name)

	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Update(ctx context.Context, id int64, input models.UpdateUserRequest) error {
	return s.repo.Update(ctx, id, input.Name, input.Phone)
}

// Delete removes the row first, then cleans up the stored picture.
// File-system failures after a successful row delete are logged and
// ignored: a dangling file is harmless, a dangling row is not.
func (s *userService) Delete(ctx context.Context, id int64) error {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if user.ProfilePicture != "" {
		if err := s.uploads.Remove(user.ProfilePicture); err != nil {
			logger.Warn().Err(err).Int64("user_id", id).Str("path", user.ProfilePicture).
				Msg("Failed to remove profile picture after delete")
		}
	}

	return nil
}

// sendWelcome dispatches the welcome email without blocking the request.
// The goroutine owns its own deadline; the outcome is only ever logged.
func (s *userService) sendWelcome(email, name string) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.mailTimeout)
		defer cancel()

		if err := s.notifier.SendWelcome(ctx, email, name); err != nil {
			logger.Error().Err(err).Str("email", email).Msg("Failed to send welcome email")
			return
		}
		logger.Info().Str("email", email).Msg("Welcome email sent")
	}()
}
