package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/skillswap/internal/model"
	"go.uber.org/zap"
)

// UserService resolves identities for the transports
type UserService struct {
	userRepo UserStore
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetByID returns the user or a not-found error
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const op = "user.GetByID"

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get user by id: %w", err))
	}
	if user == nil {
		return nil, notFoundError(op, "User not found.")
	}
	return user, nil
}

// GetByTelegramID returns the user linked to a Telegram account, (nil, nil) if none
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		s.logger.Error("Failed to get user by telegram id", zap.Int64("telegram_id", telegramID), zap.Error(err))
		return nil, storageError("user.GetByTelegramID", fmt.Errorf("get user by telegram id: %w", err))
	}
	return user, nil
}
