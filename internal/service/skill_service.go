package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/skillswap/internal/model"
	"go.uber.org/zap"
)

// SkillService manages the skills a user lists on their profile
type SkillService struct {
	skillRepo SkillStore
	userRepo  UserStore
	notifier  Notifier
	clock     Clock
	logger    *zap.Logger
}

func NewSkillService(skillRepo SkillStore, userRepo UserStore, notifier Notifier, clock Clock, logger *zap.Logger) *SkillService {
	return &SkillService{
		skillRepo: skillRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		clock:     clock,
		logger:    logger,
	}
}

// AddToProfile links a skill to the user's profile
func (s *SkillService) AddToProfile(ctx context.Context, userID, skillID int64) (*model.UserSkill, error) {
	const op = "skill.AddToProfile"

	skill, err := s.resolve(ctx, op, userID, skillID)
	if err != nil {
		return nil, err
	}

	existing, err := s.skillRepo.GetUserSkill(ctx, userID, skillID)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get user skill: %w", err))
	}
	if existing != nil {
		return nil, conflictError(op, "Skill already in your profile!")
	}

	us := &model.UserSkill{
		UserID:  userID,
		SkillID: skillID,
		AddedAt: s.clock.Now(),
	}
	if err := s.skillRepo.AddUserSkill(ctx, us); err != nil {
		if errors.Is(err, ErrUserSkillExists) {
			return nil, conflictError(op, "Skill already in your profile!")
		}
		return nil, storageError(op, fmt.Errorf("add user skill: %w", err))
	}

	s.logger.Info("Skill added to profile",
		zap.Int64("user_id", userID),
		zap.Int64("skill_id", skillID),
	)

	s.notifier.Emit(ctx, userID, model.NotificationSkillAdded,
		"Skill Added",
		fmt.Sprintf("Skill %q has been added to your profile successfully!", skill.Name),
		model.UserSkillRef(us.ID), nil,
	)

	return us, nil
}

// RemoveFromProfile unlinks a skill from the user's profile
func (s *SkillService) RemoveFromProfile(ctx context.Context, userID, skillID int64) error {
	const op = "skill.RemoveFromProfile"

	skill, err := s.resolve(ctx, op, userID, skillID)
	if err != nil {
		return err
	}

	us, err := s.skillRepo.GetUserSkill(ctx, userID, skillID)
	if err != nil {
		return storageError(op, fmt.Errorf("get user skill: %w", err))
	}
	if us == nil {
		return notFoundError(op, "Skill not found in your profile!")
	}

	// Уведомление создаём до удаления, ссылка на связь не сохраняется
	s.notifier.Emit(ctx, userID, model.NotificationSkillRemoved,
		"Skill Removed",
		fmt.Sprintf("Skill %q has been removed from your profile.", skill.Name),
		model.Related{}, map[string]string{"skill_name": skill.Name},
	)

	if err := s.skillRepo.DeleteUserSkill(ctx, us.ID); err != nil {
		return storageError(op, fmt.Errorf("delete user skill: %w", err))
	}

	s.logger.Info("Skill removed from profile",
		zap.Int64("user_id", userID),
		zap.Int64("skill_id", skillID),
	)
	return nil
}

func (s *SkillService) resolve(ctx context.Context, op string, userID, skillID int64) (*model.Skill, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, notFoundError(op, "User not found.")
	}

	skill, err := s.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get skill: %w", err))
	}
	if skill == nil {
		return nil, notFoundError(op, "Skill not found.")
	}
	return skill, nil
}
