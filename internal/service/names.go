package service

import (
	"context"

	"go.uber.org/zap"
)

// Names only decorate notification text, so lookup failures fall back to
// placeholders instead of failing the transition.

func lookupUserName(ctx context.Context, users UserStore, logger *zap.Logger, userID int64) string {
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to resolve user name", zap.Int64("user_id", userID), zap.Error(err))
	}
	if u == nil {
		return "Someone"
	}
	return u.FullName()
}

func lookupSkillName(ctx context.Context, skills SkillStore, logger *zap.Logger, skillID int64) string {
	sk, err := skills.GetByID(ctx, skillID)
	if err != nil {
		logger.Warn("Failed to resolve skill name", zap.Int64("skill_id", skillID), zap.Error(err))
	}
	if sk == nil {
		return "a skill"
	}
	return sk.Name
}
