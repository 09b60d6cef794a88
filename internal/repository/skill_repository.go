package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/repository/base"
	"github.com/Freeeeeet/skillswap/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SkillRepository struct {
	*base.Repository
}

func NewSkillRepository(pool *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает навык по ID
func (r *SkillRepository) GetByID(ctx context.Context, id int64) (*model.Skill, error) {
	query := `
		SELECT id, category_id, name, description, level, created_at
		FROM category_skills
		WHERE id = $1
	`

	var (
		skill model.Skill
		level string
	)
	err := r.QueryRow(ctx, query, id).Scan(
		&skill.ID,
		&skill.CategoryID,
		&skill.Name,
		&skill.Description,
		&level,
		&skill.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get skill by id: %w", err)
	}

	skill.Level = model.SkillLevel(level)
	return &skill, nil
}

// GetUserSkill получает связь пользователя и навыка
func (r *SkillRepository) GetUserSkill(ctx context.Context, userID, skillID int64) (*model.UserSkill, error) {
	query := `
		SELECT id, user_id, skill_id, added_at
		FROM user_skills
		WHERE user_id = $1 AND skill_id = $2
	`

	var us model.UserSkill
	err := r.QueryRow(ctx, query, userID, skillID).Scan(&us.ID, &us.UserID, &us.SkillID, &us.AddedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user skill: %w", err)
	}

	return &us, nil
}

// AddUserSkill добавляет навык в профиль
func (r *SkillRepository) AddUserSkill(ctx context.Context, us *model.UserSkill) error {
	query := `
		INSERT INTO user_skills (user_id, skill_id, added_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.QueryRow(ctx, query, us.UserID, us.SkillID, us.AddedAt).Scan(&us.ID)
	if err != nil {
		if base.IsUniqueViolation(err, "") {
			return service.ErrUserSkillExists
		}
		return fmt.Errorf("add user skill: %w", err)
	}

	return nil
}

// DeleteUserSkill удаляет навык из профиля
func (r *SkillRepository) DeleteUserSkill(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM user_skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user skill: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("user skill not found")
	}

	return nil
}

// UserSkillExists проверяет существование связи
func (r *SkillRepository) UserSkillExists(ctx context.Context, id int64) (bool, error) {
	exists, err := r.Exists(ctx, `SELECT EXISTS(SELECT 1 FROM user_skills WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check user skill exists: %w", err)
	}
	return exists, nil
}
