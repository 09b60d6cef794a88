package model

import "time"

type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "B"
	SkillLevelIntermediate SkillLevel = "I"
	SkillLevelAdvanced     SkillLevel = "A"
)

// Display returns the human-readable level name
func (l SkillLevel) Display() string {
	switch l {
	case SkillLevelBeginner:
		return "Beginner"
	case SkillLevelIntermediate:
		return "Intermediate"
	case SkillLevelAdvanced:
		return "Advanced"
	default:
		return string(l)
	}
}

type SkillCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Skill struct {
	ID          int64      `json:"id"`
	CategoryID  int64      `json:"category_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Level       SkillLevel `json:"level"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserSkill links a user to a skill they can teach
type UserSkill struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"user_id"`
	SkillID int64     `json:"skill_id"`
	AddedAt time.Time `json:"added_at"`
}
