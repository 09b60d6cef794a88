package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `id, request_id, teacher_id, learner_id, skill_id, title, description, session_type, location,
	scheduled_date, duration_minutes, status, created_at, updated_at, completed_at,
	teacher_rating, teacher_feedback, learner_rating, learner_feedback`

type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новую сессию
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO skill_sessions (request_id, teacher_id, learner_id, skill_id, title, description,
			session_type, location, scheduled_date, duration_minutes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := r.QueryRow(
		ctx, query,
		s.RequestID,
		s.TeacherID,
		s.LearnerID,
		s.SkillID,
		s.Title,
		s.Description,
		string(s.SessionType),
		s.Location,
		s.ScheduledDate,
		s.DurationMinutes,
		string(s.Status),
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&s.ID)

	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetByID получает сессию по ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM skill_sessions WHERE id = $1`

	s, err := scanSession(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return s, nil
}

// List получает сессии по фильтру, новые первыми
func (r *SessionRepository) List(ctx context.Context, filter model.SessionFilter) ([]*model.Session, error) {
	where := sessionWhere(filter)
	query := `SELECT ` + sessionColumns + ` FROM skill_sessions` + where.SQL() + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// Count подсчитывает сессии по фильтру
func (r *SessionRepository) Count(ctx context.Context, filter model.SessionFilter) (int, error) {
	where := sessionWhere(filter)

	var count int
	err := r.QueryRow(ctx, `SELECT COUNT(*) FROM skill_sessions`+where.SQL(), where.Args()...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}

	return count, nil
}

// TransitionStatus обновляет статус, только если текущий статус входит в from
func (r *SessionRepository) TransitionStatus(ctx context.Context, id int64, from []model.SessionStatus, to model.SessionStatus, completedAt *time.Time, now time.Time) (bool, error) {
	query := `
		UPDATE skill_sessions
		SET status = $1, updated_at = $2, completed_at = COALESCE($3, completed_at)
		WHERE id = $4 AND status = ANY($5)
	`

	affected, err := r.ExecAffected(ctx, query, string(to), now, completedAt, id, sessionStatuses(from))
	if err != nil {
		return false, fmt.Errorf("update session status: %w", err)
	}

	return affected > 0, nil
}

// SaveFeedback сохраняет оценку и отзыв участника
func (r *SessionRepository) SaveFeedback(ctx context.Context, id int64, role model.Role, rating int, feedback string, now time.Time) error {
	var query string
	switch role {
	case model.RoleTeacher:
		query = `UPDATE skill_sessions SET teacher_rating = $1, teacher_feedback = $2, updated_at = $3 WHERE id = $4`
	case model.RoleLearner:
		query = `UPDATE skill_sessions SET learner_rating = $1, learner_feedback = $2, updated_at = $3 WHERE id = $4`
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	affected, err := r.ExecAffected(ctx, query, rating, feedback, now, id)
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

// Delete удаляет сессию
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM skill_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

// Exists проверяет существование сессии
func (r *SessionRepository) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := r.Repository.Exists(ctx, `SELECT EXISTS(SELECT 1 FROM skill_sessions WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check session exists: %w", err)
	}
	return exists, nil
}

func sessionWhere(filter model.SessionFilter) *base.Where {
	where := &base.Where{}
	if filter.TeacherID != 0 {
		where.Add("teacher_id = ?", filter.TeacherID)
	}
	if filter.LearnerID != 0 {
		where.Add("learner_id = ?", filter.LearnerID)
	}
	if filter.RequestID != 0 {
		where.Add("request_id = ?", filter.RequestID)
	}
	if len(filter.Statuses) > 0 {
		where.Add("status = ANY(?)", sessionStatuses(filter.Statuses))
	}
	return where
}

func sessionStatuses(list []model.SessionStatus) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, string(s))
	}
	return out
}

func scanSession(row rowScanner) (*model.Session, error) {
	var (
		s           model.Session
		sessionType string
		status      string
	)
	err := row.Scan(
		&s.ID,
		&s.RequestID,
		&s.TeacherID,
		&s.LearnerID,
		&s.SkillID,
		&s.Title,
		&s.Description,
		&sessionType,
		&s.Location,
		&s.ScheduledDate,
		&s.DurationMinutes,
		&status,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.CompletedAt,
		&s.TeacherRating,
		&s.TeacherFeedback,
		&s.LearnerRating,
		&s.LearnerFeedback,
	)
	if err != nil {
		return nil, err
	}
	s.SessionType = model.SessionType(sessionType)
	s.Status = model.SessionStatus(status)
	return &s, nil
}
