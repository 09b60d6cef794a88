package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/repository/base"
	"github.com/Freeeeeet/skillswap/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

const activeRequestIndex = "skill_requests_active_uniq"

const requestColumns = `id, requester_id, receiver_id, skill_id, status, description, created_at, updated_at, responded_at`

type RequestRepository struct {
	*base.Repository
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{Repository: base.NewRepository(pool)}
}

// Create создает заявку
func (r *RequestRepository) Create(ctx context.Context, req *model.Request) error {
	query := `
		INSERT INTO skill_requests (requester_id, receiver_id, skill_id, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.QueryRow(
		ctx, query,
		req.RequesterID,
		req.ReceiverID,
		req.SkillID,
		string(req.Status),
		req.Description,
		req.CreatedAt,
		req.UpdatedAt,
	).Scan(&req.ID)

	if err != nil {
		if base.IsUniqueViolation(err, activeRequestIndex) {
			return service.ErrActiveRequestExists
		}
		return fmt.Errorf("create request: %w", err)
	}

	return nil
}

// GetByID получает заявку по ID
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*model.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM skill_requests WHERE id = $1`

	req, err := scanRequest(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}

	return req, nil
}

// FindActive получает pending или accepted заявку для тройки
func (r *RequestRepository) FindActive(ctx context.Context, requesterID, receiverID, skillID int64) (*model.Request, error) {
	query := `SELECT ` + requestColumns + `
		FROM skill_requests
		WHERE requester_id = $1 AND receiver_id = $2 AND skill_id = $3 AND status IN ('P', 'A')
		LIMIT 1
	`

	req, err := scanRequest(r.QueryRow(ctx, query, requesterID, receiverID, skillID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active request: %w", err)
	}

	return req, nil
}

// List получает заявки по фильтру, новые первыми
func (r *RequestRepository) List(ctx context.Context, filter model.RequestFilter) ([]*model.Request, error) {
	where := requestWhere(filter)
	query := `SELECT ` + requestColumns + ` FROM skill_requests` + where.SQL() + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []*model.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return requests, nil
}

// Count подсчитывает заявки по фильтру
func (r *RequestRepository) Count(ctx context.Context, filter model.RequestFilter) (int, error) {
	where := requestWhere(filter)

	var count int
	err := r.QueryRow(ctx, `SELECT COUNT(*) FROM skill_requests`+where.SQL(), where.Args()...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}

	return count, nil
}

// TransitionStatus обновляет статус, только если он не изменился с момента чтения
func (r *RequestRepository) TransitionStatus(ctx context.Context, id int64, from, to model.RequestStatus, respondedAt *time.Time, now time.Time) (bool, error) {
	query := `
		UPDATE skill_requests
		SET status = $1, updated_at = $2, responded_at = COALESCE($3, responded_at)
		WHERE id = $4 AND status = $5
	`

	affected, err := r.ExecAffected(ctx, query, string(to), now, respondedAt, id, string(from))
	if err != nil {
		return false, fmt.Errorf("update request status: %w", err)
	}

	return affected > 0, nil
}

// Delete удаляет заявку, сессии удаляются каскадно (ON DELETE CASCADE)
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM skill_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("request not found")
	}

	return nil
}

// Exists проверяет существование заявки
func (r *RequestRepository) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := r.Repository.Exists(ctx, `SELECT EXISTS(SELECT 1 FROM skill_requests WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check request exists: %w", err)
	}
	return exists, nil
}

func requestWhere(filter model.RequestFilter) *base.Where {
	where := &base.Where{}
	if filter.RequesterID != 0 {
		where.Add("requester_id = ?", filter.RequesterID)
	}
	if filter.ReceiverID != 0 {
		where.Add("receiver_id = ?", filter.ReceiverID)
	}
	if filter.SkillID != 0 {
		where.Add("skill_id = ?", filter.SkillID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		where.Add("status = ANY(?)", statuses)
	}
	return where
}

func scanRequest(row rowScanner) (*model.Request, error) {
	var (
		req    model.Request
		status string
	)
	err := row.Scan(
		&req.ID,
		&req.RequesterID,
		&req.ReceiverID,
		&req.SkillID,
		&status,
		&req.Description,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Status = model.RequestStatus(status)
	return &req, nil
}
