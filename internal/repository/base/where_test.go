package base

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhere(t *testing.T) {
	w := &Where{}
	assert.Equal(t, "", w.SQL())
	assert.Empty(t, w.Args())

	w.Add("teacher_id = ?", int64(5))
	w.Add("status = ANY(?)", []string{"S", "A"})

	assert.Equal(t, " WHERE teacher_id = $1 AND status = ANY($2)", w.SQL())
	assert.Equal(t, []interface{}{int64(5), []string{"S", "A"}}, w.Args())
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("create request: %w", &pgconn.PgError{Code: "23505", ConstraintName: "skill_requests_active_uniq"})

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "skill_requests_active_uniq"))
	assert.False(t, IsUniqueViolation(err, "user_skills_user_id_skill_id_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsNotFound(errors.New("other")))
}
