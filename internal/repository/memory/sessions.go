package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/skillswap/internal/model"
)

type SessionRepository struct{ s *Store }

func (r *SessionRepository) Create(_ context.Context, sess *model.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.requests[sess.RequestID]; !ok {
		return fmt.Errorf("create session: request %d does not exist", sess.RequestID)
	}

	sess.ID = r.s.nextID()
	r.s.sessions[sess.ID] = copySession(sess)
	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, id int64) (*model.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(sess), nil
}

func (r *SessionRepository) List(_ context.Context, filter model.SessionFilter) ([]*model.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Session
	for _, sess := range r.s.sessions {
		if matchSession(sess, filter) {
			out = append(out, copySession(sess))
		}
	}
	newestFirst(out,
		func(x *model.Session) int64 { return x.CreatedAt.UnixNano() },
		func(x *model.Session) int64 { return x.ID },
	)
	return out, nil
}

func (r *SessionRepository) Count(_ context.Context, filter model.SessionFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, sess := range r.s.sessions {
		if matchSession(sess, filter) {
			n++
		}
	}
	return n, nil
}

func (r *SessionRepository) TransitionStatus(_ context.Context, id int64, from []model.SessionStatus, to model.SessionStatus, completedAt *time.Time, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[id]
	if !ok || !statusIn(sess.Status, from) {
		return false, nil
	}

	sess.Status = to
	sess.UpdatedAt = now
	if completedAt != nil {
		t := *completedAt
		sess.CompletedAt = &t
	}
	return true, nil
}

func (r *SessionRepository) SaveFeedback(_ context.Context, id int64, role model.Role, rating int, feedback string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[id]
	if !ok {
		return errNotFound("session")
	}

	switch role {
	case model.RoleTeacher:
		sess.TeacherRating = &rating
		sess.TeacherFeedback = feedback
	case model.RoleLearner:
		sess.LearnerRating = &rating
		sess.LearnerFeedback = feedback
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	sess.UpdatedAt = now
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[id]; !ok {
		return errNotFound("session")
	}
	delete(r.s.sessions, id)
	return nil
}

func (r *SessionRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.sessions[id]
	return ok, nil
}

func matchSession(sess *model.Session, f model.SessionFilter) bool {
	if f.TeacherID != 0 && sess.TeacherID != f.TeacherID {
		return false
	}
	if f.LearnerID != 0 && sess.LearnerID != f.LearnerID {
		return false
	}
	if f.RequestID != 0 && sess.RequestID != f.RequestID {
		return false
	}
	return len(f.Statuses) == 0 || statusIn(sess.Status, f.Statuses)
}

func statusIn(status model.SessionStatus, list []model.SessionStatus) bool {
	for _, st := range list {
		if st == status {
			return true
		}
	}
	return false
}

// copySession detaches pointer fields from the stored row
func copySession(sess *model.Session) *model.Session {
	cp := *sess
	if sess.CompletedAt != nil {
		t := *sess.CompletedAt
		cp.CompletedAt = &t
	}
	if sess.TeacherRating != nil {
		v := *sess.TeacherRating
		cp.TeacherRating = &v
	}
	if sess.LearnerRating != nil {
		v := *sess.LearnerRating
		cp.LearnerRating = &v
	}
	return &cp
}
