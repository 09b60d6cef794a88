package memory

import (
	"context"
	"time"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/service"
)

type RequestRepository struct{ s *Store }

func (r *RequestRepository) Create(_ context.Context, req *model.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if req.Status.IsActive() && r.findActive(req.RequesterID, req.ReceiverID, req.SkillID) != nil {
		return service.ErrActiveRequestExists
	}

	req.ID = r.s.nextID()
	cp := *req
	r.s.requests[req.ID] = &cp
	return nil
}

func (r *RequestRepository) GetByID(_ context.Context, id int64) (*model.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *RequestRepository) FindActive(_ context.Context, requesterID, receiverID, skillID int64) (*model.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req := r.findActive(requesterID, receiverID, skillID)
	if req == nil {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *RequestRepository) findActive(requesterID, receiverID, skillID int64) *model.Request {
	for _, req := range r.s.requests {
		if req.RequesterID == requesterID && req.ReceiverID == receiverID &&
			req.SkillID == skillID && req.Status.IsActive() {
			return req
		}
	}
	return nil
}

func (r *RequestRepository) List(_ context.Context, filter model.RequestFilter) ([]*model.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Request
	for _, req := range r.s.requests {
		if matchRequest(req, filter) {
			cp := *req
			out = append(out, &cp)
		}
	}
	newestFirst(out,
		func(x *model.Request) int64 { return x.CreatedAt.UnixNano() },
		func(x *model.Request) int64 { return x.ID },
	)
	return out, nil
}

func (r *RequestRepository) Count(_ context.Context, filter model.RequestFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, req := range r.s.requests {
		if matchRequest(req, filter) {
			n++
		}
	}
	return n, nil
}

func (r *RequestRepository) TransitionStatus(_ context.Context, id int64, from, to model.RequestStatus, respondedAt *time.Time, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}

	req.Status = to
	req.UpdatedAt = now
	if respondedAt != nil {
		t := *respondedAt
		req.RespondedAt = &t
	}
	return true, nil
}

// Delete removes the request and cascades to its sessions
func (r *RequestRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.requests[id]; !ok {
		return errNotFound("request")
	}
	delete(r.s.requests, id)

	for sid, sess := range r.s.sessions {
		if sess.RequestID == id {
			delete(r.s.sessions, sid)
		}
	}
	return nil
}

func (r *RequestRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.requests[id]
	return ok, nil
}

func matchRequest(req *model.Request, f model.RequestFilter) bool {
	if f.RequesterID != 0 && req.RequesterID != f.RequesterID {
		return false
	}
	if f.ReceiverID != 0 && req.ReceiverID != f.ReceiverID {
		return false
	}
	if f.SkillID != 0 && req.SkillID != f.SkillID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, st := range f.Statuses {
		if req.Status == st {
			return true
		}
	}
	return false
}
