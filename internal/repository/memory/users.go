package memory

import (
	"context"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/service"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if telegramID == 0 {
		return nil, nil
	}
	for _, u := range r.s.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type SkillRepository struct{ s *Store }

func (r *SkillRepository) GetByID(_ context.Context, id int64) (*model.Skill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sk, ok := r.s.skills[id]
	if !ok {
		return nil, nil
	}
	cp := *sk
	return &cp, nil
}

func (r *SkillRepository) GetUserSkill(_ context.Context, userID, skillID int64) (*model.UserSkill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, us := range r.s.userSkills {
		if us.UserID == userID && us.SkillID == skillID {
			cp := *us
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SkillRepository) AddUserSkill(_ context.Context, us *model.UserSkill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.userSkills {
		if existing.UserID == us.UserID && existing.SkillID == us.SkillID {
			return service.ErrUserSkillExists
		}
	}

	us.ID = r.s.nextID()
	cp := *us
	r.s.userSkills[us.ID] = &cp
	return nil
}

func (r *SkillRepository) DeleteUserSkill(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.userSkills[id]; !ok {
		return errNotFound("user skill")
	}
	delete(r.s.userSkills, id)
	return nil
}

func (r *SkillRepository) UserSkillExists(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.userSkills[id]
	return ok, nil
}
