// Package memory is an in-process implementation of the service storage
// contracts. It backs the test suite and STORAGE=memory runs.
package memory

import (
	"sort"
	"sync"

	"github.com/Freeeeeet/skillswap/internal/model"
)

// Store holds all tables behind one mutex so cascades and
// compare-and-set transitions are atomic.
type Store struct {
	mu sync.RWMutex

	seq int64

	users         map[int64]*model.User
	categories    map[int64]*model.SkillCategory
	skills        map[int64]*model.Skill
	userSkills    map[int64]*model.UserSkill
	requests      map[int64]*model.Request
	sessions      map[int64]*model.Session
	notifications map[int64]*model.Notification
}

func NewStore() *Store {
	return &Store{
		users:         make(map[int64]*model.User),
		categories:    make(map[int64]*model.SkillCategory),
		skills:        make(map[int64]*model.Skill),
		userSkills:    make(map[int64]*model.UserSkill),
		requests:      make(map[int64]*model.Request),
		sessions:      make(map[int64]*model.Session),
		notifications: make(map[int64]*model.Notification),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s} }
func (s *Store) Skills() *SkillRepository               { return &SkillRepository{s} }
func (s *Store) Requests() *RequestRepository           { return &RequestRepository{s} }
func (s *Store) Sessions() *SessionRepository           { return &SessionRepository{s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s} }

// AddUser inserts a user and assigns its id
func (s *Store) AddUser(u *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = s.nextID()
	cp := *u
	s.users[u.ID] = &cp
	return u
}

// AddCategory inserts a skill category and assigns its id
func (s *Store) AddCategory(c *model.SkillCategory) *model.SkillCategory {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID()
	cp := *c
	s.categories[c.ID] = &cp
	return c
}

// AddSkill inserts a skill and assigns its id
func (s *Store) AddSkill(sk *model.Skill) *model.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk.ID = s.nextID()
	cp := *sk
	s.skills[sk.ID] = &cp
	return sk
}

// newestFirst orders by created_at desc, then id desc
func newestFirst[T any](items []T, created func(T) int64, id func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if ci != cj {
			return ci > cj
		}
		return id(items[i]) > id(items[j])
	})
}
