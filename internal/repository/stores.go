package repository

import "github.com/Freeeeeet/skillswap/internal/service"

var (
	_ service.UserStore         = (*UserRepository)(nil)
	_ service.SkillStore        = (*SkillRepository)(nil)
	_ service.RequestStore      = (*RequestRepository)(nil)
	_ service.SessionStore      = (*SessionRepository)(nil)
	_ service.NotificationStore = (*NotificationRepository)(nil)
)
