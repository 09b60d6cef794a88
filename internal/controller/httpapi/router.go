// Package httpapi exposes the lifecycle operations as a JSON API
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/skillswap/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handlers struct {
	users         *service.UserService
	requests      *service.RequestService
	sessions      *service.SessionService
	notifications *service.NotificationService
	skills        *service.SkillService
	logger        *zap.Logger
}

func NewHandlers(
	users *service.UserService,
	requests *service.RequestService,
	sessions *service.SessionService,
	notifications *service.NotificationService,
	skills *service.SkillService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		users:         users,
		requests:      requests,
		sessions:      sessions,
		notifications: notifications,
		skills:        skills,
		logger:        logger,
	}
}

// NewRouter builds the chi router with middlewares and all routes
func NewRouter(h *Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(withRequestID)
	r.Use(requestLogger(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", HeaderUserID, HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticated)
		h.SetupRoutes(r)
	})

	return r
}

func (h *Handlers) SetupRoutes(r chi.Router) {
	r.Route("/requests", func(r chi.Router) {
		r.Post("/", h.createRequest)
		r.Get("/", h.listRequests)
		r.Get("/summary", h.requestSummary)
		r.Get("/{id}", h.getRequest)
		r.Post("/{id}/accept", h.acceptRequest)
		r.Post("/{id}/reject", h.rejectRequest)
		r.Post("/{id}/cancel", h.cancelRequest)
		r.Delete("/{id}", h.deleteRequest)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Get("/", h.listSessions)
		r.Get("/summary", h.sessionSummary)
		r.Get("/{id}", h.getSession)
		r.Post("/{id}/start", h.startSession)
		r.Post("/{id}/complete", h.completeSession)
		r.Post("/{id}/cancel", h.cancelSession)
		r.Post("/{id}/feedback", h.sessionFeedback)
		r.Delete("/{id}", h.deleteSession)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.listNotifications)
		r.Post("/read-all", h.markAllNotificationsRead)
		r.Post("/{id}/read", h.markNotificationRead)
	})

	r.Post("/skills/{id}/profile", h.addSkill)
	r.Delete("/skills/{id}/profile", h.removeSkill)
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	ok(w, "ok", nil)
}

// pathID parses the {id} URL parameter
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
