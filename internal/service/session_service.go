package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/skillswap/internal/model"
	"go.uber.org/zap"
)

type SessionService struct {
	sessionRepo SessionStore
	requestRepo RequestStore
	userRepo    UserStore
	notifier    Notifier
	clock       Clock
	logger      *zap.Logger
}

func NewSessionService(
	sessionRepo SessionStore,
	requestRepo RequestStore,
	userRepo UserStore,
	notifier Notifier,
	clock Clock,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		clock:       clock,
		logger:      logger,
	}
}

// CreateSessionInput holds the fields of a new session
type CreateSessionInput struct {
	RequestID       int64
	Title           string
	SessionType     model.SessionType
	Location        string
	ScheduledDate   time.Time
	DurationMinutes int
	Description     string
}

// ============ Lifecycle ============

// Create schedules a session for an accepted request. Either participant may call it;
// the teacher is always the receiver and the learner the requester.
func (s *SessionService) Create(ctx context.Context, actorID int64, in CreateSessionInput) (*model.Session, error) {
	const op = "session.Create"

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)

	if in.RequestID == 0 || in.Title == "" || in.ScheduledDate.IsZero() {
		return nil, validationError(op, "Required fields are missing.")
	}
	if in.SessionType == "" {
		in.SessionType = model.SessionTypeOnline
	}
	if !in.SessionType.IsValid() {
		return nil, validationError(op, "Unknown session type.")
	}
	if in.DurationMinutes < 0 {
		return nil, validationError(op, "Duration must be a positive number of minutes.")
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = model.DefaultSessionDuration
	}
	if utf8.RuneCountInString(in.Title) > model.MaxSessionTitle {
		return nil, validationError(op, fmt.Sprintf("Title must be at most %d characters.", model.MaxSessionTitle))
	}
	if utf8.RuneCountInString(in.Description) > model.MaxSessionDescription {
		return nil, validationError(op, fmt.Sprintf("Description must be at most %d characters.", model.MaxSessionDescription))
	}
	if utf8.RuneCountInString(in.Location) > model.MaxSessionLocation {
		return nil, validationError(op, fmt.Sprintf("Location must be at most %d characters.", model.MaxSessionLocation))
	}

	req, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get request: %w", err))
	}
	if req == nil {
		return nil, notFoundError(op, "Request not found.")
	}
	if !req.IsParticipant(actorID) {
		return nil, forbiddenError(op, "You are not authorized to create a session for this request.")
	}
	if !req.IsAccepted() {
		return nil, invalidStateError(op, "Only accepted requests can have sessions created.")
	}

	now := s.clock.Now()
	session := &model.Session{
		RequestID:       req.ID,
		TeacherID:       req.ReceiverID,
		LearnerID:       req.RequesterID,
		SkillID:         req.SkillID,
		Title:           in.Title,
		Description:     in.Description,
		SessionType:     in.SessionType,
		Location:        in.Location,
		ScheduledDate:   in.ScheduledDate,
		DurationMinutes: in.DurationMinutes,
		Status:          model.SessionStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error("Failed to create session", zap.Int64("request_id", req.ID), zap.Error(err))
		return nil, storageError(op, fmt.Errorf("create session: %w", err))
	}

	s.logger.Info("Session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("request_id", req.ID),
		zap.Int64("teacher_id", session.TeacherID),
		zap.Int64("learner_id", session.LearnerID),
	)

	// Уведомляем обоих участников
	teacherName := s.userName(ctx, session.TeacherID)
	learnerName := s.userName(ctx, session.LearnerID)
	s.notifier.Emit(ctx, session.TeacherID, model.NotificationSessionCreated,
		"Session Created",
		fmt.Sprintf("New session %q has been created with %s.", session.Title, learnerName),
		model.SessionRef(session.ID), nil,
	)
	s.notifier.Emit(ctx, session.LearnerID, model.NotificationSessionCreated,
		"Session Created",
		fmt.Sprintf("New session %q has been created with %s.", session.Title, teacherName),
		model.SessionRef(session.ID), nil,
	)

	return session, nil
}

// Start moves a scheduled session to active. Only the teacher can start it.
func (s *SessionService) Start(ctx context.Context, sessionID, actorID int64) (*model.Session, error) {
	const op = "session.Start"

	session, err := s.get(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TeacherID != actorID {
		return nil, forbiddenError(op, "Only teachers can start sessions.")
	}
	if session.Status != model.SessionStatusScheduled {
		return nil, invalidStateError(op, "Only scheduled sessions can be started.")
	}

	now := s.clock.Now()
	from := []model.SessionStatus{model.SessionStatusScheduled}
	if err := s.transition(ctx, op, session, from, model.SessionStatusActive, nil, now); err != nil {
		return nil, err
	}

	s.logger.Info("Session started",
		zap.Int64("session_id", sessionID),
		zap.Int64("teacher_id", actorID),
	)

	s.notifier.Emit(ctx, session.LearnerID, model.NotificationSessionStarted,
		"Session Started",
		fmt.Sprintf("Your session %q with %s has started!", session.Title, s.userName(ctx, actorID)),
		model.SessionRef(session.ID), nil,
	)

	return session, nil
}

// Complete marks a scheduled or active session as completed and notifies the other participant
func (s *SessionService) Complete(ctx context.Context, sessionID, actorID int64) (*model.Session, error) {
	const op = "session.Complete"

	session, err := s.getForParticipant(ctx, op, sessionID, actorID)
	if err != nil {
		return nil, err
	}

	from := []model.SessionStatus{model.SessionStatusScheduled, model.SessionStatusActive}
	if !containsStatus(from, session.Status) {
		return nil, invalidStateError(op, "Only scheduled or active sessions can be marked as completed.")
	}

	now := s.clock.Now()
	if err := s.transition(ctx, op, session, from, model.SessionStatusCompleted, &now, now); err != nil {
		return nil, err
	}

	s.logger.Info("Session completed",
		zap.Int64("session_id", sessionID),
		zap.Int64("actor_id", actorID),
	)

	s.notifier.Emit(ctx, session.Counterpart(actorID), model.NotificationSessionCompleted,
		"Session Completed",
		fmt.Sprintf("Session %q has been marked as completed by %s.", session.Title, s.userName(ctx, actorID)),
		model.SessionRef(session.ID), nil,
	)

	return session, nil
}

// Cancel cancels a session that is not completed yet; reason is required
func (s *SessionService) Cancel(ctx context.Context, sessionID, actorID int64, reason string) (*model.Session, error) {
	const op = "session.Cancel"

	session, err := s.getForParticipant(ctx, op, sessionID, actorID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case model.SessionStatusCompleted:
		return nil, invalidStateError(op, "Completed sessions cannot be cancelled.")
	case model.SessionStatusCancelled:
		return nil, invalidStateError(op, "This session has already been cancelled.")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationError(op, "Please provide a reason for cancellation.")
	}

	now := s.clock.Now()
	from := []model.SessionStatus{model.SessionStatusPending, model.SessionStatusScheduled, model.SessionStatusActive}
	if err := s.transition(ctx, op, session, from, model.SessionStatusCancelled, nil, now); err != nil {
		return nil, err
	}

	s.logger.Info("Session cancelled",
		zap.Int64("session_id", sessionID),
		zap.Int64("actor_id", actorID),
	)

	s.notifier.Emit(ctx, session.Counterpart(actorID), model.NotificationSessionCancelled,
		"Session Cancelled",
		fmt.Sprintf("Session %q has been cancelled by %s. Reason: %s", session.Title, s.userName(ctx, actorID), reason),
		model.SessionRef(session.ID), map[string]string{"reason": reason},
	)

	return session, nil
}

// Delete hard-deletes the session. Either participant may do it.
func (s *SessionService) Delete(ctx context.Context, sessionID, actorID int64) error {
	const op = "session.Delete"

	if _, err := s.getForParticipant(ctx, op, sessionID, actorID); err != nil {
		return err
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		s.logger.Error("Failed to delete session", zap.Int64("session_id", sessionID), zap.Error(err))
		return storageError(op, fmt.Errorf("delete session: %w", err))
	}

	s.logger.Info("Session deleted",
		zap.Int64("session_id", sessionID),
		zap.Int64("actor_id", actorID),
	)
	return nil
}

// SubmitFeedback stores the caller's own rating and feedback. No status precondition.
func (s *SessionService) SubmitFeedback(ctx context.Context, sessionID, actorID int64, rating int, feedback string) (*model.Session, error) {
	const op = "session.SubmitFeedback"

	session, err := s.get(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}
	role, ok := session.RoleOf(actorID)
	if !ok {
		return nil, forbiddenError(op, "Unauthorized")
	}

	feedback = strings.TrimSpace(feedback)
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, validationError(op, fmt.Sprintf("Rating must be between %d and %d.", model.MinRating, model.MaxRating))
	}
	if utf8.RuneCountInString(feedback) > model.MaxFeedback {
		return nil, validationError(op, fmt.Sprintf("Feedback must be at most %d characters.", model.MaxFeedback))
	}

	now := s.clock.Now()
	if err := s.sessionRepo.SaveFeedback(ctx, sessionID, role, rating, feedback, now); err != nil {
		s.logger.Error("Failed to save feedback", zap.Int64("session_id", sessionID), zap.Error(err))
		return nil, storageError(op, fmt.Errorf("save feedback: %w", err))
	}

	r := rating
	switch role {
	case model.RoleTeacher:
		session.TeacherRating = &r
		session.TeacherFeedback = feedback
	case model.RoleLearner:
		session.LearnerRating = &r
		session.LearnerFeedback = feedback
	}
	session.UpdatedAt = now

	s.logger.Info("Feedback submitted",
		zap.Int64("session_id", sessionID),
		zap.String("role", string(role)),
		zap.Int("rating", rating),
	)

	return session, nil
}

// ============ Queries ============

// Get returns a session visible to one of its participants
func (s *SessionService) Get(ctx context.Context, sessionID, actorID int64) (*model.Session, error) {
	return s.getForParticipant(ctx, "session.Get", sessionID, actorID)
}

// ListTeaching returns sessions where user teaches
func (s *SessionService) ListTeaching(ctx context.Context, userID int64, status model.SessionStatus) ([]*model.Session, error) {
	return s.list(ctx, "session.ListTeaching", model.SessionFilter{TeacherID: userID}, status)
}

// ListLearning returns sessions where user learns
func (s *SessionService) ListLearning(ctx context.Context, userID int64, status model.SessionStatus) ([]*model.Session, error) {
	return s.list(ctx, "session.ListLearning", model.SessionFilter{LearnerID: userID}, status)
}

func (s *SessionService) list(ctx context.Context, op string, filter model.SessionFilter, status model.SessionStatus) ([]*model.Session, error) {
	if status != "" {
		if !status.IsValid() {
			return nil, validationError(op, "Unknown session status.")
		}
		filter.Statuses = []model.SessionStatus{status}
	}

	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("list sessions: %w", err))
	}
	return sessions, nil
}

// Summary counts scheduled and completed sessions on both sides
func (s *SessionService) Summary(ctx context.Context, userID int64) (*model.SessionSummary, error) {
	const op = "session.Summary"

	scheduled := []model.SessionStatus{model.SessionStatusScheduled}
	completed := []model.SessionStatus{model.SessionStatusCompleted}

	var summary model.SessionSummary
	counters := map[*int]model.SessionFilter{
		&summary.ScheduledTeaching: {TeacherID: userID, Statuses: scheduled},
		&summary.ScheduledLearning: {LearnerID: userID, Statuses: scheduled},
		&summary.CompletedTeaching: {TeacherID: userID, Statuses: completed},
		&summary.CompletedLearning: {LearnerID: userID, Statuses: completed},
	}

	for dst, filter := range counters {
		n, err := s.sessionRepo.Count(ctx, filter)
		if err != nil {
			return nil, storageError(op, fmt.Errorf("count sessions: %w", err))
		}
		*dst = n
	}

	return &summary, nil
}

// ============ Helpers ============

func (s *SessionService) get(ctx context.Context, op string, sessionID int64) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get session: %w", err))
	}
	if session == nil {
		return nil, notFoundError(op, "Session not found.")
	}
	return session, nil
}

func (s *SessionService) getForParticipant(ctx context.Context, op string, sessionID, actorID int64) (*model.Session, error) {
	session, err := s.get(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := session.RoleOf(actorID); !ok {
		return nil, forbiddenError(op, "You are not a participant of this session.")
	}
	return session, nil
}

func (s *SessionService) transition(
	ctx context.Context,
	op string,
	session *model.Session,
	from []model.SessionStatus,
	to model.SessionStatus,
	completedAt *time.Time,
	now time.Time,
) error {
	ok, err := s.sessionRepo.TransitionStatus(ctx, session.ID, from, to, completedAt, now)
	if err != nil {
		s.logger.Error("Failed to update session status",
			zap.Int64("session_id", session.ID),
			zap.String("to", string(to)),
			zap.Error(err),
		)
		return storageError(op, fmt.Errorf("update session status: %w", err))
	}
	if !ok {
		return invalidStateError(op, "This session has already been processed.")
	}

	session.Status = to
	session.UpdatedAt = now
	if completedAt != nil {
		session.CompletedAt = completedAt
	}
	return nil
}

func (s *SessionService) userName(ctx context.Context, userID int64) string {
	return lookupUserName(ctx, s.userRepo, s.logger, userID)
}

func containsStatus(list []model.SessionStatus, status model.SessionStatus) bool {
	for _, st := range list {
		if st == status {
			return true
		}
	}
	return false
}
