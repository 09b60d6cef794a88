package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/skillswap/internal/model"
	"go.uber.org/zap"
)

// Notifier records lifecycle notifications. Implemented by NotificationService.
type Notifier interface {
	Emit(ctx context.Context, recipientID int64, typ model.NotificationType, title, message string, related model.Related, data map[string]string) *model.Notification
}

type RequestService struct {
	requestRepo RequestStore
	userRepo    UserStore
	skillRepo   SkillStore
	notifier    Notifier
	clock       Clock
	logger      *zap.Logger
}

func NewRequestService(
	requestRepo RequestStore,
	userRepo UserStore,
	skillRepo SkillStore,
	notifier Notifier,
	clock Clock,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		skillRepo:   skillRepo,
		notifier:    notifier,
		clock:       clock,
		logger:      logger,
	}
}

// ============ Lifecycle ============

// Create sends a learning request from requester to receiver for a skill
func (s *RequestService) Create(ctx context.Context, requesterID, receiverID, skillID int64, description string) (*model.Request, error) {
	const op = "request.Create"

	description = strings.TrimSpace(description)
	if receiverID == 0 || skillID == 0 || description == "" {
		return nil, validationError(op, "All fields are required.")
	}
	if utf8.RuneCountInString(description) > model.MaxRequestDescription {
		return nil, validationError(op, fmt.Sprintf("Description must be at most %d characters.", model.MaxRequestDescription))
	}
	if requesterID == receiverID {
		return nil, validationError(op, "You cannot send a request to yourself.")
	}

	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get requester: %w", err))
	}
	if requester == nil {
		return nil, notFoundError(op, "User not found.")
	}

	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get receiver: %w", err))
	}
	if receiver == nil {
		return nil, validationError(op, "Receiver not found.")
	}

	skill, err := s.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get skill: %w", err))
	}
	if skill == nil {
		return nil, validationError(op, "Skill not found.")
	}

	// Проверяем, нет ли активной заявки
	if err := s.checkNoActive(ctx, op, requesterID, receiverID, skillID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	req := &model.Request{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		SkillID:     skillID,
		Status:      model.RequestStatusPending,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, ErrActiveRequestExists) {
			// lost a race with a concurrent Create
			if cerr := s.checkNoActive(ctx, op, requesterID, receiverID, skillID); cerr != nil {
				return nil, cerr
			}
			return nil, conflictError(op, "A request for this skill is pending.")
		}
		return nil, storageError(op, fmt.Errorf("create request: %w", err))
	}

	s.logger.Info("Request created",
		zap.Int64("request_id", req.ID),
		zap.Int64("requester_id", requesterID),
		zap.Int64("receiver_id", receiverID),
		zap.Int64("skill_id", skillID),
	)

	s.notifier.Emit(ctx, receiverID, model.NotificationRequestSent,
		"New Learning Request",
		fmt.Sprintf("%s wants to learn %s from you.", requester.FullName(), skill.Name),
		model.RequestRef(req.ID), nil,
	)

	return req, nil
}

func (s *RequestService) checkNoActive(ctx context.Context, op string, requesterID, receiverID, skillID int64) error {
	existing, err := s.requestRepo.FindActive(ctx, requesterID, receiverID, skillID)
	if err != nil {
		return storageError(op, fmt.Errorf("find active request: %w", err))
	}
	if existing == nil {
		return nil
	}

	statusMsg := "pending"
	if existing.IsAccepted() {
		statusMsg = "already accepted"
	}
	return conflictError(op, fmt.Sprintf("A request for this skill is %s.", statusMsg))
}

// Accept is called by the receiver of a pending request
func (s *RequestService) Accept(ctx context.Context, requestID, actorID int64) (*model.Request, error) {
	const op = "request.Accept"

	req, err := s.loadForReceiver(ctx, op, requestID, actorID, "accept")
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, invalidStateError(op, "This request has already been processed.")
	}

	now := s.clock.Now()
	if err := s.transition(ctx, op, req, model.RequestStatusAccepted, &now, now); err != nil {
		return nil, err
	}

	s.logger.Info("Request accepted",
		zap.Int64("request_id", requestID),
		zap.Int64("requester_id", req.RequesterID),
		zap.Int64("receiver_id", actorID),
	)

	s.notifier.Emit(ctx, req.RequesterID, model.NotificationRequestAccepted,
		"Request Accepted",
		fmt.Sprintf("Your request to learn %s from %s has been accepted!",
			s.skillName(ctx, req.SkillID), s.userName(ctx, actorID)),
		model.RequestRef(req.ID), nil,
	)

	return req, nil
}

// Reject is called by the receiver of a pending request; reason is required
func (s *RequestService) Reject(ctx context.Context, requestID, actorID int64, reason string) (*model.Request, error) {
	const op = "request.Reject"

	req, err := s.loadForReceiver(ctx, op, requestID, actorID, "reject")
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, invalidStateError(op, "This request has already been processed.")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationError(op, "Please provide a reason for rejection.")
	}

	now := s.clock.Now()
	if err := s.transition(ctx, op, req, model.RequestStatusRejected, &now, now); err != nil {
		return nil, err
	}

	s.logger.Info("Request rejected",
		zap.Int64("request_id", requestID),
		zap.Int64("requester_id", req.RequesterID),
		zap.Int64("receiver_id", actorID),
	)

	s.notifier.Emit(ctx, req.RequesterID, model.NotificationRequestRejected,
		"Request Rejected",
		fmt.Sprintf("Your request to learn %s from %s has been rejected. Reason: %s",
			s.skillName(ctx, req.SkillID), s.userName(ctx, actorID), reason),
		model.RequestRef(req.ID), map[string]string{"reason": reason},
	)

	return req, nil
}

// Cancel is called by the requester of a pending request; reason is required.
// Unlike Reject it leaves responded_at unset.
func (s *RequestService) Cancel(ctx context.Context, requestID, actorID int64, reason string) (*model.Request, error) {
	const op = "request.Cancel"

	req, err := s.get(ctx, op, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != actorID {
		return nil, forbiddenError(op, "Only the requester can cancel this request.")
	}
	if !req.IsPending() {
		return nil, invalidStateError(op, "Only pending requests can be cancelled.")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationError(op, "Please provide a reason for cancellation.")
	}

	now := s.clock.Now()
	if err := s.transition(ctx, op, req, model.RequestStatusCancelled, nil, now); err != nil {
		return nil, err
	}

	s.logger.Info("Request cancelled",
		zap.Int64("request_id", requestID),
		zap.Int64("requester_id", actorID),
		zap.Int64("receiver_id", req.ReceiverID),
	)

	s.notifier.Emit(ctx, req.ReceiverID, model.NotificationRequestCancelled,
		"Request Cancelled",
		fmt.Sprintf("%s has cancelled their request to learn %s. Reason: %s",
			s.userName(ctx, actorID), s.skillName(ctx, req.SkillID), reason),
		model.RequestRef(req.ID), map[string]string{"reason": reason},
	)

	return req, nil
}

// Delete hard-deletes the request and its sessions. Either participant may do it.
func (s *RequestService) Delete(ctx context.Context, requestID, actorID int64) error {
	const op = "request.Delete"

	req, err := s.get(ctx, op, requestID)
	if err != nil {
		return err
	}
	if !req.IsParticipant(actorID) {
		return forbiddenError(op, "You are not a participant of this request.")
	}

	if err := s.requestRepo.Delete(ctx, requestID); err != nil {
		s.logger.Error("Failed to delete request", zap.Int64("request_id", requestID), zap.Error(err))
		return storageError(op, fmt.Errorf("delete request: %w", err))
	}

	s.logger.Info("Request deleted",
		zap.Int64("request_id", requestID),
		zap.Int64("actor_id", actorID),
	)

	return nil
}

// ============ Queries ============

// Get returns a request visible to one of its participants
func (s *RequestService) Get(ctx context.Context, requestID, actorID int64) (*model.Request, error) {
	const op = "request.Get"

	req, err := s.get(ctx, op, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsParticipant(actorID) {
		return nil, forbiddenError(op, "You are not a participant of this request.")
	}
	return req, nil
}

// ListSent returns requests sent by user, optionally filtered by status
func (s *RequestService) ListSent(ctx context.Context, userID int64, status model.RequestStatus) ([]*model.Request, error) {
	return s.list(ctx, "request.ListSent", model.RequestFilter{RequesterID: userID}, status)
}

// ListReceived returns requests received by user, optionally filtered by status
func (s *RequestService) ListReceived(ctx context.Context, userID int64, status model.RequestStatus) ([]*model.Request, error) {
	return s.list(ctx, "request.ListReceived", model.RequestFilter{ReceiverID: userID}, status)
}

func (s *RequestService) list(ctx context.Context, op string, filter model.RequestFilter, status model.RequestStatus) ([]*model.Request, error) {
	if status != "" {
		if !status.IsValid() {
			return nil, validationError(op, "Unknown request status.")
		}
		filter.Statuses = []model.RequestStatus{status}
	}

	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("list requests: %w", err))
	}
	return requests, nil
}

// Summary counts pending and accepted requests on both sides
func (s *RequestService) Summary(ctx context.Context, userID int64) (*model.RequestSummary, error) {
	const op = "request.Summary"

	pending := []model.RequestStatus{model.RequestStatusPending}
	accepted := []model.RequestStatus{model.RequestStatusAccepted}

	var summary model.RequestSummary
	counters := map[*int]model.RequestFilter{
		&summary.PendingSent:      {RequesterID: userID, Statuses: pending},
		&summary.PendingReceived:  {ReceiverID: userID, Statuses: pending},
		&summary.AcceptedSent:     {RequesterID: userID, Statuses: accepted},
		&summary.AcceptedReceived: {ReceiverID: userID, Statuses: accepted},
	}

	for dst, filter := range counters {
		n, err := s.requestRepo.Count(ctx, filter)
		if err != nil {
			return nil, storageError(op, fmt.Errorf("count requests: %w", err))
		}
		*dst = n
	}

	return &summary, nil
}

// ============ Helpers ============

func (s *RequestService) get(ctx context.Context, op string, requestID int64) (*model.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("get request: %w", err))
	}
	if req == nil {
		return nil, notFoundError(op, "Request not found.")
	}
	return req, nil
}

func (s *RequestService) loadForReceiver(ctx context.Context, op string, requestID, actorID int64, verb string) (*model.Request, error) {
	req, err := s.get(ctx, op, requestID)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != actorID {
		return nil, forbiddenError(op, fmt.Sprintf("Only the receiver can %s this request.", verb))
	}
	return req, nil
}

// transition applies a compare-and-set from the status the caller observed
func (s *RequestService) transition(ctx context.Context, op string, req *model.Request, to model.RequestStatus, respondedAt *time.Time, now time.Time) error {
	ok, err := s.requestRepo.TransitionStatus(ctx, req.ID, req.Status, to, respondedAt, now)
	if err != nil {
		s.logger.Error("Failed to update request status",
			zap.Int64("request_id", req.ID),
			zap.String("to", string(to)),
			zap.Error(err),
		)
		return storageError(op, fmt.Errorf("update request status: %w", err))
	}
	if !ok {
		return invalidStateError(op, "This request has already been processed.")
	}

	req.Status = to
	req.UpdatedAt = now
	if respondedAt != nil {
		req.RespondedAt = respondedAt
	}
	return nil
}

func (s *RequestService) userName(ctx context.Context, userID int64) string {
	return lookupUserName(ctx, s.userRepo, s.logger, userID)
}

func (s *RequestService) skillName(ctx context.Context, skillID int64) string {
	return lookupSkillName(ctx, s.skillRepo, s.logger, skillID)
}
