package service

import (
	"context"
	"fmt"
	"time"

	"shopstack/internal/model"
	"shopstack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// notificationService implements NotificationService.
type notificationService struct {
	notificationRepo repository.NotificationRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository, logger zerolog.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		logger:           logger.With().Str("service", "notification").Logger(),
	}
}

// List retrieves notifications for the dashboard feed.
func (s *notificationService) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := s.notificationRepo.List(ctx, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead marks one notification read.
func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, err := s.notificationRepo.MarkRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n == nil {
		return nil, model.NewNotFoundError("notification not found")
	}

	return n, nil
}

// MarkAllRead marks every unread notification read.
func (s *notificationService) MarkAllRead(ctx context.Context) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	s.logger.Debug().Int64("count", count).Msg("marked all notifications read")

	return count, nil
}

// Create is the admin-facing side door. Related references are reserved for
// internal triggers; notifications created here are free-standing.
func (s *notificationService) Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	if req.Title == "" {
		return nil, model.NewValidationError("notification title is required")
	}
	if req.Message == "" {
		return nil, model.NewValidationError("notification message is required")
	}

	notificationType := req.Type
	if notificationType == "" {
		notificationType = model.NotificationSystem
	}
	if !notificationType.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("invalid notification type: %s", notificationType))
	}

	n := &model.Notification{
		ID:        uuid.New(),
		Title:     req.Title,
		Message:   req.Message,
		Type:      notificationType,
		Related:   model.NoRelated(),
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}
