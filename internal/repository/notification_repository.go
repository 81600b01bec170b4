package repository

import (
	"context"
	"errors"
	"fmt"

	"shopstack/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// notificationRepository implements the NotificationRepository interface
// using PostgreSQL.
type notificationRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewNotificationRepository creates a new PostgreSQL-backed notification repository.
func NewNotificationRepository(pool *pgxpool.Pool, logger zerolog.Logger) NotificationRepository {
	return &notificationRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "notification").Logger(),
	}
}

const notificationColumns = `id, title, message, type, related_kind, related_id, is_read, read_at, created_at`

func scanNotification(row pgx.Row) (*model.Notification, error) {
	var n model.Notification
	var relatedID *uuid.UUID
	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.Related.Kind,
		&relatedID,
		&n.Read,
		&n.ReadAt,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if relatedID != nil {
		n.Related.ID = *relatedID
	}
	return &n, nil
}

// Create appends a notification.
func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (id, title, message, type, related_kind, related_id, is_read, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var relatedID *uuid.UUID
	if n.Related.Kind != model.RelatedNone {
		relatedID = &n.Related.ID
	}

	_, err := r.pool.Exec(ctx, query,
		n.ID,
		n.Title,
		n.Message,
		n.Type,
		n.Related.Kind,
		relatedID,
		n.Read,
		n.ReadAt,
		n.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("type", string(n.Type)).Msg("failed to create notification")
		return fmt.Errorf("failed to create notification: %w", err)
	}

	r.logger.Debug().
		Str("notification_id", n.ID.String()).
		Str("type", string(n.Type)).
		Msg("notification created successfully")

	return nil
}

// List retrieves notifications, newest first.
func (r *notificationRepository) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	if unreadOnly {
		query += ` WHERE is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query notifications")
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan notification row")
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating notification rows")
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead marks one notification read and stamps readAt.
func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE id = $1
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("notification_id", id.String()).Msg("notification not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("notification_id", id.String()).Msg("failed to mark notification read")
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return n, nil
}

// MarkAllRead marks every unread notification read.
func (r *notificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE, read_at = NOW() WHERE is_read = FALSE`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to mark all notifications read")
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return tag.RowsAffected(), nil
}
