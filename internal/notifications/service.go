package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/pkg/db/models"
	pkgerrors "github.com/threadline/threadline-backend/pkg/errors"
	"github.com/threadline/threadline-backend/pkg/pagination"
)

// Service defines activity feed list/read operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, adminID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, adminID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// ListParams configures pagination for the feed.
type ListParams struct {
	AdminID    uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// NotificationView is the API shape of a feed entry.
type NotificationView struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      *string    `json:"link,omitempty"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []NotificationView `json:"items"`
	Cursor string             `json:"cursor"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	query := listNotificationsParams{
		AdminID:    params.AdminID,
		Limit:      pagination.NormalizeLimit(params.Limit),
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  newViews(rows),
		Cursor: cursor,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, adminID, notificationID uuid.UUID) error {
	if adminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, adminID, notificationID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, adminID uuid.UUID) (int64, error) {
	if adminID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	count, err := s.repo.MarkAllRead(ctx, adminID, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func newViews(rows []models.Notification) []NotificationView {
	out := make([]NotificationView, 0, len(rows))
	for _, row := range rows {
		out = append(out, NotificationView{
			ID:        row.ID,
			Type:      string(row.Type),
			Title:     row.Title,
			Message:   row.Message,
			Link:      row.Link,
			ReadAt:    row.ReadAt,
			CreatedAt: row.CreatedAt,
		})
	}
	return out
}
