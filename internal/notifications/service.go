package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/pagination"
	"github.com/arjunkhanna/secondmart-backend/pkg/types"
)

// Service defines notification creation and inbox operations.
type Service interface {
	Notify(ctx context.Context, input NotifyInput) (*models.Notification, error)
	List(ctx context.Context, params ListParams) (*pagination.Result[models.Notification], error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// NotifyInput describes a notification to persist for a recipient.
type NotifyInput struct {
	RecipientID   uuid.UUID
	RecipientRole enums.RecipientRole
	Type          enums.NotificationType
	Title         string
	Body          string
	RelatedEntity *types.RelatedEntity
}

// ListParams configures pagination for a recipient's inbox.
type ListParams struct {
	RecipientID uuid.UUID
	UnreadOnly  bool
	pagination.Params
}

type service struct {
	repo Repository
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Notify(ctx context.Context, input NotifyInput) (*models.Notification, error) {
	if input.RecipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	if !input.RecipientRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid recipient role")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}

	notification := &models.Notification{
		RecipientID:   input.RecipientID,
		RecipientRole: input.RecipientRole,
		Type:          input.Type,
		Title:         strings.TrimSpace(input.Title),
		Body:          strings.TrimSpace(input.Body),
		RelatedEntity: input.RelatedEntity,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return notification, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Result[models.Notification], error) {
	if params.RecipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}

	page := params.Normalize()
	rows, total, err := s.repo.List(ctx, listNotificationsParams{
		RecipientID: params.RecipientID,
		UnreadOnly:  params.UnreadOnly,
		Page:        page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return pagination.NewResult(rows, page, total), nil
}

func (s *service) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	if recipientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, recipientID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if recipientID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}

	count, err := s.repo.MarkAllRead(ctx, recipientID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}
