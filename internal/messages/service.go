package messages

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
	"github.com/noah-isme/backend-rental/internal/events"
	"github.com/noah-isme/backend-rental/internal/obs"
)

const maxMessageLength = 2000

// Querier captures the persistence operations for customer messages.
type Querier interface {
	GetUserByID(ctx context.Context, id pgtype.UUID) (db.User, error)
	CreateMessage(ctx context.Context, arg db.CreateMessageParams) (db.Message, error)
	ListMessages(ctx context.Context) ([]db.Message, error)
}

// Service records customer messages with sender snapshots.
type Service struct {
	Queries Querier
	Events  *events.Bus
	Log     zerolog.Logger
	Now     func() time.Time
}

// Submit appends a message from the authenticated user.
func (s *Service) Submit(ctx context.Context, userID, text string) (db.Message, error) {
	if s == nil || s.Queries == nil {
		return db.Message{}, errors.New("messages service not configured")
	}
	var uid pgtype.UUID
	if err := uid.Scan(strings.TrimSpace(userID)); err != nil {
		return db.Message{}, common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return db.Message{}, common.ValidationError("message is required", nil)
	}
	if len(text) > maxMessageLength {
		return db.Message{}, common.ValidationError("message is too long", nil)
	}

	user, err := s.Queries.GetUserByID(ctx, uid)
	if err != nil {
		return db.Message{}, common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, err)
	}

	msg, err := s.Queries.CreateMessage(ctx, db.CreateMessageParams{
		CreatedAt:   s.now(),
		UserName:    user.Name,
		UserEmail:   user.Email,
		MessageText: text,
	})
	if err != nil {
		return db.Message{}, fmt.Errorf("create message: %w", err)
	}

	if obs.MessagesTotal != nil {
		obs.MessagesTotal.Inc()
	}
	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicMessageReceived, strconv.FormatInt(msg.ID, 10), map[string]any{
			"messageId": msg.ID,
			"userEmail": user.Email,
		}); err != nil {
			s.Log.Warn().Err(err).Int64("message_id", msg.ID).Msg("emit message event")
		}
	}
	return msg, nil
}

// List returns every customer message, newest first.
func (s *Service) List(ctx context.Context) ([]db.Message, error) {
	if s == nil || s.Queries == nil {
		return nil, errors.New("messages service not configured")
	}
	return s.Queries.ListMessages(ctx)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
