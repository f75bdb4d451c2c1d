package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
	"github.com/noah-isme/backend-rental/internal/events"
	"github.com/noah-isme/backend-rental/internal/notify"
)

func bookingEvent(t *testing.T, payload map[string]any) db.DomainEvent {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return db.DomainEvent{
		Topic:      events.TopicBookingCreated,
		Payload:    raw,
		OccurredAt: pgtype.Timestamptz{Time: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), Valid: true},
	}
}

func TestEmailNotifierSendsReceipt(t *testing.T) {
	mail := &common.InMemoryEmail{}
	notifier := notify.EmailNotifier{Mail: mail, Enabled: true}

	ev := bookingEvent(t, map[string]any{
		"userEmail":  "test@user.com",
		"carModel":   "Toyota Innova (MPV)",
		"duration":   3,
		"finalTotal": 1335000,
	})
	require.NoError(t, notifier.Notify(context.Background(), ev))
	require.Len(t, mail.Outbox, 1)
	require.Equal(t, "test@user.com", mail.Outbox[0].To)
	require.Contains(t, mail.Outbox[0].Body, "Toyota Innova (MPV)")
	require.Contains(t, mail.Outbox[0].Body, "₱13,350.00")
}

func TestEmailNotifierSkipsWhenDisabled(t *testing.T) {
	mail := &common.InMemoryEmail{}
	notifier := notify.EmailNotifier{Mail: mail, Enabled: false}

	ev := bookingEvent(t, map[string]any{"userEmail": "test@user.com"})
	require.NoError(t, notifier.Notify(context.Background(), ev))
	require.Empty(t, mail.Outbox)
}

func TestEmailNotifierSkipsWithoutRecipient(t *testing.T) {
	mail := &common.InMemoryEmail{}
	notifier := notify.EmailNotifier{Mail: mail, Enabled: true}

	ev := bookingEvent(t, map[string]any{"carModel": "Mazda 3"})
	require.NoError(t, notifier.Notify(context.Background(), ev))
	require.Empty(t, mail.Outbox)
}

func TestEmailNotifierHonorsTopicToggle(t *testing.T) {
	mail := &common.InMemoryEmail{}
	notifier := notify.EmailNotifier{
		Mail:         mail,
		Enabled:      true,
		TopicToggles: map[string]bool{events.TopicBookingCreated: false},
	}

	ev := bookingEvent(t, map[string]any{"userEmail": "test@user.com"})
	require.NoError(t, notifier.Notify(context.Background(), ev))
	require.Empty(t, mail.Outbox)
}
