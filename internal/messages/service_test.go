package messages

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-rental/internal/common"
	"github.com/noah-isme/backend-rental/internal/db"
)

type fakeMessageQueries struct {
	user db.User
	msgs []db.Message
}

func newFakeMessageQueries() *fakeMessageQueries {
	return &fakeMessageQueries{user: db.User{
		ID:    pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Name:  "Test User",
		Email: "test@user.com",
	}}
}

func (f *fakeMessageQueries) GetUserByID(_ context.Context, id pgtype.UUID) (db.User, error) {
	if id == f.user.ID {
		return f.user, nil
	}
	return db.User{}, pgx.ErrNoRows
}

func (f *fakeMessageQueries) CreateMessage(_ context.Context, arg db.CreateMessageParams) (db.Message, error) {
	msg := db.Message{
		ID:          int64(len(f.msgs) + 1),
		CreatedAt:   arg.CreatedAt,
		UserName:    arg.UserName,
		UserEmail:   arg.UserEmail,
		MessageText: arg.MessageText,
	}
	f.msgs = append(f.msgs, msg)
	return msg, nil
}

func (f *fakeMessageQueries) ListMessages(context.Context) ([]db.Message, error) {
	out := make([]db.Message, 0, len(f.msgs))
	for i := len(f.msgs) - 1; i >= 0; i-- {
		out = append(out, f.msgs[i])
	}
	return out, nil
}

func userIDString(u db.User) string {
	id, _ := uuid.FromBytes(u.ID.Bytes[:])
	return id.String()
}

func TestSubmitSnapshotsSender(t *testing.T) {
	q := newFakeMessageQueries()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := &Service{Queries: q, Now: func() time.Time { return now }}

	msg, err := svc.Submit(context.Background(), userIDString(q.user), "  Do you deliver to Cebu?  ")
	require.NoError(t, err)
	require.Equal(t, "Test User", msg.UserName)
	require.Equal(t, "test@user.com", msg.UserEmail)
	require.Equal(t, "Do you deliver to Cebu?", msg.MessageText)
	require.Equal(t, now, msg.CreatedAt)
}

func TestSubmitRejectsEmpty(t *testing.T) {
	q := newFakeMessageQueries()
	svc := &Service{Queries: q}

	_, err := svc.Submit(context.Background(), userIDString(q.user), "   ")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeValidation, appErr.Code)
}

func TestSubmitRejectsOversized(t *testing.T) {
	q := newFakeMessageQueries()
	svc := &Service{Queries: q}

	_, err := svc.Submit(context.Background(), userIDString(q.user), strings.Repeat("x", maxMessageLength+1))
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeValidation, appErr.Code)
}

func TestSubmitRejectsUnknownUser(t *testing.T) {
	svc := &Service{Queries: newFakeMessageQueries()}

	_, err := svc.Submit(context.Background(), uuid.NewString(), "hello")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, common.CodeUnauthorized, appErr.Code)
}

func TestListNewestFirst(t *testing.T) {
	q := newFakeMessageQueries()
	svc := &Service{Queries: q}

	_, err := svc.Submit(context.Background(), userIDString(q.user), "first")
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), userIDString(q.user), "second")
	require.NoError(t, err)

	msgs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "second", msgs[0].MessageText)
}
