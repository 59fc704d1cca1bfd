package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/internal/matches"
	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
)

func setupChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  match_id TEXT NOT NULL,
  sender_id TEXT NOT NULL,
  content TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM messages").Error)

	return db
}

type stubMembership struct {
	allowed map[uuid.UUID]uuid.UUID // matchID -> allowed user
}

func (s *stubMembership) ForUser(_ context.Context, userID, matchID uuid.UUID) (*matches.MatchDTO, error) {
	allowed, ok := s.allowed[matchID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "match not found")
	}
	if allowed != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "match belongs to another user")
	}
	return &matches.MatchDTO{ID: matchID}, nil
}

type capturingPublisher struct {
	payloads [][]byte
	matchIDs []uuid.UUID
}

func (p *capturingPublisher) Publish(_ context.Context, matchID uuid.UUID, payload []byte) error {
	p.matchIDs = append(p.matchIDs, matchID)
	p.payloads = append(p.payloads, payload)
	return nil
}

func newChatService(t *testing.T, db *gorm.DB, membership *stubMembership, pub *capturingPublisher) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		MessageRepo: NewRepository(db),
		Matches:     membership,
		Publisher:   pub,
	})
	require.NoError(t, err)
	return svc
}

func TestSendPersistsAndPublishes(t *testing.T) {
	db := setupChatTestDB(t)
	matchID := uuid.New()
	userID := uuid.New()
	membership := &stubMembership{allowed: map[uuid.UUID]uuid.UUID{matchID: userID}}
	pub := &capturingPublisher{}
	svc := newChatService(t, db, membership, pub)
	ctx := context.Background()

	sent, err := svc.Send(ctx, userID, matchID, SendMessageRequest{Content: "  hello there  "})
	require.NoError(t, err)
	require.Equal(t, "hello there", sent.Content)
	require.Equal(t, userID, sent.SenderID)

	require.Len(t, pub.payloads, 1)
	require.Equal(t, matchID, pub.matchIDs[0])

	var event Event
	require.NoError(t, json.Unmarshal(pub.payloads[0], &event))
	require.Equal(t, EventTypeMessage, event.Type)
	require.Equal(t, sent.ID, event.Message.ID)
	require.Equal(t, "hello there", event.Message.Content)
}

func TestSendRejectsBlankContentWithoutWriting(t *testing.T) {
	db := setupChatTestDB(t)
	matchID := uuid.New()
	userID := uuid.New()
	membership := &stubMembership{allowed: map[uuid.UUID]uuid.UUID{matchID: userID}}
	pub := &capturingPublisher{}
	svc := newChatService(t, db, membership, pub)
	ctx := context.Background()

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(ctx, userID, matchID, SendMessageRequest{Content: content})
		requireChatCode(t, err, pkgerrors.CodeValidation)
	}

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, pub.payloads)
}

func TestSendAndHistoryCheckMembership(t *testing.T) {
	db := setupChatTestDB(t)
	matchID := uuid.New()
	userID := uuid.New()
	membership := &stubMembership{allowed: map[uuid.UUID]uuid.UUID{matchID: userID}}
	svc := newChatService(t, db, membership, &capturingPublisher{})
	ctx := context.Background()

	_, err := svc.Send(ctx, uuid.New(), matchID, SendMessageRequest{Content: "hi"})
	requireChatCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.History(ctx, uuid.New(), matchID)
	requireChatCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.History(ctx, userID, uuid.New())
	requireChatCode(t, err, pkgerrors.CodeNotFound)
}

func TestHistoryOrdersOldestFirst(t *testing.T) {
	db := setupChatTestDB(t)
	matchID := uuid.New()
	userID := uuid.New()
	membership := &stubMembership{allowed: map[uuid.UUID]uuid.UUID{matchID: userID}}
	svc := newChatService(t, db, membership, &capturingPublisher{})
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.Send(ctx, userID, matchID, SendMessageRequest{Content: content})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	history, err := svc.History(ctx, userID, matchID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "first", history[0].Content)
	require.Equal(t, "third", history[2].Content)
	require.True(t, !history[1].CreatedAt.Before(history[0].CreatedAt))
	require.True(t, !history[2].CreatedAt.Before(history[1].CreatedAt))
}

func requireChatCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}
