package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pawmatch/pawmatch-backend/api/middleware"
	"github.com/pawmatch/pawmatch-backend/internal/chat"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
)

type testChatService struct {
	historyFn   func(ctx context.Context, userID, matchID uuid.UUID) ([]chat.MessageDTO, error)
	sendFn      func(ctx context.Context, userID, matchID uuid.UUID, req chat.SendMessageRequest) (*chat.MessageDTO, error)
	authorizeFn func(ctx context.Context, userID, matchID uuid.UUID) error
}

func (s *testChatService) History(ctx context.Context, userID, matchID uuid.UUID) ([]chat.MessageDTO, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, userID, matchID)
	}
	return nil, nil
}

func (s *testChatService) Send(ctx context.Context, userID, matchID uuid.UUID, req chat.SendMessageRequest) (*chat.MessageDTO, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, userID, matchID, req)
	}
	return &chat.MessageDTO{}, nil
}

func (s *testChatService) Authorize(ctx context.Context, userID, matchID uuid.UUID) error {
	if s.authorizeFn != nil {
		return s.authorizeFn(ctx, userID, matchID)
	}
	return nil
}

func TestChatHistoryReturnsMessages(t *testing.T) {
	userID := uuid.New()
	matchID := uuid.New()
	svc := &testChatService{
		historyFn: func(ctx context.Context, uid, mid uuid.UUID) ([]chat.MessageDTO, error) {
			if uid != userID || mid != matchID {
				t.Fatalf("unexpected identifiers %s %s", uid, mid)
			}
			return []chat.MessageDTO{{ID: uuid.New(), MatchID: matchID, Content: "hi"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches/"+matchID.String()+"/messages", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	req = addRouteParam(req, "matchId", matchID.String())
	resp := httptest.NewRecorder()
	ChatHistory(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data []chat.MessageDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Content != "hi" {
		t.Fatalf("unexpected history %+v", envelope.Data)
	}
}

func TestSendChatMessageValidatesBody(t *testing.T) {
	matchID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/"+matchID.String()+"/messages", strings.NewReader(`{}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "matchId", matchID.String())
	resp := httptest.NewRecorder()
	SendChatMessage(&testChatService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSendChatMessageCreated(t *testing.T) {
	userID := uuid.New()
	matchID := uuid.New()
	svc := &testChatService{
		sendFn: func(ctx context.Context, uid, mid uuid.UUID, req chat.SendMessageRequest) (*chat.MessageDTO, error) {
			if req.Content != "hello there" {
				t.Fatalf("unexpected content %q", req.Content)
			}
			return &chat.MessageDTO{ID: uuid.New(), MatchID: mid, SenderID: uid, Content: req.Content}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/"+matchID.String()+"/messages", strings.NewReader(`{"content":"hello there"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	req = addRouteParam(req, "matchId", matchID.String())
	resp := httptest.NewRecorder()
	SendChatMessage(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestChatSocketRejectsOutsiders(t *testing.T) {
	matchID := uuid.New()
	svc := &testChatService{
		authorizeFn: func(ctx context.Context, uid, mid uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not a participant in this match")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches/"+matchID.String()+"/chat/ws", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "matchId", matchID.String())
	resp := httptest.NewRecorder()
	ChatSocket(svc, chat.NewHub(nil, nil), testLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestChatSocketDeliversHubPayloads(t *testing.T) {
	userID := uuid.New()
	matchID := uuid.New()
	hub := chat.NewHub(nil, nil)

	router := chi.NewRouter()
	router.Get("/api/v1/matches/{matchId}/chat/ws", func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID.String()))
		ChatSocket(&testChatService{}, hub, testLogger())(w, r)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/matches/" + matchID.String() + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(matchID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("session never joined hub room")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Deliver(matchID, []byte(`{"type":"message"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if string(payload) != `{"type":"message"}` {
		t.Fatalf("unexpected payload %s", payload)
	}
}
