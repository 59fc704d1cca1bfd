package chat

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/pawmatch/pawmatch-backend/internal/matches"
	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
	"github.com/pawmatch/pawmatch-backend/pkg/logger"
)

// Service exposes chat history and sending for a match conversation.
type Service interface {
	History(ctx context.Context, userID, matchID uuid.UUID) ([]MessageDTO, error)
	Send(ctx context.Context, userID, matchID uuid.UUID, req SendMessageRequest) (*MessageDTO, error)
	Authorize(ctx context.Context, userID, matchID uuid.UUID) error
}

type membershipChecker interface {
	ForUser(ctx context.Context, userID, matchID uuid.UUID) (*matches.MatchDTO, error)
}

type publisher interface {
	Publish(ctx context.Context, matchID uuid.UUID, payload []byte) error
}

// ServiceParams groups dependencies for the chat service.
type ServiceParams struct {
	MessageRepo *Repository
	Matches     membershipChecker
	Publisher   publisher
	Logger      *logger.Logger
}

type service struct {
	messages  *Repository
	matches   membershipChecker
	publisher publisher
	log       *logger.Logger
}

// NewService builds a chat service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.MessageRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "message repo required")
	}
	if params.Matches == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "matches service required")
	}
	if params.Publisher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "publisher required")
	}
	log := params.Logger
	if log == nil {
		log = logger.New(logger.Options{ServiceName: "chat"})
	}
	return &service{
		messages:  params.MessageRepo,
		matches:   params.Matches,
		publisher: params.Publisher,
		log:       log,
	}, nil
}

// Authorize verifies the user participates in the match.
func (s *service) Authorize(ctx context.Context, userID, matchID uuid.UUID) error {
	_, err := s.matches.ForUser(ctx, userID, matchID)
	return err
}

// History returns the match's messages oldest first.
func (s *service) History(ctx context.Context, userID, matchID uuid.UUID) ([]MessageDTO, error) {
	if err := s.Authorize(ctx, userID, matchID); err != nil {
		return nil, err
	}

	rows, err := s.messages.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return FromModels(rows), nil
}

// Send validates and persists a message, then publishes it to the live
// channel. The publish happens after the insert commits so subscribers see
// messages in commit order. There is no local echo, senders receive their own
// message through the subscription like everyone else.
func (s *service) Send(ctx context.Context, userID, matchID uuid.UUID, req SendMessageRequest) (*MessageDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content is required")
	}

	if err := s.Authorize(ctx, userID, matchID); err != nil {
		return nil, err
	}

	message, err := s.messages.Create(ctx, &models.Message{
		MatchID:  matchID,
		SenderID: userID,
		Content:  content,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}

	dto := FromModel(message)
	payload, err := json.Marshal(Event{Type: EventTypeMessage, Message: *dto})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode message event")
	}
	if err := s.publisher.Publish(ctx, matchID, payload); err != nil {
		// the row is committed; readers catch up via history on reconnect
		s.log.Error(ctx, "publish chat message", err)
	}
	return dto, nil
}
