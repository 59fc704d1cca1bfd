package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/pawmatch/pawmatch-backend/api/responses"
	"github.com/pawmatch/pawmatch-backend/api/validators"
	"github.com/pawmatch/pawmatch-backend/internal/chat"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
	"github.com/pawmatch/pawmatch-backend/pkg/logger"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser origin policy is enforced by the CORS layer; tokens gate access.
		return true
	},
}

// ChatHistory returns the full message history for a match, oldest first.
func ChatHistory(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		matchID, err := pathUUID(r, "matchId", "match id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), userID, matchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// SendChatMessage persists a message and fans it out to the match's live channel.
func SendChatMessage(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		matchID, err := pathUUID(r, "matchId", "match id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body chat.SendMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Send(r.Context(), userID, matchID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// ChatSocket upgrades the request to a websocket subscribed to the match's live channel.
func ChatSocket(svc chat.Service, hub *chat.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		matchID, err := pathUUID(r, "matchId", "match id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Authorize(r.Context(), userID, matchID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conn, err := chatUpgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the handshake failure to the client.
			if logg != nil {
				logg.Error(r.Context(), "websocket upgrade", err)
			}
			return
		}

		chat.NewSession(hub, matchID, conn)
	}
}
