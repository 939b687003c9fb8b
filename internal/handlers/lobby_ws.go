// internal/handlers/lobby_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eatup-app/eatup/internal/lobby"
	"github.com/eatup-app/eatup/internal/middleware"
)

// LobbyWSHandler streams lobby lifecycle events to a participant over a
// websocket at /lobby/ws/{lobby_id}. The service is the single authority for
// lobby state; subscribers receive every mutation as it happens instead of
// holding their own copy. Inbound messages support the in-lobby actions
// (ready toggling and leaving) without a separate HTTP round trip.
func LobbyWSHandler(logger *logrus.Logger, s *ApiServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/lobby/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "missing lobby_id", http.StatusBadRequest)
			return
		}
		lobbyID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "invalid lobby_id", http.StatusBadRequest)
			return
		}

		userID, ok := authedUser(w, r)
		if !ok {
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"lobby"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "lobby" {
			c.Close(BadSubprotocolError, "client must speak the lobby subprotocol")
			return
		}

		l, exists := s.Lobbies.Get(lobbyID)
		if !exists {
			c.Close(InvalidLobbyIDError, "lobby does not exist")
			return
		}
		if _, member := l.Member(userID); !member {
			c.Close(NotAMemberError, "user is not a participant of this lobby")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		sub := &lobby.Subscriber{
			UserID: userID,
			Cancel: cancel,
			Out:    make(chan map[string]interface{}, 10),
		}
		if !s.Lobbies.Subscribe(lobbyID, sub) {
			c.Close(InvalidLobbyIDError, "lobby dissolved")
			return
		}

		middleware.LogWebSocketConnect(logger, remoteAddr, r.URL.Path)

		// Send the full snapshot first so the client starts from known state.
		sub.Write(map[string]interface{}{
			"type":  "lobby_state",
			"lobby": l,
		})

		go writePump(ctx, c, sub, logger)
		readErr := readPump(ctx, c, s, lobbyID, userID, logger)

		s.Lobbies.Unsubscribe(lobbyID, sub)
		middleware.LogWebSocketDisconnect(logger, remoteAddr, r.URL.Path, readErr)
	}
}

// writePump forwards subscription events onto the websocket until the
// channel closes or the context is cancelled.
func writePump(ctx context.Context, c *websocket.Conn, sub *lobby.Subscriber, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Out:
			if !ok {
				c.Close(websocket.StatusNormalClosure, "lobby closed")
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("failed to marshal lobby event: %v", err)
				continue
			}
			if err := c.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Warnf("websocket write error for user %v: %v", sub.UserID, err)
				return
			}
		}
	}
}

// readPump handles inbound lobby actions until the connection closes.
func readPump(ctx context.Context, c *websocket.Conn, s *ApiServer, lobbyID, userID uuid.UUID, logger *logrus.Logger) error {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			continue
		}

		var packet struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &packet); err != nil {
			logger.Warnf("lobby %s: invalid json from user %v: %v", lobbyID, userID, err)
			continue
		}

		switch packet.Type {
		case "toggle_ready":
			if res := s.Lobbies.ToggleReady(lobbyID, userID); !res.OK() {
				logger.Warnf("lobby %s: toggle_ready from %v failed: %s", lobbyID, userID, res)
			}
		case "leave":
			s.Lobbies.Leave(lobbyID, userID)
			c.Close(websocket.StatusNormalClosure, "left lobby")
			return nil
		default:
			logger.Warnf("lobby %s: unknown action %q from user %v", lobbyID, packet.Type, userID)
		}
	}
}
