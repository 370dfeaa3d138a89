// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/cardhub/internal/game"
	"github.com/jason-s-yu/cardhub/internal/middleware"
	"github.com/jason-s-yu/cardhub/internal/models"
	"github.com/sirupsen/logrus"
)

const roomSubprotocol = "cardhub"

// RoomWSHandler upgrades /room/ws/{room_id} to a WebSocket. The peer is identified by its auth
// cookie (a guest identity is minted if it has none), receives the current snapshot, and from
// then on every committed change. An unknown room is closed with InvalidRoomIDError. Inbound
// messages are tagged actions; the authenticated player id overrides whatever the client put in
// the message.
func RoomWSHandler(logger *logrus.Logger, rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/room/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "Missing room_id in path (/room/ws/{room_id})", http.StatusBadRequest)
			return
		}
		roomID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "Invalid room_id format", http.StatusBadRequest)
			return
		}

		// identity first, so a new guest cookie rides on the upgrade response
		playerID, err := EnsureGuest(w, r)
		if err != nil {
			logger.WithError(err).Warn("failed to establish guest identity")
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{roomSubprotocol},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.WithError(err).WithField("room", roomID).Warn("websocket accept failed")
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error")

		if c.Subprotocol() != roomSubprotocol {
			c.Close(BadSubprotocolError, "client must use the '"+roomSubprotocol+"' subprotocol")
			return
		}

		g, ok := rs.Rooms.GetRoom(roomID)
		hub, hubOK := rs.Hub(roomID)
		if !ok || !hubOK {
			c.Close(InvalidRoomIDError, "room does not exist")
			return
		}

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, roomID, playerID)
		hub.Add(c, playerID, map[string]interface{}{"type": "welcome", "playerId": playerID, "roomId": roomID})
		// any snapshot broadcast after Add is at least as new as this one
		hub.Send(c, game.MarshalSnapshot(g.State()))

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		err = readRoomMessages(ctx, c, hub, g, playerID, logger)

		hub.Remove(c)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, roomID, playerID, err)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readRoomMessages decodes and applies actions until the connection ends. Replies go through the
// hub so they stay ordered with snapshots. It returns the read error unless the peer closed
// normally.
func readRoomMessages(ctx context.Context, c *websocket.Conn, hub *Hub, g *game.Game, playerID uuid.UUID, logger *logrus.Logger) error {
	log := logger.WithFields(logrus.Fields{"room": g.ID, "player": playerID})
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			log.Debugf("ignoring non-text message type %d", msgType)
			continue
		}

		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			sendWsError(hub, c, "invalid JSON format")
			continue
		}
		if envelope.Type == "ping" {
			hub.Send(c, map[string]string{"type": "pong"})
			continue
		}

		action, err := models.DecodeAction(data)
		if err != nil {
			log.WithError(err).Debug("rejected malformed action")
			sendWsError(hub, c, err.Error())
			continue
		}
		if err := g.Handle(models.WithActor(action, playerID)); err != nil {
			sendWsError(hub, c, err.Error())
		}
	}
}

// sendWsError sends a structured rejection to one client. Rejections never change room state.
func sendWsError(hub *Hub, c *websocket.Conn, errorMsg string) {
	hub.Send(c, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
