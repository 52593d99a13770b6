package chat

import (
	"context"
	"time"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/gofiber/websocket/v2"
)

// inbound is what a connected client sends over the socket.
type inbound struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

// ChatSocket is the per-connection websocket loop. The connection receives
// pushed events (messages, notifications) and may send chat messages back.
func ChatSocket(conn *websocket.Conn) {
	userID, ok := conn.Locals("user_id").(string)
	if !ok || userID == "" {
		conn.Close()
		return
	}

	hub.Register(userID, conn)
	defer func() {
		hub.Unregister(userID, conn)
		conn.Close()
	}()

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				config.GetLog().WithError(err).WithField("user_id", userID).Debug("Websocket read failed")
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		sent, err := chatSvc.Send(ctx, userID, msg.To, msg.Content)
		cancel()

		// Replies go through the hub so its lock serializes writes with
		// concurrent pushes, and every open tab stays in sync.
		if err != nil {
			hub.Push(userID, "error", err.Error())
			continue
		}
		hub.Push(userID, "sent", sent)
	}
}
