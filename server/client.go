package server

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/cellarium/runner"
	"github.com/pthm-cable/cellarium/sim"
)

const writeWait = 10 * time.Second

// Client is one websocket connection. Frames flow out through send; control
// messages flow in through readPump straight to the runner handle.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	handle *runner.Handle
}

// readPump reads control messages until the connection drops. Malformed
// messages are logged and skipped; the connection stays up.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("client read failed", "error", err)
			}
			return
		}

		var msg ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("discarding malformed control message", "error", err)
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg ControlMessage) {
	switch msg.Type {
	case "toggle_pause":
		c.handle.TogglePause()
	case "reset":
		c.handle.Reset()
	case "select_cell":
		c.handle.SelectCell(msg.X, msg.Y)
	case "clear_selection":
		c.handle.ClearSelection()
	case "inject_cell":
		bot, err := sim.DecodeBot(msg.Cell)
		if err != nil {
			slog.Warn("refusing bot import", "error", err)
			return
		}
		c.handle.Inject(bot)
	case "set_tps":
		c.handle.SetTargetTPS(msg.TPS)
	default:
		slog.Warn("unknown control message", "type", msg.Type)
	}
}

// writePump drains the send channel onto the wire.
func (c *Client) writePump() {
	defer c.conn.Close()

	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	// Hub closed the channel: say goodbye.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
