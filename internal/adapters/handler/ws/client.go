package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// envelope frames every message on the wire, both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// client is one websocket connection. name is set after a successful
// joinPoll and is only touched by the connection's read loop.
type client struct {
	id      uuid.UUID
	conn    *websocket.Conn
	name    string
	writeMu sync.Mutex
}

// send marshals payload into an envelope and writes it, safe for
// concurrent use.
func (c *client) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(envelope{Event: event, Data: data})
}

// close sends a close frame and tears the connection down.
func (c *client) close() {
	c.writeMu.Lock()
	c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	c.writeMu.Unlock()
	c.conn.Close()
}
