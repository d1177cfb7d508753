package messaging

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Relay forwards chat payloads between live connections. Delivery is
// best-effort and at-most-once: if the recipient is offline or the write
// fails, the payload is dropped from the realtime path and the sender is
// not told. Durable storage happens separately through the REST record
// call (see messages.go).
type Relay struct {
	registry *Registry
}

func NewRelay() *Relay {
	return &Relay{registry: NewRegistry()}
}

// Registry exposes the presence registry to the owning handler.
func (rl *Relay) Registry() *Registry { return rl.registry }

type inboundEvent struct {
	Event string `json:"event"`
	To    string `json:"to"`
	Text  string `json:"text"`
}

type outboundEvent struct {
	Event string `json:"event"`
	From  string `json:"from"`
	Text  string `json:"text"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// safeConn serializes writes; gorilla connections do not allow
// concurrent writers and two senders can target the same recipient.
type safeConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (s *safeConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.WriteJSON(v)
}

// ServeWS upgrades the request and runs the connection's read loop.
// Registering the authenticated user is the connect announcement; the
// entry lives exactly as long as the loop.
func (rl *Relay) ServeWS(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	conn := &safeConn{ws: ws}
	rl.registry.Register(userID, conn)
	log.WithField("user_id", userID).Debug("relay: user connected")

	for {
		var evt inboundEvent
		if err := ws.ReadJSON(&evt); err != nil {
			rl.registry.Remove(userID)
			_ = ws.Close()
			log.WithField("user_id", userID).Debug("relay: user disconnected")
			break
		}
		rl.dispatch(userID, evt)
	}
	return nil
}

// dispatch handles one inbound event from senderID. Unknown events and
// malformed sends are ignored.
func (rl *Relay) dispatch(senderID string, evt inboundEvent) {
	if evt.Event != "send-msg" || evt.To == "" || evt.Text == "" {
		return
	}
	conn, ok := rl.registry.Lookup(evt.To)
	if !ok {
		// Recipient offline; they'll see the message on their next
		// history fetch.
		return
	}
	// A failed write means the handle died under us. The payload is
	// dropped either way; the read loop will clean the entry up.
	_ = conn.WriteJSON(outboundEvent{
		Event: "msg-receive",
		From:  senderID,
		Text:  evt.Text,
	})
}
