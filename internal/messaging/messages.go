package messaging

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/alerts"
	"github.com/linkerr-app/linkerr/internal/db"
)

// Handler owns the relay and serves the message REST surface. Recording
// and relaying are deliberately independent paths: a message can be
// delivered live but fail to persist, or persist while the recipient is
// offline. Neither path waits on the other.
type Handler struct {
	relay *Relay
}

func NewHandler() *Handler {
	return &Handler{relay: NewRelay()}
}

// ServeWS is the relay endpoint.
func (h *Handler) ServeWS(c echo.Context) error { return h.relay.ServeWS(c) }

type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record durably stores a message. The sending client calls this right
// after emitting the relay event. An optional client_key makes the call
// retry-safe: a duplicate key returns the already-stored message instead
// of inserting a second row.
// POST /messages
func (h *Handler) Record(c echo.Context) error {
	senderID, ok := c.Get("user_id").(string)
	if !ok || senderID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		To        string `json:"to"`
		Text      string `json:"text"`
		ClientKey string `json:"client_key"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.To == "" || req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to and text are required"})
	}

	ctx := context.Background()

	var clientKey *string
	if req.ClientKey != "" {
		clientKey = &req.ClientKey
	}

	msgID := uuid.New().String()
	var createdAt time.Time
	err := db.Conn.QueryRow(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, body, client_key)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_key) WHERE client_key IS NOT NULL DO NOTHING
		RETURNING created_at
	`, msgID, senderID, req.To, req.Text, clientKey).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) && clientKey != nil {
			// Retried call; hand back the row the first attempt stored.
			var m Message
			lookupErr := db.Conn.QueryRow(ctx, `
				SELECT id, sender_id, recipient_id, body, created_at
				FROM messages WHERE client_key = $1
			`, *clientKey).Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.CreatedAt)
			if lookupErr != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store message"})
			}
			return c.JSON(http.StatusOK, echo.Map{"message": m})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store message"})
	}

	// If the recipient has no live connection the realtime path dropped
	// this message, so leave them a durable notification.
	if _, online := h.relay.Registry().Lookup(req.To); !online {
		_ = alerts.EnqueueMessageOffline(senderID, req.To, req.Text)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": Message{
			ID:          msgID,
			SenderID:    senderID,
			RecipientID: req.To,
			Text:        req.Text,
			CreatedAt:   createdAt,
		},
	})
}

// History returns the full conversation between the requester and the
// other user, both directions merged, oldest first. No pagination: the
// client renders the whole thread on open.
// GET /messages/:userId
func (h *Handler) History(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	otherID := c.Param("userId")
	if otherID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	rows, err := db.Conn.Query(context.Background(), `
        SELECT id, sender_id, recipient_id, body, created_at
        FROM messages
        WHERE (sender_id = $1 AND recipient_id = $2)
           OR (sender_id = $2 AND recipient_id = $1)
        ORDER BY created_at ASC
    `, userID, otherID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch messages"})
	}
	defer rows.Close()

	msgs := []echo.Map{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse message"})
		}
		msgs = append(msgs, echo.Map{
			"id":         m.ID,
			"from_self":  m.SenderID == userID,
			"sender_id":  m.SenderID,
			"text":       m.Text,
			"created_at": m.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}
