package alerts

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

// ListNotifications returns the current user's notifications, newest first.
func ListNotifications(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
        SELECT id::text, type, title, body, reference::text, created_at, read_at
        FROM notifications WHERE user_id = $1 ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
	}
	defer rows.Close()

	items := []map[string]interface{}{}
	for rows.Next() {
		var id, ntype, title, body string
		var reference *string
		var createdAt time.Time
		var readAt *time.Time
		if err := rows.Scan(&id, &ntype, &title, &body, &reference, &createdAt, &readAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse notification"})
		}
		item := map[string]interface{}{
			"id":         id,
			"type":       ntype,
			"title":      title,
			"body":       body,
			"created_at": createdAt.UTC().Format(time.RFC3339),
		}
		if reference != nil {
			item["reference"] = *reference
		}
		if readAt != nil {
			item["read_at"] = readAt.UTC().Format(time.RFC3339)
		} else {
			item["read_at"] = nil
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": items})
}

// UnreadCount returns how many notifications the user hasn't read yet.
func UnreadCount(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var count int64
	err := db.Conn.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`,
		userID).Scan(&count)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute unread count"})
	}

	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}

// MarkNotificationRead marks a specific notification as read.
func MarkNotificationRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing notification id"})
	}

	ct, err := db.Conn.Exec(context.Background(),
		`UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2 AND read_at IS NULL`,
		id, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark read"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"id": id})
}
