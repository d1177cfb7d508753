package user

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

// ListUsers returns every active user except the requester. The chat UI
// uses this as its contact list.
// GET /users
func ListUsers(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
        SELECT id, name, headline, avatar_url
        FROM users
        WHERE id <> $1 AND is_deleted = FALSE
        ORDER BY name ASC
    `, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list users"})
	}
	defer rows.Close()

	users := []echo.Map{}
	for rows.Next() {
		var id, name, headline, avatarURL string
		if err := rows.Scan(&id, &name, &headline, &avatarURL); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse user"})
		}
		users = append(users, echo.Map{
			"id":         id,
			"name":       name,
			"headline":   headline,
			"avatar_url": avatarURL,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
