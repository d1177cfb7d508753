package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

// GetPublicProfile returns a user's public profile with their connection list.
// GET /users/:id
func GetPublicProfile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	var u User
	err := db.Conn.QueryRow(context.Background(), `
        SELECT id, name, headline, bio, location, avatar_url, skills, created_at
        FROM users WHERE id = $1 AND is_deleted = FALSE
    `, id).Scan(&u.ID, &u.Name, &u.Headline, &u.Bio, &u.Location, &u.AvatarURL, &u.Skills, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}

	rows, err := db.Conn.Query(context.Background(), `
        SELECT u.id, u.name, u.headline, u.avatar_url
        FROM connections c JOIN users u ON u.id = c.connection_id
        WHERE c.user_id = $1 AND u.is_deleted = FALSE
        ORDER BY c.created_at DESC
    `, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch connections"})
	}
	defer rows.Close()

	connections := []echo.Map{}
	for rows.Next() {
		var cid, cname, cheadline, cavatar string
		if err := rows.Scan(&cid, &cname, &cheadline, &cavatar); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse connection"})
		}
		connections = append(connections, echo.Map{
			"id":         cid,
			"name":       cname,
			"headline":   cheadline,
			"avatar_url": cavatar,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":        u,
		"connections": connections,
	})
}
