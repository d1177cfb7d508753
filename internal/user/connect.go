package user

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

// Connect links the authenticated user with the target user. The graph is
// symmetric: both directions are written in one transaction, so either both
// users see each other or neither does.
// PUT /users/connect/:id
func Connect(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	targetID := c.Param("id")
	if targetID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}
	if targetID == userID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you cannot connect with yourself"})
	}

	ctx := context.Background()

	var exists bool
	err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND is_deleted = FALSE)`,
		targetID).Scan(&exists)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		INSERT INTO connections (user_id, connection_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, targetID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to connect"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "already connected"})
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO connections (user_id, connection_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, targetID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to connect"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "connected successfully"})
}
