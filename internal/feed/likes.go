package feed

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

// ToggleLike flips the requester's like on a post and returns the
// resulting set of liking user ids. Toggling twice restores the original
// state.
// PUT /posts/:id/like
func ToggleLike(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	postID := c.Param("id")
	if postID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing post id"})
	}

	ctx := context.Background()

	var exists bool
	err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch post"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}

	// Unlike if the row is there, like otherwise.
	ct, err := db.Conn.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to toggle like"})
	}
	liked := false
	if ct.RowsAffected() == 0 {
		_, err = db.Conn.Exec(ctx, `
			INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to toggle like"})
		}
		liked = true
	}

	var likes []string
	err = db.Conn.QueryRow(ctx, `
		SELECT COALESCE(ARRAY(
			SELECT user_id::text FROM post_likes WHERE post_id = $1
		), '{}')
	`, postID).Scan(&likes)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch likes"})
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "likes": likes})
}
