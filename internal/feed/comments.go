package feed

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

// AddComment appends a comment to a post.
// POST /posts/:id/comments
func AddComment(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	postID := c.Param("id")
	if postID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing post id"})
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
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

	commentID := uuid.New().String()
	var createdAt time.Time
	err = db.Conn.QueryRow(ctx, `
		INSERT INTO post_comments (id, post_id, user_id, body)
		VALUES ($1, $2, $3, $4) RETURNING created_at
	`, commentID, postID, userID, req.Text).Scan(&createdAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add comment"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"comment": Comment{
			ID:        commentID,
			UserID:    userID,
			Body:      req.Text,
			CreatedAt: createdAt,
		},
	})
}
