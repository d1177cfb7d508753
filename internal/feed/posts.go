package feed

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Author    string    `json:"author_name,omitempty"`
	Headline  string    `json:"author_headline,omitempty"`
	AvatarURL string    `json:"author_avatar,omitempty"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Body       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListPosts returns the whole feed, newest first, with author details,
// the liking user ids and each post's comments in order.
// GET /posts
func ListPosts(c echo.Context) error {
	ctx := context.Background()

	rows, err := db.Conn.Query(ctx, `
        SELECT p.id, p.user_id, u.name, u.headline, u.avatar_url,
               p.content, p.image_url, p.created_at,
               COALESCE(ARRAY(
                   SELECT l.user_id::text FROM post_likes l WHERE l.post_id = p.id
               ), '{}')
        FROM posts p
        JOIN users u ON u.id = p.user_id
        ORDER BY p.created_at DESC
    `)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list posts"})
	}
	defer rows.Close()

	posts := []Post{}
	index := map[string]int{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Author, &p.Headline, &p.AvatarURL,
			&p.Content, &p.ImageURL, &p.CreatedAt, &p.Likes); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse post"})
		}
		p.Comments = []Comment{}
		index[p.ID] = len(posts)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list posts"})
	}

	commentRows, err := db.Conn.Query(ctx, `
        SELECT pc.post_id, pc.id, pc.user_id, u.name, pc.body, pc.created_at
        FROM post_comments pc
        JOIN users u ON u.id = pc.user_id
        ORDER BY pc.created_at ASC
    `)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list comments"})
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var postID string
		var cm Comment
		if err := commentRows.Scan(&postID, &cm.ID, &cm.UserID, &cm.AuthorName, &cm.Body, &cm.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse comment"})
		}
		if i, ok := index[postID]; ok {
			posts[i].Comments = append(posts[i].Comments, cm)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// CreatePost publishes a post to the feed.
// POST /posts
func CreatePost(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	postID := uuid.New().String()
	var createdAt time.Time
	err := db.Conn.QueryRow(context.Background(), `
		INSERT INTO posts (id, user_id, content, image_url)
		VALUES ($1, $2, $3, $4) RETURNING created_at
	`, postID, userID, req.Content, req.ImageURL).Scan(&createdAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create post"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"post": Post{
			ID:        postID,
			UserID:    userID,
			Content:   req.Content,
			ImageURL:  req.ImageURL,
			Likes:     []string{},
			Comments:  []Comment{},
			CreatedAt: createdAt,
		},
	})
}
