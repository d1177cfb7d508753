package search

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

// Query searches users by name, headline, location or skills, and
// services by title, category or description. An empty query returns
// empty result sets without touching the store.
// GET /search?q=
func Query(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusOK, echo.Map{
			"users":    []echo.Map{},
			"services": []echo.Map{},
		})
	}

	pattern := "%" + q + "%"
	ctx := context.Background()

	userRows, err := db.Conn.Query(ctx, `
        SELECT id, name, headline, location, avatar_url, skills
        FROM users
        WHERE is_deleted = FALSE AND (
            name ILIKE $1 OR headline ILIKE $1 OR location ILIKE $1
            OR EXISTS (SELECT 1 FROM unnest(skills) sk WHERE sk ILIKE $1)
        )
        ORDER BY name ASC
    `, pattern)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	defer userRows.Close()

	users := []echo.Map{}
	for userRows.Next() {
		var id, name, headline, location, avatarURL string
		var skills []string
		if err := userRows.Scan(&id, &name, &headline, &location, &avatarURL, &skills); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse user"})
		}
		users = append(users, echo.Map{
			"id":         id,
			"name":       name,
			"headline":   headline,
			"location":   location,
			"avatar_url": avatarURL,
			"skills":     skills,
		})
	}

	serviceRows, err := db.Conn.Query(ctx, `
        SELECT id, user_id, title, description, category, price, thumbnail_url, rating, num_reviews
        FROM services
        WHERE is_deleted = FALSE AND (
            title ILIKE $1 OR category ILIKE $1 OR description ILIKE $1
        )
        ORDER BY created_at DESC
    `, pattern)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	defer serviceRows.Close()

	services := []echo.Map{}
	for serviceRows.Next() {
		var id, userID, title, description, category, thumbnailURL string
		var price, rating float64
		var numReviews int
		if err := serviceRows.Scan(&id, &userID, &title, &description, &category,
			&price, &thumbnailURL, &rating, &numReviews); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse service"})
		}
		services = append(services, echo.Map{
			"id":            id,
			"user_id":       userID,
			"title":         title,
			"description":   description,
			"category":      category,
			"price":         price,
			"thumbnail_url": thumbnailURL,
			"rating":        rating,
			"num_reviews":   numReviews,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":    users,
		"services": services,
	})
}
