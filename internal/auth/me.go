package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

// Me returns the currently authenticated user's profile.
func Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var (
		name, email, headline, bio, location, avatarURL string
		skills                                          []string
		walletBalance                                   float64
	)
	err := db.Conn.QueryRow(context.Background(), `
        SELECT name, email, headline, bio, location, avatar_url, skills, wallet_balance
        FROM users WHERE id = $1 AND is_deleted = FALSE
    `, userID).Scan(&name, &email, &headline, &bio, &location, &avatarURL, &skills, &walletBalance)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":             userID,
		"name":           name,
		"email":          email,
		"headline":       headline,
		"bio":            bio,
		"location":       location,
		"avatar_url":     avatarURL,
		"skills":         skills,
		"wallet_balance": walletBalance,
	})
}
