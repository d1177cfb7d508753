package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

type UpdateProfileRequest struct {
	Name      string   `json:"name"`
	Headline  string   `json:"headline"`
	Bio       string   `json:"bio"`
	Location  string   `json:"location"`
	AvatarURL string   `json:"avatar_url"`
	Skills    []string `json:"skills"`
}

// UpdateProfile partially updates the authenticated user's profile.
// Empty fields leave the existing values untouched.
// PATCH /users/profile
func UpdateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($1, ''), name),
		    headline = COALESCE(NULLIF($2, ''), headline),
		    bio = COALESCE(NULLIF($3, ''), bio),
		    location = COALESCE(NULLIF($4, ''), location),
		    avatar_url = COALESCE(NULLIF($5, ''), avatar_url),
		    updated_at = NOW()
		WHERE id = $6 AND is_deleted = FALSE
	`
	_, err := db.Conn.Exec(c.Request().Context(), query,
		req.Name, req.Headline, req.Bio, req.Location, req.AvatarURL, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	// Skills replace wholesale; an empty list in the payload means "no change",
	// matching how the client sends only edited fields.
	if req.Skills != nil {
		_, err = db.Conn.Exec(c.Request().Context(),
			`UPDATE users SET skills = $1, updated_at = NOW() WHERE id = $2`,
			req.Skills, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update skills"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated successfully"})
}
