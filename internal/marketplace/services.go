package marketplace

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/db"
)

// CreateService lists a new service on the marketplace.
func CreateService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Title            string  `json:"title"`
		Description      string  `json:"description"`
		Category         string  `json:"category"`
		Price            float64 `json:"price"`
		ThumbnailURL     string  `json:"thumbnail_url"`
		DeliveryTimeDays int     `json:"delivery_time_days"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Title == "" || req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and valid price are required"})
	}
	if req.Category == "" {
		req.Category = "Other"
	}
	if !ValidCategories[req.Category] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}
	if req.DeliveryTimeDays <= 0 {
		req.DeliveryTimeDays = 3
	}

	serviceID := uuid.New().String()
	_, err := db.Conn.Exec(context.Background(), `
		INSERT INTO services (id, user_id, title, description, category, price, thumbnail_url, delivery_time_days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, serviceID, uid, req.Title, req.Description, req.Category, req.Price, req.ThumbnailURL, req.DeliveryTimeDays, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create service"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"service_id": serviceID,
		"message":    "service created successfully",
	})
}

// GetAllServices returns every active listing, newest first.
func GetAllServices(c echo.Context) error {
	rows, err := db.Conn.Query(context.Background(), `
        SELECT s.id, s.user_id, s.title, s.description, s.category, s.price,
               s.thumbnail_url, s.delivery_time_days, s.rating, s.num_reviews,
               s.created_at, u.name
        FROM services s
        JOIN users u ON u.id = s.user_id
        WHERE s.is_deleted = FALSE AND u.is_deleted = FALSE
        ORDER BY s.created_at DESC
    `)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list services"})
	}
	defer rows.Close()

	services := []echo.Map{}
	for rows.Next() {
		var s Service
		var sellerName string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.Category, &s.Price,
			&s.ThumbnailURL, &s.DeliveryTimeDays, &s.Rating, &s.NumReviews, &s.CreatedAt, &sellerName); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse service"})
		}
		services = append(services, echo.Map{
			"service":     s,
			"seller_name": sellerName,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"services": services})
}

// GetService returns a single listing with seller details, for the
// service details page.
func GetService(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing service id"})
	}

	var s Service
	var sellerName, sellerHeadline, sellerAvatar string
	err := db.Conn.QueryRow(context.Background(), `
        SELECT s.id, s.user_id, s.title, s.description, s.category, s.price,
               s.thumbnail_url, s.delivery_time_days, s.rating, s.num_reviews,
               s.created_at, u.name, u.headline, u.avatar_url
        FROM services s
        JOIN users u ON u.id = s.user_id
        WHERE s.id = $1 AND s.is_deleted = FALSE
    `, id).Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.Category, &s.Price,
		&s.ThumbnailURL, &s.DeliveryTimeDays, &s.Rating, &s.NumReviews, &s.CreatedAt,
		&sellerName, &sellerHeadline, &sellerAvatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch service"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"service": s,
		"seller": echo.Map{
			"id":         s.UserID,
			"name":       sellerName,
			"headline":   sellerHeadline,
			"avatar_url": sellerAvatar,
		},
	})
}
