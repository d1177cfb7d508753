package marketplace

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/linkerr-app/linkerr/internal/alerts"
	"github.com/linkerr-app/linkerr/internal/db"
)

type CreateReviewRequest struct {
	ServiceID string `json:"service_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// CreateReview records a buyer's rating for a service and recomputes the
// service's aggregate rating. Insert and recompute run in one transaction,
// with the aggregate derived from the reviews table inside the UPDATE, so
// concurrent reviews cannot lose each other's contribution.
// POST /reviews
func CreateReview(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(string)
	if !ok || buyerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ServiceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing service_id"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}
	if len(req.Comment) > 1000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment too long (max 1000 characters)"})
	}

	ctx := context.Background()

	var sellerID string
	err := db.Conn.QueryRow(ctx,
		`SELECT user_id FROM services WHERE id = $1 AND is_deleted = FALSE`,
		req.ServiceID).Scan(&sellerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch service"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	reviewID := uuid.New().String()
	now := time.Now()
	_, err = tx.Exec(ctx, `
		INSERT INTO reviews (id, service_id, buyer_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, reviewID, req.ServiceID, buyerID, req.Rating, req.Comment, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create review"})
	}

	// Recompute from the table rather than read-modify-write in the handler.
	_, err = tx.Exec(ctx, `
		UPDATE services s
		SET rating = agg.avg_rating,
		    num_reviews = agg.cnt,
		    updated_at = NOW()
		FROM (
			SELECT COALESCE(AVG(rating), 0)::float AS avg_rating, COUNT(*) AS cnt
			FROM reviews WHERE service_id = $1
		) agg
		WHERE s.id = $1
	`, req.ServiceID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update service rating"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	_ = alerts.EnqueueReviewPosted(req.ServiceID, buyerID, sellerID, req.Rating)

	return c.JSON(http.StatusCreated, echo.Map{
		"review_id": reviewID,
		"message":   "review created successfully",
	})
}

// GetServiceReviews returns all reviews for a service, newest first.
// GET /reviews/service/:id
func GetServiceReviews(c echo.Context) error {
	serviceID := c.Param("id")
	if serviceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing service id"})
	}

	rows, err := db.Conn.Query(context.Background(), `
        SELECT r.id, r.service_id, r.buyer_id, u.name, r.rating, r.comment, r.created_at
        FROM reviews r
        JOIN users u ON u.id = r.buyer_id
        WHERE r.service_id = $1
        ORDER BY r.created_at DESC
    `, serviceID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reviews"})
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.ServiceID, &r.BuyerID, &r.BuyerName, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse review"})
		}
		reviews = append(reviews, r)
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}
