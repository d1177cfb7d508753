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

// Purchase creates an order for a service. Title, price and delivery time
// are copied into the order so later edits to the listing don't rewrite
// purchase history.
// POST /orders/purchase
func Purchase(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(string)
	if !ok || buyerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		ServiceID string `json:"service_id"`
	}
	if err := c.Bind(&req); err != nil || req.ServiceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service_id"})
	}

	var (
		sellerID     string
		title        string
		price        float64
		deliveryDays int
	)
	err := db.Conn.QueryRow(context.Background(), `
		SELECT user_id, title, price, delivery_time_days
		FROM services WHERE id = $1 AND is_deleted = FALSE
	`, req.ServiceID).Scan(&sellerID, &title, &price, &deliveryDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch service"})
	}

	if sellerID == buyerID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you cannot order your own service"})
	}

	orderID := uuid.New().String()
	_, err = db.Conn.Exec(context.Background(), `
		INSERT INTO orders (id, service_id, buyer_id, seller_id,
		                    frozen_title, frozen_price, frozen_delivery_days,
		                    amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9)
	`, orderID, req.ServiceID, buyerID, sellerID, title, price, deliveryDays, price, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}

	_ = alerts.EnqueueOrderPlaced(orderID, buyerID, sellerID, title, price)

	return c.JSON(http.StatusCreated, echo.Map{
		"order_id": orderID,
		"message":  "order placed successfully",
	})
}

// GetUserOrders returns the authenticated user's orders split into
// purchases (as buyer) and sales (as seller), newest first.
// GET /orders/mine
func GetUserOrders(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	purchases, err := fetchOrders(c.Request().Context(), `o.buyer_id = $1`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch purchases"})
	}
	sales, err := fetchOrders(c.Request().Context(), `o.seller_id = $1`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch sales"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purchases": purchases,
		"sales":     sales,
	})
}

func fetchOrders(ctx context.Context, cond string, userID string) ([]echo.Map, error) {
	rows, err := db.Conn.Query(ctx, `
        SELECT o.id, o.service_id, o.buyer_id, o.seller_id,
               o.frozen_title, o.frozen_price, o.frozen_delivery_days,
               o.amount, o.status, o.delivery_work, o.created_at,
               b.name, s.name
        FROM orders o
        JOIN users b ON b.id = o.buyer_id
        JOIN users s ON s.id = o.seller_id
        WHERE `+cond+`
        ORDER BY o.created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []echo.Map{}
	for rows.Next() {
		var o Order
		var buyerName, sellerName string
		if err := rows.Scan(&o.ID, &o.ServiceID, &o.BuyerID, &o.SellerID,
			&o.FrozenTitle, &o.FrozenPrice, &o.FrozenDeliveryDays,
			&o.Amount, &o.Status, &o.DeliveryWork, &o.CreatedAt,
			&buyerName, &sellerName); err != nil {
			return nil, err
		}
		out = append(out, echo.Map{
			"order":       o,
			"buyer_name":  buyerName,
			"seller_name": sellerName,
		})
	}
	return out, rows.Err()
}

// DeliverOrder lets the seller attach the delivered work and move the
// order from pending to delivered.
// PUT /orders/:id/deliver
func DeliverOrder(c echo.Context) error {
	sellerID, ok := c.Get("user_id").(string)
	if !ok || sellerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing order id"})
	}

	var req struct {
		DeliveryLink string `json:"delivery_link"`
	}
	if err := c.Bind(&req); err != nil || req.DeliveryLink == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "delivery_link is required"})
	}

	ctx := context.Background()

	var buyerID, status, title string
	err := db.Conn.QueryRow(ctx, `
		SELECT buyer_id, status, frozen_title FROM orders WHERE id = $1 AND seller_id = $2
	`, orderID, sellerID).Scan(&buyerID, &status, &title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found or not yours"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}

	if status != StatusPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is not pending", "status": status})
	}

	_, err = db.Conn.Exec(ctx, `
		UPDATE orders SET status = 'delivered', delivery_work = $1, updated_at = NOW()
		WHERE id = $2
	`, req.DeliveryLink, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deliver order"})
	}

	_ = alerts.EnqueueOrderDelivered(orderID, buyerID, sellerID, title)

	return c.JSON(http.StatusOK, echo.Map{
		"order_id":      orderID,
		"status":        StatusDelivered,
		"delivery_work": req.DeliveryLink,
	})
}

// UpdateStatus moves an order to a new status. Completed and cancelled
// orders are frozen.
// PUT /orders/:id/status
func UpdateStatus(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing order id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if !ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx := context.Background()

	var buyerID, sellerID, current string
	err := db.Conn.QueryRow(ctx,
		`SELECT buyer_id, seller_id, status FROM orders WHERE id = $1`, orderID,
	).Scan(&buyerID, &sellerID, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}

	if userID != buyerID && userID != sellerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this order"})
	}
	if TerminalStatus(current) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order can no longer change", "status": current})
	}

	_, err = db.Conn.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		req.Status, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}

	return c.JSON(http.StatusOK, echo.Map{"order_id": orderID, "status": req.Status})
}
