package marketplace

import "time"

// Service categories mirror the set the client offers in its listing form.
var ValidCategories = map[string]bool{
	"Development": true,
	"Design":      true,
	"Marketing":   true,
	"Writing":     true,
	"Other":       true,
}

// Order statuses. Orders in completed or cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusDelivered: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// ValidStatus reports whether s is a member of the order status enum.
func ValidStatus(s string) bool { return validStatuses[s] }

// TerminalStatus reports whether an order in status s can no longer change.
func TerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Service is a listing offered by a seller. Rating and NumReviews are
// derived aggregates, recomputed whenever a review is recorded.
type Service struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Price            float64   `json:"price"`
	ThumbnailURL     string    `json:"thumbnail_url,omitempty"`
	DeliveryTimeDays int       `json:"delivery_time_days"`
	Rating           float64   `json:"rating"`
	NumReviews       int       `json:"num_reviews"`
	CreatedAt        time.Time `json:"created_at"`
}

// Order carries a snapshot of the service at purchase time so later edits
// to the listing never change historical orders.
type Order struct {
	ID                 string    `json:"id"`
	ServiceID          string    `json:"service_id"`
	BuyerID            string    `json:"buyer_id"`
	SellerID           string    `json:"seller_id"`
	FrozenTitle        string    `json:"frozen_title"`
	FrozenPrice        float64   `json:"frozen_price"`
	FrozenDeliveryDays int       `json:"frozen_delivery_days"`
	Amount             float64   `json:"amount"`
	Status             string    `json:"status"`
	DeliveryWork       string    `json:"delivery_work,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type Review struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	BuyerID   string    `json:"buyer_id"`
	BuyerName string    `json:"buyer_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
