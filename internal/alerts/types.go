package alerts

import "time"

// Task type constants
const (
	TaskMessageOffline = "notify:message_offline"
	TaskOrderPlaced    = "notify:order_placed"
	TaskOrderDelivered = "notify:order_delivered"
	TaskReviewPosted   = "notify:review_posted"
)

// Message sent while the recipient had no live connection.
type MessageOfflinePayload struct {
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Preview     string    `json:"preview"`
	SentAt      time.Time `json:"sent_at"`
}

// New order placed (notifies the seller).
type OrderPlacedPayload struct {
	OrderID  string    `json:"order_id"`
	BuyerID  string    `json:"buyer_id"`
	SellerID string    `json:"seller_id"`
	Title    string    `json:"title"`
	Amount   float64   `json:"amount"`
	SentAt   time.Time `json:"sent_at"`
}

// Order delivered (notifies the buyer).
type OrderDeliveredPayload struct {
	OrderID  string    `json:"order_id"`
	BuyerID  string    `json:"buyer_id"`
	SellerID string    `json:"seller_id"`
	Title    string    `json:"title"`
	SentAt   time.Time `json:"sent_at"`
}

// Review posted on a service (notifies the seller).
type ReviewPostedPayload struct {
	ServiceID string    `json:"service_id"`
	BuyerID   string    `json:"buyer_id"`
	SellerID  string    `json:"seller_id"`
	Rating    int       `json:"rating"`
	SentAt    time.Time `json:"sent_at"`
}
