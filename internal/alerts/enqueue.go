package alerts

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

func enqueue(taskType string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(taskType, b)
	_, err = ensureClient().Enqueue(task, asynq.Queue("notify"))
	return err
}

// EnqueueMessageOffline leaves a notification for a recipient who had no
// live connection when the message was recorded.
func EnqueueMessageOffline(senderID, recipientID, preview string) error {
	return enqueue(TaskMessageOffline, MessageOfflinePayload{
		SenderID:    senderID,
		RecipientID: recipientID,
		Preview:     preview,
		SentAt:      time.Now(),
	})
}

// EnqueueOrderPlaced notifies the seller of a new order.
func EnqueueOrderPlaced(orderID, buyerID, sellerID, title string, amount float64) error {
	return enqueue(TaskOrderPlaced, OrderPlacedPayload{
		OrderID:  orderID,
		BuyerID:  buyerID,
		SellerID: sellerID,
		Title:    title,
		Amount:   amount,
		SentAt:   time.Now(),
	})
}

// EnqueueOrderDelivered notifies the buyer that their order was delivered.
func EnqueueOrderDelivered(orderID, buyerID, sellerID, title string) error {
	return enqueue(TaskOrderDelivered, OrderDeliveredPayload{
		OrderID:  orderID,
		BuyerID:  buyerID,
		SellerID: sellerID,
		Title:    title,
		SentAt:   time.Now(),
	})
}

// EnqueueReviewPosted notifies the seller of a new review.
func EnqueueReviewPosted(serviceID, buyerID, sellerID string, rating int) error {
	return enqueue(TaskReviewPosted, ReviewPostedPayload{
		ServiceID: serviceID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Rating:    rating,
		SentAt:    time.Now(),
	})
}
