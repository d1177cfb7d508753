package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"github.com/linkerr-app/linkerr/internal/db"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the asynq worker and initializes a shared client. Tasks are
// consumed into the notifications table; nothing here touches the
// realtime path.
func Init() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskMessageOffline, handleMessageOffline)
	mux.HandleFunc(TaskOrderPlaced, handleOrderPlaced)
	mux.HandleFunc(TaskOrderDelivered, handleOrderDelivered)
	mux.HandleFunc(TaskReviewPosted, handleReviewPosted)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"notify": 10,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.WithError(err).Error("asynq server stopped")
		}
	}()

	log.WithField("addr", redisAddr).Info("alerts worker initialized")
}

// Close releases the client and stops the worker.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

// insertNotification writes one in-app notification row.
func insertNotification(ctx context.Context, userID, ntype, title, body string, reference *string) error {
	_, err := db.Conn.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, body, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New().String(), userID, ntype, title, body, reference)
	return err
}

func handleMessageOffline(ctx context.Context, t *asynq.Task) error {
	var p MessageOfflinePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}

	var senderName string
	_ = db.Conn.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, p.SenderID).Scan(&senderName)
	if senderName == "" {
		senderName = "Someone"
	}

	preview := p.Preview
	if len(preview) > 80 {
		preview = preview[:80]
	}
	return insertNotification(ctx, p.RecipientID, "message:new",
		fmt.Sprintf("New message from %s", senderName), preview, &p.SenderID)
}

func handleOrderPlaced(ctx context.Context, t *asynq.Task) error {
	var p OrderPlacedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("%s was ordered for %.2f", p.Title, p.Amount)
	return insertNotification(ctx, p.SellerID, "order:placed", "You have a new order", body, &p.OrderID)
}

func handleOrderDelivered(ctx context.Context, t *asynq.Task) error {
	var p OrderDeliveredPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("Your order for %s has been delivered", p.Title)
	return insertNotification(ctx, p.BuyerID, "order:delivered", "Order delivered", body, &p.OrderID)
}

func handleReviewPosted(ctx context.Context, t *asynq.Task) error {
	var p ReviewPostedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	body := fmt.Sprintf("A buyer left a %d-star review on your service", p.Rating)
	return insertNotification(ctx, p.SellerID, "review:posted", "New review", body, &p.ServiceID)
}
