package db

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var Conn *pgxpool.Pool

// Init connects to Postgres and makes sure the schema is in place.
func Init() {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.WithError(err).Fatal("unable to connect to database")
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.WithError(err).Fatal("unable to ping database")
	}

	log.Info("connected to Postgres")

	ensureUsersSchema()
	ensureServicesSchema()
	ensureOrdersSchema()
	ensureReviewsSchema()
	ensurePostsSchema()
	ensureMessagesSchema()
	ensureNotificationsTable()
}

// ensureUsersSchema creates the users and connections tables if missing.
func ensureUsersSchema() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            headline TEXT NOT NULL DEFAULT '',
            bio TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL DEFAULT '',
            avatar_url TEXT NOT NULL DEFAULT '',
            skills TEXT[] NOT NULL DEFAULT '{}',
            wallet_balance NUMERIC NOT NULL DEFAULT 0,
            is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS connections (
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            connection_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (user_id, connection_id)
        );
    `)
	if err != nil {
		log.WithError(err).Error("failed to ensure users schema")
	}
}

// ensureServicesSchema creates the services table if missing.
func ensureServicesSchema() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS services (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT 'Other'
                CHECK (category IN ('Development','Design','Marketing','Writing','Other')),
            price NUMERIC NOT NULL CHECK (price >= 0),
            thumbnail_url TEXT NOT NULL DEFAULT '',
            delivery_time_days INTEGER NOT NULL DEFAULT 3,
            rating DOUBLE PRECISION NOT NULL DEFAULT 0,
            num_reviews INTEGER NOT NULL DEFAULT 0,
            is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_services_user ON services(user_id);
    `)
	if err != nil {
		log.WithError(err).Error("failed to ensure services schema")
	}
}

// ensureOrdersSchema creates the orders table if missing. The snapshot
// columns freeze service data at purchase time so later edits to the
// service never change historical orders.
func ensureOrdersSchema() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            service_id UUID NOT NULL REFERENCES services(id),
            buyer_id UUID NOT NULL REFERENCES users(id),
            seller_id UUID NOT NULL REFERENCES users(id),
            frozen_title TEXT NOT NULL,
            frozen_price NUMERIC NOT NULL,
            frozen_delivery_days INTEGER,
            amount NUMERIC NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending','delivered','completed','cancelled')),
            delivery_work TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id);
        CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id);
    `)
	if err != nil {
		log.WithError(err).Error("failed to ensure orders schema")
	}
}

// ensureReviewsSchema creates the reviews table if missing.
func ensureReviewsSchema() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS reviews (
            id UUID PRIMARY KEY,
            service_id UUID NOT NULL REFERENCES services(id) ON DELETE CASCADE,
            buyer_id UUID NOT NULL REFERENCES users(id),
            rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_reviews_service ON reviews(service_id);
    `)
	if err != nil {
		log.WithError(err).Error("failed to ensure reviews schema")
	}
}

// ensurePostsSchema creates the feed tables if missing.
func ensurePostsSchema() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS posts (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            image_url TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS post_likes (
            post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (post_id, user_id)
        );
        CREATE TABLE IF NOT EXISTS post_comments (
            id UUID PRIMARY KEY,
            post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            body TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_post_comments_post ON post_comments(post_id);
    `)
	if err != nil {
		log.WithError(err).Error("failed to ensure posts schema")
	}
}

// ensureMessagesSchema creates the messages table if missing. client_key
// is an optional client-generated idempotency key; the partial unique
// index makes a retried record call a no-op instead of a duplicate row.
func ensureMessagesSchema() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY,
            sender_id UUID NOT NULL REFERENCES users(id),
            recipient_id UUID NOT NULL REFERENCES users(id),
            body TEXT NOT NULL,
            client_key TEXT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_messages_pair
            ON messages(sender_id, recipient_id, created_at);
        CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_client_key
            ON messages(client_key) WHERE client_key IS NOT NULL;
    `)
	if err != nil {
		log.WithError(err).Error("failed to ensure messages schema")
	}
}

// ensureNotificationsTable creates the notifications table if it doesn't exist.
func ensureNotificationsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type TEXT NOT NULL,
            title TEXT NOT NULL,
            body TEXT NOT NULL DEFAULT '',
            reference UUID NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_notifications_user_created
            ON notifications(user_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_notifications_user_unread
            ON notifications(user_id) WHERE read_at IS NULL;
    `)
	if err != nil {
		log.WithError(err).Error("failed to create notifications table")
	}
}
