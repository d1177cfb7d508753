package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/linkerr-app/linkerr/internal/alerts"
	"github.com/linkerr-app/linkerr/internal/auth"
	"github.com/linkerr-app/linkerr/internal/db"
	"github.com/linkerr-app/linkerr/internal/feed"
	"github.com/linkerr-app/linkerr/internal/marketplace"
	"github.com/linkerr-app/linkerr/internal/messaging"
	appmw "github.com/linkerr-app/linkerr/internal/middleware"
	"github.com/linkerr-app/linkerr/internal/search"
	"github.com/linkerr-app/linkerr/internal/user"
)

func main() {
	_ = godotenv.Load()

	// Init subsystems
	db.Init()
	alerts.Init()
	defer alerts.Close()

	// The messaging handler owns the relay and its presence registry for
	// the lifetime of the process.
	msg := messaging.NewHandler()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Health
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// Public routes
	e.POST("/auth/register", auth.Register)
	e.POST("/auth/login", auth.Login)
	e.GET("/users/:id", user.GetPublicProfile)
	e.GET("/services", marketplace.GetAllServices)
	e.GET("/services/:id", marketplace.GetService)
	e.GET("/reviews/service/:id", marketplace.GetServiceReviews)
	e.GET("/posts", feed.ListPosts)
	e.GET("/search", search.Query)

	// Authenticated group
	g := e.Group("")
	g.Use(appmw.JWTMiddleware)

	g.GET("/auth/me", auth.Me)
	g.GET("/users", user.ListUsers)
	g.PATCH("/users/profile", user.UpdateProfile)
	g.PUT("/users/connect/:id", user.Connect)

	// Marketplace
	g.POST("/services", marketplace.CreateService)
	g.POST("/orders/purchase", marketplace.Purchase)
	g.GET("/orders/mine", marketplace.GetUserOrders)
	g.PUT("/orders/:id/deliver", marketplace.DeliverOrder)
	g.PUT("/orders/:id/status", marketplace.UpdateStatus)
	g.POST("/reviews", marketplace.CreateReview)

	// Feed
	g.POST("/posts", feed.CreatePost)
	g.PUT("/posts/:id/like", feed.ToggleLike)
	g.POST("/posts/:id/comments", feed.AddComment)

	// Messaging: durable record/history plus the websocket relay
	g.POST("/messages", msg.Record)
	g.GET("/messages/:userId", msg.History)
	g.GET("/ws", msg.ServeWS)

	// Notifications
	g.GET("/notifications", alerts.ListNotifications)
	g.GET("/notifications/unread_count", alerts.UnreadCount)
	g.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("API server listening")
	if err := e.Start(":" + port); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
