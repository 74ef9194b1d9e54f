package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"cookedhub/database"
	"cookedhub/internal/config"
	"cookedhub/internal/geo"
	"cookedhub/internal/httpapi/handler"
	"cookedhub/internal/httpapi/middleware"
	"cookedhub/internal/httpapi/repository"
	"cookedhub/internal/httpapi/service"
	"cookedhub/internal/notify"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	publisher, err := notify.NewRedisPublisher(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}
	defer publisher.Close()

	repos := repository.NewRepositories(db)
	txManager := repository.NewTxManager(db)
	dispatcher := notify.NewDispatcher(publisher, repository.NewNotificationStore(repos.Notifications), logger)
	geocoder := geo.NewNominatimClient(logger)

	authService := service.NewAuthService(repos.Users, geocoder, logger, cfg)
	userService := service.NewUserService(repos.Users, geocoder, logger)
	bookingService := service.NewBookingService(repos, txManager, dispatcher, logger)
	ratingService := service.NewRatingService(repos, txManager, dispatcher, logger)
	notificationService := service.NewNotificationService(repos.Notifications)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	locationHandler := handler.NewLocationHandler(geocoder)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthMiddleware(authService, repos.Users)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/register-cook", authHandler.RegisterCook)
			auth.POST("/login", authHandler.Login)
			auth.POST("/check-identifier", authHandler.CheckIdentifier)
			auth.POST("/check-username", authHandler.CheckUsername)
			// Setup works with either the one-time token or the session
			auth.POST("/setup-profile", authHandler.SetupCookProfile)
			auth.POST("/setup-profile/session", authRequired, authHandler.SetupCookProfile)
		}

		users := api.Group("/users", authRequired)
		{
			users.GET("/me", userHandler.Me)
			users.PUT("/profile", middleware.RequireRole("ROLE_COOK"), userHandler.UpdateProfile)
			users.PUT("/profile-picture", userHandler.UpdateProfilePicture)
		}
		api.GET("/users/nearby-cooks", userHandler.NearbyCooks)

		bookings := api.Group("/bookings", authRequired, middleware.RequireActive())
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("/customer", bookingHandler.ListForCustomer)
			bookings.GET("/cook", middleware.RequireRole("ROLE_COOK"), bookingHandler.ListForCook)
			bookings.PUT("/:id/status", middleware.RequireRole("ROLE_COOK"), bookingHandler.UpdateStatus)
			bookings.PUT("/:id/service-complete", middleware.RequireRole("ROLE_COOK"), bookingHandler.MarkServiceComplete)
			bookings.PUT("/:id/payment-received", middleware.RequireRole("ROLE_COOK"), bookingHandler.MarkPaymentReceived)
			bookings.DELETE("/:id", bookingHandler.Delete)
		}

		ratings := api.Group("/ratings")
		{
			ratings.POST("", authRequired, middleware.RequireActive(), ratingHandler.Submit)
			ratings.GET("/cook/:cookId", ratingHandler.ListForCook)
		}

		notifications := api.Group("/notifications", authRequired)
		{
			notifications.GET("/unread", notificationHandler.GetUnread)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		}

		api.GET("/location/reverse-geocode", locationHandler.ReverseGeocode)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	switch cfg.LogLevel {
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
