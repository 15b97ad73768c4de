// File: kommunity/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kommunity/config"
	"kommunity/cron"
	"kommunity/database"
	requestRepo "kommunity/database/repository/request"
	scheduleRepo "kommunity/database/repository/schedule"
	userRepoPkg "kommunity/database/repository/user"
	"kommunity/handlers"
	"kommunity/routes"
	"kommunity/services/availability"
	"kommunity/services/booking"
	"kommunity/services/notification"
	"kommunity/services/request"
	"kommunity/services/user"
	"kommunity/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		utils.GetLogger().Fatal("main: invalid configuration", zap.Error(err))
	}
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Storage is the only hard dependency.
	if err := database.InitDB(); err != nil {
		logger.Fatal("main: storage initialization failed", zap.Error(err))
	}
	db := database.Database()
	timeout := config.StoreTimeout()

	schedules := scheduleRepo.NewMongoScheduleRepo(db, timeout)
	requests := requestRepo.NewMongoRequestRepo(db, timeout)
	users := userRepoPkg.NewMongoUserRepo(db, timeout)
	if err := scheduleRepo.EnsureIndexes(rootCtx, schedules); err != nil {
		logger.Warn("main: schedule indexes", zap.Error(err))
	}
	if err := requestRepo.EnsureIndexes(rootCtx, requests); err != nil {
		logger.Warn("main: request indexes", zap.Error(err))
	}
	if err := users.EnsureIndexes(rootCtx); err != nil {
		logger.Warn("main: user indexes", zap.Error(err))
	}

	// Notifications: transitions enqueue, the worker delivers.
	var deliver notification.Notifier = notification.LogNotifier{Logger: logger}
	if token := config.AppConfig.TelegramBotToken; token != "" {
		tg, err := notification.NewTelegramNotifier(token, users, logger)
		if err != nil {
			logger.Warn("main: Telegram disabled", zap.Error(err))
		} else {
			deliver = tg
		}
	}
	queueClient := asynq.NewClient(cron.RedisOpt())
	defer queueClient.Close()
	worker := cron.InitNotificationWorker(rootCtx, deliver, logger)

	var listeners []booking.SlotListener
	var calendarListener *notification.CalendarListener
	if path := config.AppConfig.GoogleCredentialsPath; path != "" {
		cl, err := notification.NewCalendarListener(rootCtx, path, notification.CalendarConfig{
			CalendarID: config.AppConfig.GoogleCalendarID,
			Timezone:   config.AppConfig.GoogleCalendarTimezone,
			Timeout:    config.NotifyTimeout(),
		}, users, logger)
		if err != nil {
			logger.Warn("main: calendar mirror disabled", zap.Error(err))
		} else {
			calendarListener = cl
			listeners = append(listeners, cl)
		}
	}

	// services.
	availabilityService := availability.NewAvailabilityService(schedules, logger)
	coordinator := booking.NewBookingCoordinator(schedules, logger, listeners...)
	requestService := request.NewRequestService(
		requests,
		users,
		coordinator,
		notification.NewQueueNotifier(queueClient, logger),
		logger,
	)
	userService := &user.DefaultUserService{Repo: users}

	redisClient, err := utils.NewQueueRedisClient()
	if err != nil {
		logger.Warn("main: Redis unreachable at startup", zap.Error(err))
	}
	defer redisClient.Close()
	health := utils.NewHealthMonitor(redisClient, database.MongoClient)
	health.Start(rootCtx, 60*time.Second)

	handlerBundle := handlers.NewHandlerBundle(
		&handlers.RequestHandler{Service: requestService},
		&handlers.ScheduleHandler{Service: availabilityService},
		&handlers.ServicemanHandler{Users: userService, Requests: requestService},
		&handlers.HealthHandler{Monitor: health},
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		MaxRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
		RateLimitClients:  config.AppConfig.RateLimitClients,
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stop()
	worker.Shutdown()
	if calendarListener != nil {
		calendarListener.Wait()
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
