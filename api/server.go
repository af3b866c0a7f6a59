package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civicfix/civicback/api/auth"
	"github.com/civicfix/civicback/api/handler"
	"github.com/civicfix/civicback/env"
	"github.com/civicfix/civicback/logging"
	"github.com/civicfix/civicback/middleware"
	"github.com/civicfix/civicback/middleware/loaders"
	"github.com/civicfix/civicback/services/account"
	"github.com/civicfix/civicback/services/assignment"
	"github.com/civicfix/civicback/services/discussion"
	"github.com/civicfix/civicback/services/feedback"
	"github.com/civicfix/civicback/services/finance"
	"github.com/civicfix/civicback/services/media"
	"github.com/civicfix/civicback/services/mongo"
	"github.com/civicfix/civicback/services/notification"
	"github.com/civicfix/civicback/services/redis"
	"github.com/civicfix/civicback/services/report"
	"github.com/civicfix/civicback/services/s3"
	"github.com/civicfix/civicback/services/volunteer"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := env.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(cfg.AppEnv)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *env.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("failed to disconnect from mongo", zap.Error(err))
		}
	}()

	db := mongo.New(client.Database(cfg.MongoDB), logger)
	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}
	logger.Info("connected to mongo", zap.String("db", cfg.MongoDB))

	var objects media.ObjectStore
	s3cfg := s3.ClientConfig{
		Bucket:    cfg.S3Bucket,
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	}
	if s3cfg.Enabled() {
		store, err := s3.NewS3Service(ctx, s3cfg, logger)
		if err != nil {
			return err
		}
		objects = store
	} else {
		logger.Warn("S3 is not configured, image uploads are disabled")
	}
	uploader := media.NewUploader(objects, logger)

	var bus *redis.EventBus
	if cfg.RedisAddr != "" {
		rdb := redis.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, live events are disabled", zap.Error(err))
		} else {
			bus = redis.NewEventBus(rdb, cfg.EventsChannel, logger)
		}
	}

	users := mongo.NewUserService(db)
	admins := mongo.NewAdminService(db)
	volunteers := mongo.NewVolunteerService(db)
	reports := mongo.NewReportService(db)
	notifications := notification.NewService(mongo.NewNotificationService(db), logger)

	accounts := account.NewService(users, admins, uploader, logger)
	if cfg.AdminEmail != "" {
		if err := accounts.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	opts := []assignment.Option{
		assignment.WithLookup(loaders.NewLookup(volunteers, reports)),
		assignment.WithNotifier(notifications),
	}
	if bus != nil {
		opts = append(opts, assignment.WithEvents(bus))
	}

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTDuration)
	h := &handler.Handler{
		Accounts:      accounts,
		Tokens:        tokens,
		Auth:          auth.NewAuthenticator(tokens, accounts, logger),
		Volunteers:    volunteer.NewDirectory(volunteers, logger),
		Reports:       report.NewService(reports, uploader, notifications, logger),
		Assignments:   assignment.NewEngine(mongo.NewAssignmentService(db), reports, volunteers, logger, opts...),
		Notifications: notifications,
		Finances:      finance.NewService(mongo.NewFinanceService(db), logger),
		Discussions:   discussion.NewService(mongo.NewDiscussionService(db), logger),
		Feedback:      feedback.NewService(mongo.NewFeedbackService(db), logger),
		Loaders:       loaders.Middleware(volunteers, reports),
		Logger:        logger,
	}
	if bus != nil {
		h.Events = bus
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.AccessLog(logger), requestTimeout(cfg.RequestTimeout))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h.Register(router)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: false,
		AllowedHeaders:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestTimeout bounds the context handed to services for each request.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
