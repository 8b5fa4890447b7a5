package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/config"
	"github.com/serviyapp/serviyapp-api/controllers"
	"github.com/serviyapp/serviyapp-api/middleware"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/services"
	"github.com/serviyapp/serviyapp-api/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application holds the wired HTTP surface
type application struct {
	controllers controllers.Controllers
	verifier    auth.TokenVerifier
	principals  auth.PrincipalRefresher
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ServiYApp API server...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDatabase(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	config.SetDB(db)

	if err := store.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migration completed successfully")

	app, err := newApplication(ctx, cfg, db, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, app, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server is running", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

// newApplication wires stores, auth and the external services from cfg.
// Google sign-in is enabled per variant when its client is configured; OAuth
// state lives in Redis when REDIS_URL is set and in signed tokens otherwise.
func newApplication(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*application, error) {
	issuer, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		return nil, err
	}

	users := store.NewUserStore(db)
	providers := store.NewProviderStore(db)
	locations := store.NewLocationStore(db)
	orders := store.NewOrderStore(db)

	service := auth.NewService(auth.ServiceDeps{
		Users:                users,
		Providers:            providers,
		Locations:            locations,
		Hasher:               auth.NewBcryptHasher(cfg.HashCost),
		Tokens:               issuer,
		Logger:               logger,
		AccessTokenTTL:       cfg.AccessTokenTTL,
		RegistrationTokenTTL: cfg.RegistrationTokenTTL,
		FrontendBaseURL:      cfg.FrontendBaseURL,
	})

	google := map[models.Variant]services.GoogleOAuth{}
	if cfg.GoogleUser.Enabled() {
		google[models.VariantUser] = services.NewGoogleService(cfg.GoogleUser)
	}
	if cfg.GoogleProvider.Enabled() {
		google[models.VariantProvider] = services.NewGoogleService(cfg.GoogleProvider)
	}

	var states services.StateStore
	if cfg.RedisURL != "" {
		client, err := config.ConnectRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		states = services.NewRedisStateStore(client, cfg.OAuthStateTTL)
	} else {
		logger.Info("REDIS_URL not set, using signed OAuth state")
		states = services.NewSignedStateStore([]byte(cfg.JWTSecret), cfg.OAuthStateTTL)
	}

	var images services.ImageService = services.UnavailableImageService{}
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.NewS3Service(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		images = services.NewImageService(s3Service)
	} else {
		logger.Warn("AWS_S3_BUCKET not set, profile picture uploads are disabled")
	}

	orderController := controllers.NewOrderController(orders, providers, logger)
	return &application{
		controllers: controllers.Controllers{
			Auth:      controllers.NewAuthController(service, google, states, logger),
			Users:     controllers.NewUserController(users, service, images, logger),
			Providers: controllers.NewProviderController(providers, locations, service, images, logger),
			Orders:    orderController,
			Messages:  controllers.NewMessageController(orderController, logger),
			Locations: controllers.NewLocationController(locations, logger),
		},
		verifier:   issuer,
		principals: auth.NewPrincipalLoader(users, providers),
	}, nil
}

// setupRouter builds the gin engine with the ambient middleware and every route
func setupRouter(cfg *config.Config, app *application, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     []string{strings.TrimRight(cfg.FrontendBaseURL, "/")},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	router.GET("/health", healthCheck)
	router.GET("/database/status", databaseStatus)

	controllers.RegisterRoutes(router, app.controllers, middleware.RequireAuth(app.verifier, app.principals, logger))
	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ServiYApp API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not initialized",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"dialect": db.Dialector.Name(),
		"tables":  tables,
	})
}
