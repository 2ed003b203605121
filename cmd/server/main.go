package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go-cashflow/internal/ai"
	"go-cashflow/internal/auth"
	"go-cashflow/internal/cache"
	"go-cashflow/internal/cashflow"
	"go-cashflow/internal/config"
	"go-cashflow/internal/database"
	"go-cashflow/internal/events"
	"go-cashflow/internal/handlers"
	"go-cashflow/internal/middleware"
	"go-cashflow/internal/pos"
	"go-cashflow/internal/session"
	"go-cashflow/internal/tenancy"
	"go-cashflow/internal/visitors"

	"github.com/bsm/redislock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN, cfg.GormLogLevel, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database after retries")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it caching is in-process and events stay local.
	bus := events.NewBus()
	var (
		publisher events.Publisher = bus
		locker    *redislock.Client
		shared    cache.Cache
	)
	if cfg.RedisAddress != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddress, 3)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, continuing without it")
		} else {
			defer rdb.Close()
			locker = redislock.New(rdb)
			shared = cache.NewRemote(rdb, "go-cashflow:")
			bridge := events.NewRedisBridge(rdb, bus, uuid.NewString(), logger)
			publisher = bridge
			go bridge.Run(ctx)
			logger.WithField("addr", cfg.RedisAddress).Info("connected to redis")
		}
	}
	if shared == nil {
		local, err := cache.NewLocal(64 << 20)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create cache")
		}
		defer local.Close()
		shared = local
	}

	var cashflowOpts []cashflow.Option
	if cfg.ReportCache {
		cashflowOpts = append(cashflowOpts, cashflow.WithCache(shared, cfg.ReportCacheTTL))
	}
	cf := cashflow.NewService(db, cfg.Location, cfg.LedgerPageSize, logger, cashflowOpts...)
	defer cf.Listen(bus)()

	sessions := session.NewResolver(db, auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenLifespan()), logger,
		session.WithProfileCache(shared, 5*time.Minute))
	sessions.Subscribe(func(ev session.Event) {
		logger.WithField("event", ev.Type).WithField("user_id", ev.UserID).Info("session changed")
	})
	go purgeRevokedTokens(ctx, sessions, logger)

	visitorService := visitors.NewService(db, cfg.Location)
	h := &handlers.Handler{
		DB:              db,
		Sessions:        sessions,
		Tenants:         tenancy.NewProvisioner(db, locker, logger),
		Cashflow:        cf,
		POS:             pos.NewService(db, publisher, logger),
		Visitors:        visitorService,
		VisitorRedirect: cfg.VisitorRedirect,
	}
	if cfg.GeminiAPIKey != "" {
		h.Agent = ai.NewAgent(cfg.GeminiAPIKey, cf, visitorService)
	}

	r := gin.Default()
	r.Use(middleware.RequestID(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.AllowRegistration {
		logger.Warn("Registration route is OPEN. Disable this in production!")
	} else {
		logger.Info("Registration route is DISABLED.")
	}
	h.Routes(r, handlers.RouteOptions{AllowRegistration: cfg.AllowRegistration})

	// --- Serve the web client ---
	r.Static("/assets", filepath.Join(cfg.WebDir, "assets"))
	index := filepath.Join(cfg.WebDir, "index.html")
	// SPA catch-all: "/tenant/dashboard" and friends are client routes.
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithField("url", cfg.BaseURL).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	logger.Info("Server stopped")
}

func purgeRevokedTokens(ctx context.Context, sessions *session.Resolver, logger logrus.FieldLogger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n, err := sessions.PurgeRevoked(ctx, now); err != nil {
				config.LogError(logger, "server", "purgeRevokedTokens", "purge revoked tokens", now, err)
			} else if n > 0 {
				logger.WithField("count", n).Info("purged expired token revocations")
			}
		}
	}
}
