// @title        Members Only
// @version      1.0
// @description  Members-only message board. Pages are server-rendered HTML; form posts answer with 303 redirects.
// @host         localhost:3000
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubhouse/members-only/internal/api"
	"github.com/clubhouse/members-only/internal/api/handler"
	"github.com/clubhouse/members-only/internal/core/ports"
	"github.com/clubhouse/members-only/internal/core/service"
	mongodb "github.com/clubhouse/members-only/internal/infrastructure/db/mongo"
	redisdb "github.com/clubhouse/members-only/internal/infrastructure/db/redis"
	"github.com/clubhouse/members-only/internal/pkg/config"
	"github.com/clubhouse/members-only/internal/session"
	"github.com/clubhouse/members-only/internal/web"
	"github.com/clubhouse/members-only/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "members-only",
	})

	if err := run(cfg); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	users := mongodb.NewUserRepository(db)
	messages := mongodb.NewMessageRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, messages); err != nil {
		return err
	}

	checks := []handler.DependencyCheck{
		{Name: "mongodb", Ping: func(ctx context.Context) error { return mongodb.Ping(ctx, db) }},
	}

	var store ports.SessionStore
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func(c *redis.Client) { _ = c.Close() }(rdb)
		store = redisdb.NewSessionStore(rdb, cfg.Session.TTL)
		checks = append(checks, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) },
		})
	case config.SessionBackendMemory:
		log.Warn().Msg("using in-memory sessions; they are lost on restart")
		store = session.NewMemoryStore()
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	authService := service.NewAuthService(users, service.NewBcryptHasher(bcrypt.DefaultCost), log)
	membershipService := service.NewMembershipService(users, service.Passcodes{
		Member: cfg.MemberPasscode,
		Admin:  cfg.AdminPasscode,
	}, log)
	messageService := service.NewMessageService(messages, users, log)

	e := api.NewRouter(api.Dependencies{
		Auth:       authService,
		Membership: membershipService,
		Messages:   messageService,
		Sessions: session.NewManager(store, session.Options{
			Secret: []byte(cfg.Session.Secret),
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.CookieSecure,
		}),
		Renderer:   renderer,
		Checks:     checks,
		Logger:     log,
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
