// Command api is the entry point for the Manov HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables.
//  2. Initialize structured logger.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nathanpasca/manov-sub001/internal/api"
	"github.com/nathanpasca/manov-sub001/internal/core/author"
	"github.com/nathanpasca/manov-sub001/internal/core/chapter"
	"github.com/nathanpasca/manov-sub001/internal/core/genre"
	"github.com/nathanpasca/manov-sub001/internal/core/language"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/library/favorite"
	"github.com/nathanpasca/manov-sub001/internal/library/progress"
	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
	"github.com/nathanpasca/manov-sub001/internal/platform/config"
	"github.com/nathanpasca/manov-sub001/internal/platform/constants"
	"github.com/nathanpasca/manov-sub001/internal/platform/logging"
	"github.com/nathanpasca/manov-sub001/internal/platform/migration"
	pgstore "github.com/nathanpasca/manov-sub001/internal/platform/postgres"
	redisstore "github.com/nathanpasca/manov-sub001/internal/platform/redis"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/internal/search"
	"github.com/nathanpasca/manov-sub001/internal/social/comment"
	"github.com/nathanpasca/manov-sub001/internal/social/rating"
	"github.com/nathanpasca/manov-sub001/internal/users/account"
	"github.com/nathanpasca/manov-sub001/internal/users/admin"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// Loaded before the logger because LOG_FILE and DEBUG shape it.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("startup failure", slog.String("context", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log, closeLog := logging.New(logging.Options{
		App:        "manov",
		Debug:      cfg.Debug,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	defer func() { _ = closeLog() }()
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("version", constants.AppVersion),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	readCache := cache.NewRedisCache(rdb)

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, auth.NewSessionRepository(rdb), jwtSvc, log)
	authService.SetDefaultLanguage(cfg.DefaultLanguage)
	accountService := account.NewService(userRepository, log)
	adminService := admin.NewService(admin.NewPostgresRepository(pool), userRepository, authService, log)

	languageService := language.NewService(language.NewPostgresRepository(pool), log)
	authorService := author.NewService(author.NewPostgresRepository(pool), readCache, log)
	genreService := genre.NewService(genre.NewPostgresRepository(pool), readCache, cfg.CacheTTL, log)
	novelService := novel.NewService(novel.NewPostgresRepository(pool), authorService, languageService, readCache, cfg.CacheTTL, log)
	chapterService := chapter.NewService(chapter.NewPostgresRepository(pool), novelService, languageService, readCache, cfg.CacheTTL, log)

	ratingService := rating.NewService(rating.NewPostgresRepository(pool), novelService, readCache, log)
	commentService := comment.NewService(comment.NewPostgresRepository(pool), novelService, chapterService, log)
	favoriteService := favorite.NewService(favorite.NewPostgresRepository(pool), novelService, readCache, log)
	progressService := progress.NewService(progress.NewPostgresRepository(pool), novelService, chapterService, log)
	searchService := search.NewService(search.NewPostgresRepository(pool), novelService, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,

		Auth:    auth.NewHandler(authService),
		Account: account.NewHandler(accountService),
		Admin:   admin.NewHandler(adminService),

		Language: language.NewHandler(languageService),
		Author:   author.NewHandler(authorService),
		Genre:    genre.NewHandler(genreService),
		Novel:    novel.NewHandler(novelService),
		Chapter:  chapter.NewHandler(chapterService),

		Rating:  rating.NewHandler(ratingService),
		Comment: comment.NewHandler(commentService),

		Favorite: favorite.NewHandler(favoriteService),
		Progress: progress.NewHandler(progressService),

		Search: search.NewHandler(searchService),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
