package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub_backend/internal/accounts"
	"coursehub_backend/internal/adapters"
	"coursehub_backend/internal/adapters/storage"
	"coursehub_backend/internal/categories"
	"coursehub_backend/internal/contact"
	"coursehub_backend/internal/courses"
	"coursehub_backend/internal/enrollments"
	apphttp "coursehub_backend/internal/http"
	"coursehub_backend/internal/http/router"
	"coursehub_backend/internal/lessons"
	"coursehub_backend/internal/payments"
	"coursehub_backend/internal/queue"
	"coursehub_backend/internal/reviews"
	"coursehub_backend/migrations"
	"coursehub_backend/platform/config"
	"coursehub_backend/platform/db"
	"coursehub_backend/platform/logger"
	"coursehub_backend/platform/token"
	"coursehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// ensureBuckets verifies the MinIO buckets exist, creating them when
// missing. The buckets are independent, so the checks run concurrently.
func ensureBuckets(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, buckets map[string]string) {
	group, groupCtx := errgroup.WithContext(ctx)
	for name, bucket := range buckets {
		name, bucket := name, bucket
		group.Go(func() error {
			return withRetry(groupCtx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
				return storageSvc.EnsureBucketExists(groupCtx, bucket)
			})
		})
	}
	if err := group.Wait(); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.Migrate(cfg.GetDatabaseURL(), migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Shared validator instance for dependency injection
	val := validator.New()

	codec := token.NewCodec(cfg.GetJWTSecret(), cfg.GetSessionTokenTTL())

	// Storage service for avatar and thumbnail uploads (MinIO)
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	ensureBuckets(ctx, log, storageSvc, map[string]string{
		"avatars":           cfg.GetMinioBucketAvatars(),
		"course-thumbnails": cfg.GetMinioBucketThumbnails(),
	})
	log.Info(
		"storage service initialized",
		"avatarsBucket", cfg.GetMinioBucketAvatars(),
		"thumbnailsBucket", cfg.GetMinioBucketThumbnails(),
	)

	// Task dispatcher for email delivery; a missing Redis URL degrades to a
	// no-op so the API keeps working without the worker.
	dispatcher, closeDispatcher := initDispatcher(cfg, log)
	if closeDispatcher != nil {
		defer closeDispatcher()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	accountsModule := accounts.NewModule(pool, codec, dispatcher, storageSvc, cfg.GetMinioBucketAvatars(), val, cfg, log)
	categoriesModule := categories.NewModule(pool, val)
	coursesModule := courses.NewModule(pool, storageSvc, cfg.GetMinioBucketThumbnails(), val, log)

	// Anti-corruption adapters over the courses and accounts repositories
	courseResolver := adapters.NewCourseSlugResolver(coursesModule.Repository())
	userContacts := adapters.NewAccountContactProvider(accountsModule.Repository())

	enrollmentsModule := enrollments.NewModule(
		pool,
		adapters.NewEnrollmentCourseProvider(coursesModule.Repository()),
		userContacts,
		dispatcher,
		val,
		log,
	)
	enrollmentState := adapters.NewEnrollmentStateAdapter(enrollmentsModule.Repository())

	lessonsModule := lessons.NewModule(
		pool,
		adapters.NewLessonCourseProvider(coursesModule.Repository()),
		enrollmentState,
		courseResolver,
		enrollmentState,
		val,
	)

	reviewsModule := reviews.NewModule(
		pool,
		adapters.NewCourseRatingAdapter(coursesModule.Repository()),
		courseResolver,
		enrollmentState,
		val,
		log,
	)

	paymentsModule := payments.NewModule(
		pool,
		adapters.NewPaymentCourseProvider(coursesModule.Repository()),
		adapters.NewPaymentEnroller(enrollmentsModule.Service()),
		val,
		log,
	)

	contactModule := contact.NewModule(pool, dispatcher, cfg, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:     cfg,
		Logger:     log,
		Health:     pool,
		TokenCodec: codec,
		Users:      adapters.NewAccountUserResolver(accountsModule.Repository()),
		Modules: []apphttp.Module{
			accountsModule,
			categoriesModule,
			coursesModule,
			lessonsModule,
			enrollmentsModule,
			reviewsModule,
			paymentsModule,
			contactModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initDispatcher(cfg *config.Config, log *logger.Logger) (queue.Dispatcher, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; email dispatch disabled")
		return queue.NoopDispatcher{}, nil
	}

	client, err := queue.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize queue client", "error", err)
		return queue.NoopDispatcher{}, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt < attempts {
			delay := baseDelay * time.Duration(attempt)
			log.Warn("retrying after failure", "operation", name, "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, attempts, lastErr)
}
