package cli

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"spark-quiz/internal/app"
	"spark-quiz/internal/config"
	"spark-quiz/internal/domain"
	"spark-quiz/internal/infra/memory"
	pgstore "spark-quiz/internal/infra/postgres"
	redcache "spark-quiz/internal/infra/redis"
	"spark-quiz/internal/logger"
	transport "spark-quiz/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the backend.
func newServeCmd() *cobra.Command {
	var port string

	envPort := os.Getenv("PORT")
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), configPath, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", envPort, "port to listen on")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(debug)
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8000"
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = "dev-secret"
		log.Warn("auth.jwt_secret not configured, using the development secret")
	}
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 30*time.Minute)
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)

	var (
		users        app.UserRepository
		technologies app.TechnologyRepository
		questions    app.QuestionRepository
		sessions     app.SessionRepository
	)

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()

		store := pgstore.NewStore(db)
		users, technologies, sessions = store, store, store

		loader := pgstore.NewQuestionLoader(pool)
		var lists questionLists
		if cfg.Redis.Addr != "" {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()
			lists = redcache.NewQuestionCache(client, loader, cacheTTL)
		} else {
			lists = memory.NewQuestionCache(loader, cacheTTL)
		}
		questions = &cachedQuestionRepo{lists: lists, byID: store}
	} else {
		log.Info("postgres.url not configured, serving from the in-memory seed store")
		store := memory.NewSeededStore()
		users, technologies, questions, sessions = store, store, store, store
	}

	auth := app.NewAuthService(users, secret, tokenTTL)
	quizSvc := app.NewQuizService(technologies, questions, sessions)
	dashboard := app.NewDashboardService(sessions, technologies)
	handler := transport.NewHandler(auth, quizSvc, dashboard, log)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz backend", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// questionLists is the cached read path for full question sets.
type questionLists interface {
	QuestionsByTechnology(ctx context.Context, technology string) ([]domain.Question, error)
}

// cachedQuestionRepo serves question lists from the cache and single
// questions straight from the store.
type cachedQuestionRepo struct {
	lists questionLists
	byID  interface {
		QuestionByID(ctx context.Context, id int) (domain.Question, error)
	}
}

func (r *cachedQuestionRepo) QuestionsByTechnology(ctx context.Context, technology string) ([]domain.Question, error) {
	return r.lists.QuestionsByTechnology(ctx, technology)
}

func (r *cachedQuestionRepo) QuestionByID(ctx context.Context, id int) (domain.Question, error) {
	return r.byID.QuestionByID(ctx, id)
}
