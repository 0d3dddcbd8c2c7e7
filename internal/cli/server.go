package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/config"
	"live-quiz-service/internal/infra/memory"
	pgstore "live-quiz-service/internal/infra/postgres"
	redisstore "live-quiz-service/internal/infra/redis"
	transport "live-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port, adminPass *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the live quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, *adminPass)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag, passFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	secret := passFlag
	if secret == "" {
		secret = cfg.Admin.Pass
	}
	if secret == "" {
		return fmt.Errorf("admin pass not configured (set ADMIN_PASS or admin.pass)")
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var questions app.QuestionStore
	var results app.ResultStore

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		catalogTTL := config.Duration(cfg.Catalog.TTL, 10*time.Minute)
		questions = memory.NewCatalogCache(pgstore.NewQuestionStore(pool), catalogTTL)
		results = pgstore.NewResultStore(pool)
	} else {
		questions = memory.NewQuestionStore()
		results = memory.NewResultStore()
	}

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		results = redisstore.NewResultStore(redisClient)
	}

	cooldown := config.Duration(cfg.Session.Cooldown, app.DefaultCooldown)

	hub := transport.NewHub()
	service := app.NewSessionService(questions, results, hub, cooldown)
	wsHandler := transport.NewWSHandler(service, hub)
	adminHandler := transport.NewAdminHandler(service, questions, hub, secret)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	adminHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting live quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
