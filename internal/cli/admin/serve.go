package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/javariai/corpus/internal/api/handlers"
	"github.com/javariai/corpus/internal/config"
	"github.com/javariai/corpus/internal/database"
	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/fetch"
	"github.com/javariai/corpus/internal/jobs"
	"github.com/javariai/corpus/internal/normalize"
	"github.com/javariai/corpus/internal/openai"
	"github.com/javariai/corpus/internal/repository"
	"github.com/javariai/corpus/internal/server"
	"github.com/javariai/corpus/internal/service"
	"github.com/javariai/corpus/internal/storage"
	"github.com/javariai/corpus/internal/telemetry"
	"github.com/javariai/corpus/internal/verify"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the corpus API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-refresh", false, "Disable the scheduled feed refresh worker")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: 10,
		MinConns: 2,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	knowledgeRepo := repository.NewKnowledgeRepository(pool)

	fetcher := fetch.NewFetcher(cfg.FetchTimeout, fetch.WithUserAgent(cfg.FetchUserAgent))
	pageNormalizer := normalize.NewPageNormalizer(fetcher, cfg.MinContentLength)

	var embedder service.Embedder
	if cfg.HasOpenAI() {
		embedder = openai.NewClient(cfg.OpenAIAPIKey)
	} else {
		log.Println("CORPUS_OPENAI_API_KEY not set: records will be stored without embeddings and search is disabled")
		embedder = &disabledEmbedder{}
	}

	var archiver service.SnapshotArchiver
	if cfg.HasS3() {
		snapshots, err := storage.NewSnapshotStore(ctx, storage.SnapshotStoreConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create snapshot store: %w", err)
		}
		if err := snapshots.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure snapshot bucket: %w", err)
		}
		log.Printf("snapshot bucket '%s' ready", cfg.S3Bucket)
		archiver = snapshots
	}

	ingestSvc := service.NewIngestService(knowledgeRepo, embedder, fetcher, pageNormalizer, archiver)
	searchSvc := service.NewSearchService(embedder, knowledgeRepo)
	statsSvc := service.NewStatsService(knowledgeRepo)

	registry := jobs.NewRegistry()
	orchestrator := jobs.NewOrchestrator(registry, ingestSvc, fetcher)

	var refreshWorker *jobs.RefreshWorker
	noRefresh, _ := cmd.Flags().GetBool("no-refresh")
	if !noRefresh {
		refresher := jobs.NewFeedRefresher(knowledgeRepo, orchestrator)
		refreshWorker = jobs.NewRefreshWorker(refresher, cfg.RefreshInterval)
		go refreshWorker.Start(ctx)
		log.Printf("feed refresh worker started (interval %s)", cfg.RefreshInterval)
	}

	routerCfg := server.RouterConfig{
		ImportJobHandler: handlers.NewImportJobHandler(orchestrator),
		RecordsHandler:   handlers.NewRecordsHandler(knowledgeRepo),
		StatsHandler:     handlers.NewStatsHandler(statsSvc),
		VerifyHandler:    handlers.NewVerifyHandler(verify.NewHarness(searchSvc)),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if refreshWorker != nil {
		refreshWorker.Stop()
	}

	// Let in-flight imports finish before closing the pool.
	orchestrator.Wait()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// disabledEmbedder stands in when no OpenAI key is configured. Ingest
// stores records without vectors; search reports the missing provider.
type disabledEmbedder struct{}

func (e *disabledEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, domain.NewDomainError(domain.ErrCodeEmbedding, "embedding provider not configured: CORPUS_OPENAI_API_KEY required")
}

func (e *disabledEmbedder) ModelName() string {
	return "disabled"
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
