package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"docverify-backend/internal/clients"
	"docverify-backend/internal/imaging"
	"docverify-backend/internal/queue"
	"docverify-backend/internal/shared/config"
	"docverify-backend/internal/shared/metrics"
	"docverify-backend/internal/shared/server"
	"docverify-backend/internal/shared/storage/db"
	"docverify-backend/internal/shared/storage/object"
	localstore "docverify-backend/internal/shared/storage/object/local"
	s3store "docverify-backend/internal/shared/storage/object/s3"
	"docverify-backend/internal/transactions"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config              config.Config
	Router              *gin.Engine
	DB                  *sql.DB
	Store               object.ObjectStore
	Queue               queue.Client
	ClientsRepo         clients.Repo
	TransactionsRepo    transactions.Repo
	ClientsService      *clients.Service
	TransactionsService *transactions.Service
	ClientsHandler      *clients.Handler
	TransactionsHandler *transactions.Handler
}

// Build wires repositories, services, handlers and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(app.Config, server.RouterDeps{
		DB:           app.DB,
		Clients:      app.ClientsHandler,
		Transactions: app.TransactionsHandler,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	rt := db.DetectRuntime()
	opts := db.DefaultOptions(rt).WithEnv()
	if rt == db.RuntimeLambda {
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL, opts)
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := metrics.RegisterDB(sqlDB, "docverify"); err != nil {
		log.Printf("bootstrap: db pool metrics not registered: %v", err)
	}

	if cfg.RunMigrationsBoot {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.AuditQueueURL) == "" {
		return queue.LogClient{}, nil
	}
	return queue.NewSQSClient(ctx, cfg.AuditQueueURL, cfg.AWSRegion)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.ClientsRepo = &clients.PGRepo{DB: app.DB}
		app.TransactionsRepo = &transactions.PGRepo{DB: app.DB}
	} else {
		app.ClientsRepo = clients.NewMemoryRepo()
		app.TransactionsRepo = transactions.NewMemoryRepo()
	}

	app.ClientsService = clients.NewService(app.ClientsRepo)

	txSvc := transactions.NewService(app.TransactionsRepo, clientLookup{svc: app.ClientsService}, app.Store)
	txSvc.Rules = imageRules(app.Config.Images)
	if app.Queue != nil {
		txSvc.Events = app.Queue
	}
	app.TransactionsService = txSvc
	app.ClientsService.BeforeDelete = txSvc.PurgeClient

	app.ClientsHandler = clients.NewHandler(app.ClientsService, app.Config.DefaultPageSize)
	app.TransactionsHandler = transactions.NewHandler(txSvc, app.Config.DefaultPageSize, app.Config.MaxUploadBytes)

	if app.ClientsHandler == nil || app.TransactionsHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

func imageRules(limits config.ImageLimits) imaging.Rules {
	rules := imaging.DefaultRules()
	if limits.MaxSizeMB > 0 {
		rules.MaxSizeMB = limits.MaxSizeMB
	}
	if limits.MinWidth > 0 && limits.MinHeight > 0 {
		rules.MinResolution = imaging.Resolution{Width: limits.MinWidth, Height: limits.MinHeight}
	}
	if limits.MaxWidth > 0 && limits.MaxHeight > 0 {
		rules.MaxResolution = imaging.Resolution{Width: limits.MaxWidth, Height: limits.MaxHeight}
	}
	return rules
}

// clientLookup resolves transaction owners through the clients service.
type clientLookup struct {
	svc *clients.Service
}

func (l clientLookup) ClientExists(ctx context.Context, id string) error {
	if _, err := l.svc.Get(ctx, id); err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return transactions.ErrClientNotFound
		}
		return err
	}
	return nil
}
