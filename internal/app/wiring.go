package app

import (
	"context"
	"fmt"
	"time"

	"legal-docs-service/internal/analyzer"
	"legal-docs-service/internal/audit"
	"legal-docs-service/internal/auth"
	"legal-docs-service/internal/config"
	"legal-docs-service/internal/http"
	"legal-docs-service/internal/migrate"
	"legal-docs-service/internal/repository"
	"legal-docs-service/internal/repository/memory"
	"legal-docs-service/internal/repository/postgres"
	"legal-docs-service/internal/service"
	"legal-docs-service/internal/storage"
	"legal-docs-service/internal/storage/local"
	"legal-docs-service/internal/storage/s3"
	"legal-docs-service/internal/upload"

	"go.uber.org/zap"
)

const (
	migrateTimeout = 30 * time.Second
	analyzerDelay  = 2 * time.Second
)

type repositories struct {
	documents  repository.DocumentRepository
	analyses   repository.AnalysisRepository
	signatures repository.SignatureRepository
	users      repository.UserRepository
	auditor    audit.Recorder
	close      func()
}

// InitializeService wires up all dependencies and returns a configured Service.
func InitializeService() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	repos, err := newRepositories(cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := newObjectStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create object store: %w", err)
	}

	validator := upload.NewValidator(cfg.Upload.MaxSizeBytes, cfg.Upload.AllowedExtensions, cfg.Upload.AllowedMimeTypes)

	documents := service.NewDocumentService(repos.documents, store, validator, log)
	analyses := service.NewAnalysisService(repos.documents, repos.analyses, store, analyzer.NewStub(analyzerDelay), log)
	signatures := service.NewSignatureService(repos.documents, repos.signatures, log)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	authMiddleware := auth.NewMiddleware(jwtService)

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Logger:         log,
		Documents:      documents,
		Analyses:       analyses,
		Signatures:     signatures,
		UserRepo:       repos.users,
		JWTService:     jwtService,
		AuthMiddleware: authMiddleware,
		Auditor:        repos.auditor,
	})

	return &Service{
		config:   cfg,
		log:      log,
		analyses: analyses,
		server:   server,
		closeDB:  repos.close,
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newRepositories(cfg *config.Config, log *zap.Logger) (*repositories, error) {
	if cfg.Database.Backend == config.DatabaseBackendMemory {
		log.Warn("using in-memory database, records are lost on restart")
		store := memory.NewStore()
		return &repositories{
			documents:  store.Documents(),
			analyses:   store.Analyses(),
			signatures: store.Signatures(),
			users:      store.Users(),
			auditor:    audit.NewLogRecorder(log),
		}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := migrate.Up(ctx, cfg.Database.DSN()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established")

	return &repositories{
		documents:  postgres.NewDocumentRepository(db),
		analyses:   postgres.NewAnalysisRepository(db),
		signatures: postgres.NewSignatureRepository(db),
		users:      postgres.NewUserRepository(db),
		auditor:    audit.NewPostgresRecorder(db.Pool, log),
		close:      db.Close,
	}, nil
}

func newObjectStore(cfg *config.Config) (storage.ObjectStore, error) {
	if cfg.Storage.Backend == config.StorageBackendS3 {
		return s3.New(&cfg.Storage.AWS, cfg.Storage.S3Bucket)
	}
	return local.New(cfg.Storage.UploadDir)
}
