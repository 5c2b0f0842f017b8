package infrastructure

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/chatlab/chatlab-server/internal/config"
	"github.com/chatlab/chatlab-server/internal/infrastructure/auth"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/repository"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/transaction"
	"github.com/chatlab/chatlab-server/internal/infrastructure/inference"
	"github.com/chatlab/chatlab-server/internal/infrastructure/logger"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideTokenValidator provides a JWKS-backed JWT validator
func ProvideTokenValidator(cfg *config.Config, log zerolog.Logger) (*auth.JWKSValidator, error) {
	ctx := context.Background()
	jwksURL, err := cfg.ResolveJWKSURL(ctx)
	if err != nil {
		return nil, err
	}
	return auth.NewJWKSValidator(
		ctx,
		jwksURL,
		cfg.Issuer,
		cfg.Audience,
		cfg.RefreshJWKSInterval,
		cfg.AuthClockSkew,
		log,
	)
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// ProvideTransactionDatabase provides a transaction database wrapper
func ProvideTransactionDatabase(db *gorm.DB) *transaction.Database {
	return transaction.NewDatabase(db)
}

// Infrastructure holds all infrastructure dependencies
type Infrastructure struct {
	DB             *gorm.DB
	TokenValidator *auth.JWKSValidator
	Logger         zerolog.Logger
}

// NewInfrastructure creates a new infrastructure instance
func NewInfrastructure(
	db *gorm.DB,
	tokenValidator *auth.JWKSValidator,
	logger zerolog.Logger,
) *Infrastructure {
	return &Infrastructure{
		DB:             db,
		TokenValidator: tokenValidator,
		Logger:         logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Database
	ProvideDatabase,
	ProvideTransactionDatabase,

	// Repositories
	repository.RepositoryProvider,

	// Provider registry
	inference.NewRegistryFromConfig,

	// Logger
	logger.GetLogger,

	// Auth
	ProvideTokenValidator,

	// Infrastructure struct
	NewInfrastructure,
)
