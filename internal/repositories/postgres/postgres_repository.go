package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/CareScope-Clinic/assessment-service/internal/cache"
	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories/casdoor"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	template   repositories.TemplateRepository
	assignment repositories.AssignmentRepository
	result     repositories.ResultRepository
	patient    repositories.PatientRepository
	record     repositories.RecordRepository
	mood       repositories.MoodRepository
	user       repositories.UserRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cache.NewCacheManager(config.RedisClient),
	}

	repo.template = NewTemplatePostgreSQL(config.DB, config.RedisClient)
	repo.assignment = NewAssignmentPostgreSQL(config.DB, config.RedisClient)
	repo.result = NewResultPostgreSQL(config.DB)
	repo.patient = NewPatientPostgreSQL(config.DB)
	repo.record = NewRecordPostgreSQL(config.DB)
	repo.mood = NewMoodPostgreSQL(config.DB)

	// User repository uses Casdoor
	repo.user = casdoor.NewUserCasdoor(config.CasdoorConfig, config.RedisClient)

	return repo
}

func (r *PostgreSQLRepository) Template() repositories.TemplateRepository {
	return r.template
}

func (r *PostgreSQLRepository) Assignment() repositories.AssignmentRepository {
	return r.assignment
}

func (r *PostgreSQLRepository) Result() repositories.ResultRepository {
	return r.result
}

func (r *PostgreSQLRepository) Patient() repositories.PatientRepository {
	return r.patient
}

func (r *PostgreSQLRepository) Record() repositories.RecordRepository {
	return r.record
}

func (r *PostgreSQLRepository) Mood() repositories.MoodRepository {
	return r.mood
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		txRepo.template = NewTemplatePostgreSQL(tx, r.redisClient)
		txRepo.assignment = NewAssignmentPostgreSQL(tx, r.redisClient)
		txRepo.result = NewResultPostgreSQL(tx)
		txRepo.patient = NewPatientPostgreSQL(tx)
		txRepo.record = NewRecordPostgreSQL(tx)
		txRepo.mood = NewMoodPostgreSQL(tx)

		// User repository doesn't need transaction (it's external)
		txRepo.user = r.user

		return fn(txRepo)
	})
}

// warmCache preloads the most recent assembled templates so the first
// detail reads after a restart do not all miss at once. Best effort.
func (r *PostgreSQLRepository) warmCache(ctx context.Context) {
	var templates []*models.Template
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_questions.id ASC")
		}).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_options.id ASC")
		}).
		Order("created_at DESC").
		Limit(100).
		Find(&templates).Error
	if err != nil {
		slog.WarnContext(ctx, "Cache warmup skipped", "error", err)
		return
	}

	entries := make(map[string]interface{}, len(templates))
	for _, template := range templates {
		template.QuestionCount = len(template.Questions)
		template.OptionCount = len(template.Options)
		entries[fmt.Sprintf("details:%d", template.ID)] = template
	}

	if err := r.cacheManager.WarmupCache(ctx, entries); err != nil {
		slog.WarnContext(ctx, "Cache warmup failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Cache warmed", "templates", len(entries))
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	if rm.config.RedisClient != nil {
		if pg, ok := rm.repo.(*PostgreSQLRepository); ok {
			pg.warmCache(ctx)
		}
	}

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
