package repositories

import "context"

// Repository aggregates all per-entity repository interfaces.
type Repository interface {
	// Template domain
	Template() TemplateRepository

	// Assignment domain
	Assignment() AssignmentRepository
	Result() ResultRepository

	// Patient domain
	Patient() PatientRepository
	Record() RecordRepository
	Mood() MoodRepository

	// User domain (read-only for this service)
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
