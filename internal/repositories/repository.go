package repositories

import "context"

// Repository is the entry point of the data access gateway
type Repository interface {
	// Begin opens a request-scoped unit of work. Callers must Commit or
	// Discard it on every path.
	Begin(ctx context.Context) UnitOfWork

	// Aggregates read outside a unit of work
	Stats() StatsRepository

	// Database health check
	Ping(ctx context.Context) error

	// Redis health check, ErrCacheNotAvailable when no cache is configured
	CacheHealthCheck(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
