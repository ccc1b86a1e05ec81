package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/university-service/internal/events"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"github.com/SAP-F-2025/university-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Records per page of every paginated list
	PageSize int

	// Service-specific configurations
	Student    ServiceConfig
	Course     ServiceConfig
	Enrollment ServiceConfig
	Roster     ServiceConfig
}

type ServiceConfig struct {
	Enabled bool
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	publisher events.EventPublisher
	config    ServiceManagerConfig

	// Service instances
	studentService    StudentService
	courseService     CourseService
	enrollmentService EnrollmentService
	rosterService     RosterService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.BusinessValidator, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		config:    config,
	}
}

// NewDefaultServiceManager enables every service with the given page size
func NewDefaultServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.BusinessValidator, publisher events.EventPublisher, pageSize int) ServiceManager {
	config := ServiceManagerConfig{
		PageSize:   pageSize,
		Student:    ServiceConfig{Enabled: true},
		Course:     ServiceConfig{Enabled: true},
		Enrollment: ServiceConfig{Enabled: true},
		Roster:     ServiceConfig{Enabled: true},
	}

	return NewServiceManager(repo, logger, validator, publisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.config.PageSize <= 0 {
		return fmt.Errorf("invalid page size %d", sm.config.PageSize)
	}

	if sm.config.Student.Enabled {
		sm.studentService = NewStudentService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.config.PageSize)
		sm.logger.Info("Student service initialized")
	}

	if sm.config.Course.Enabled {
		sm.courseService = NewCourseService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.config.PageSize)
		sm.logger.Info("Course service initialized")
	}

	if sm.config.Enrollment.Enabled {
		sm.enrollmentService = NewEnrollmentService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.config.PageSize)
		sm.logger.Info("Enrollment service initialized")
	}

	if sm.config.Roster.Enabled {
		sm.rosterService = NewRosterService(sm.repo, sm.logger, sm.validator, sm.publisher)
		sm.logger.Info("Roster service initialized")
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Student.Enabled && sm.studentService != nil {
		return sm.studentService
	}

	panic("student service not enabled or not initialized")
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Course.Enabled && sm.courseService != nil {
		return sm.courseService
	}

	panic("course service not enabled or not initialized")
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Enrollment.Enabled && sm.enrollmentService != nil {
		return sm.enrollmentService
	}

	panic("enrollment service not enabled or not initialized")
}

func (sm *serviceManager) Roster() RosterService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Roster.Enabled && sm.rosterService != nil {
		return sm.rosterService
	}

	panic("roster service not enabled or not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
