package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/university-service/internal/cache"
	"github.com/SAP-F-2025/university-service/internal/models"
	"github.com/SAP-F-2025/university-service/internal/repositories"
	"gorm.io/gorm"
)

type StatsPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewStatsPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.StatsRepository {
	return &StatsPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// EnrollmentDateGroups counts students per enrollment date, oldest first
func (s *StatsPostgreSQL) EnrollmentDateGroups(ctx context.Context) ([]repositories.EnrollmentDateGroup, error) {
	var groups []repositories.EnrollmentDateGroup

	err := s.cacheManager.Stats.CacheOrExecute(ctx, cache.EnrollmentDatesKey, &groups, func() (interface{}, error) {
		var rows []repositories.EnrollmentDateGroup
		err := s.db.WithContext(ctx).
			Model(&models.Student{}).
			Select("enrollment_date, COUNT(*) AS student_count").
			Group("enrollment_date").
			Order("enrollment_date ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to group students by enrollment date: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	if groups == nil {
		groups = []repositories.EnrollmentDateGroup{}
	}
	return groups, nil
}
