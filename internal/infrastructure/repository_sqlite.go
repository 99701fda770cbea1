package infrastructure

import (
	"fmt"

	"github.com/yourusername/mediafetch/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteAcquisitionRepository implements AcquisitionRepository using SQLite
type SQLiteAcquisitionRepository struct {
	db *gorm.DB
}

// NewSQLiteAcquisitionRepository creates a new SQLite repository
func NewSQLiteAcquisitionRepository(dbPath string) (*SQLiteAcquisitionRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Acquisition{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteAcquisitionRepository{db: db}, nil
}

// Create creates a new acquisition record
func (r *SQLiteAcquisitionRepository) Create(acq *domain.Acquisition) error {
	return r.db.Create(acq).Error
}

// Update updates an existing acquisition record
func (r *SQLiteAcquisitionRepository) Update(acq *domain.Acquisition) error {
	return r.db.Save(acq).Error
}

// FindByID finds an acquisition by ID
func (r *SQLiteAcquisitionRepository) FindByID(id string) (*domain.Acquisition, error) {
	var acq domain.Acquisition
	err := r.db.First(&acq, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &acq, nil
}

// FindRecent returns the most recent acquisitions, newest first
func (r *SQLiteAcquisitionRepository) FindRecent(limit int) ([]*domain.Acquisition, error) {
	var acqs []*domain.Acquisition
	err := r.db.Order("created_at DESC").Limit(limit).Find(&acqs).Error
	return acqs, err
}

// GetStats returns acquisition statistics
func (r *SQLiteAcquisitionRepository) GetStats() (*domain.AcquisitionStats, error) {
	stats := &domain.AcquisitionStats{}

	if err := r.db.Model(&domain.Acquisition{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.AcquisitionStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.Acquisition{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.StatusCompleted:
			stats.Completed = sc.Count
		case domain.StatusFailed:
			stats.Failed = sc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteAcquisitionRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
