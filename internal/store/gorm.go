package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects the database backend. sqlite is the default for local
// runs; postgres and mysql are for hosted deployments.
type Options struct {
	Driver string
	DSN    string
}

// DB is the gorm-backed Store implementation.
type DB struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the schema.
func Open(opts Options) (*DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(opts.DSN)
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	case "mysql":
		dialector = mysql.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", opts.Driver, err)
	}
	if err := db.AutoMigrate(&Report{}, &BenchmarkRun{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (s *DB) CreateReport(ctx context.Context, r *Report) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	return nil
}

func (s *DB) GetReport(ctx context.Context, id string) (*Report, error) {
	var r Report
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("loading report %s: %w", id, err)
	}
	return &r, nil
}

func (s *DB) ClaimReport(ctx context.Context, id string, startedAt time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&Report{}).
		Where("id = ? AND status = ?", id, ReportStatusPaid).
		Updates(map[string]any{"status": ReportStatusRunning, "started_at": startedAt})
	if res.Error != nil {
		return false, fmt.Errorf("claiming report %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *DB) SetReportResults(ctx context.Context, id string, recommendedModel *string, totalAPICost float64, modelCount int) error {
	err := s.db.WithContext(ctx).
		Model(&Report{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"recommended_model": recommendedModel,
			"total_api_cost":    totalAPICost,
			"model_count":       modelCount,
		}).Error
	if err != nil {
		return fmt.Errorf("recording results for report %s: %w", id, err)
	}
	return nil
}

func (s *DB) CompleteReport(ctx context.Context, id string, completedAt time.Time) error {
	return s.setTerminal(ctx, id, ReportStatusComplete, completedAt)
}

func (s *DB) FailReport(ctx context.Context, id string, completedAt time.Time) error {
	return s.setTerminal(ctx, id, ReportStatusFailed, completedAt)
}

func (s *DB) setTerminal(ctx context.Context, id, status string, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&Report{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "completed_at": at}).Error
	if err != nil {
		return fmt.Errorf("marking report %s %s: %w", id, status, err)
	}
	return nil
}

func (s *DB) InsertRun(ctx context.Context, run *BenchmarkRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("inserting benchmark run: %w", err)
	}
	return nil
}

func (s *DB) UpdateRun(ctx context.Context, run *BenchmarkRun) error {
	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("updating benchmark run %s: %w", run.ID, err)
	}
	return nil
}

func (s *DB) ListRuns(ctx context.Context, reportID string) ([]BenchmarkRun, error) {
	var runs []BenchmarkRun
	err := s.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at, id").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("listing runs for report %s: %w", reportID, err)
	}
	return runs, nil
}
