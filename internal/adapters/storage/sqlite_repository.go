package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/ports"
)

// DefaultListLimit bounds history queries when the caller passes no limit
const DefaultListLimit = 20

// SQLiteRepository implements ports.OutcomeRepository using GORM
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.OutcomeRepository = (*SQLiteRepository)(nil)

// gormLogger wraps the toolprobe logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		logging.Logger.Error("gorm query error", "error", err, "duration", elapsed, "sql", sql, "rows", rows)
	case elapsed > 200*time.Millisecond:
		logging.Logger.Warn("slow query", "duration", elapsed, "sql", sql, "rows", rows)
	default:
		logging.Logger.Debug("gorm query", "duration", elapsed, "sql", sql, "rows", rows)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("TOOLPROBE_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository opens (and creates if needed) the history database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:      newGormLogger(),
		NowFunc:     func() time.Time { return time.Now().UTC() },
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Parallel suites write from several goroutines
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&SuiteRunModel{}, &OutcomeModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(0)

	logging.Logger.Debug("History database opened", "path", dbPath)
	return &SQLiteRepository{db: db}, nil
}

// NewSQLiteRepositoryForPath opens history.db inside a TOOLPROBE_HOME directory
func NewSQLiteRepositoryForPath(homePath string) (*SQLiteRepository, error) {
	return NewSQLiteRepository(filepath.Join(homePath, "history.db"))
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// BeginRun implements OutcomeWriter.BeginRun
func (r *SQLiteRepository) BeginRun(ctx context.Context, run ports.SuiteRun) error {
	model := suiteRunToModel(run)
	return withRetry(func() error {
		return r.db.WithContext(ctx).Create(&model).Error
	}, 3)
}

// FinishRun implements OutcomeWriter.FinishRun
func (r *SQLiteRepository) FinishRun(ctx context.Context, run ports.SuiteRun) error {
	model := suiteRunToModel(run)
	return withRetry(func() error {
		result := r.db.WithContext(ctx).Model(&SuiteRunModel{}).
			Where("id = ?", run.ID).
			Updates(map[string]any{
				"failed":      model.Failed,
				"finished_at": model.FinishedAt,
				"passed":      model.Passed,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("suite run %s not found", run.ID)
		}
		return nil
	}, 3)
}

// RecordOutcome implements OutcomeWriter.RecordOutcome
func (r *SQLiteRepository) RecordOutcome(ctx context.Context, runID string, outcome domain.Outcome) error {
	model := outcomeToModel(runID, outcome)
	return withRetry(func() error {
		model.ID = 0
		return r.db.WithContext(ctx).Create(&model).Error
	}, 3)
}

// ListRuns implements OutcomeReader.ListRuns, newest first
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]ports.SuiteRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var models []SuiteRunModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&models).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list suite runs: %w", err)
	}

	runs := make([]ports.SuiteRun, 0, len(models))
	for _, m := range models {
		runs = append(runs, suiteRunModelToPort(m))
	}
	return runs, nil
}

// ListOutcomes implements OutcomeReader.ListOutcomes in recording order
func (r *SQLiteRepository) ListOutcomes(ctx context.Context, runID string) ([]ports.OutcomeRecord, error) {
	var models []OutcomeModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("run_id = ?", runID).Order("id ASC").Find(&models).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes for run %s: %w", runID, err)
	}
	return toRecords(models), nil
}

// UnitHistory implements OutcomeReader.UnitHistory, newest first
func (r *SQLiteRepository) UnitHistory(ctx context.Context, unitName string, limit int) ([]ports.OutcomeRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var models []OutcomeModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).
			Where("unit_name = ?", unitName).
			Order("started_at DESC").Order("id DESC").
			Limit(limit).
			Find(&models).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of %s: %w", unitName, err)
	}
	return toRecords(models), nil
}

func toRecords(models []OutcomeModel) []ports.OutcomeRecord {
	records := make([]ports.OutcomeRecord, 0, len(models))
	for _, m := range models {
		records = append(records, outcomeModelToRecord(m))
	}
	return records
}

// withRetry retries operations on SQLITE_BUSY with linear backoff
func withRetry(fn func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, err)
}
