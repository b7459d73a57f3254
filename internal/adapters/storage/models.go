package storage

import "time"

// SuiteRunModel is the GORM model for suite_runs table
type SuiteRunModel struct {
	CreatedAt  time.Time
	Failed     int        `gorm:"not null;default:0"`
	FinishedAt *time.Time `gorm:"default:null"`
	ID         string     `gorm:"primaryKey"`
	Passed     int        `gorm:"not null;default:0"`
	StartedAt  time.Time  `gorm:"not null;index:idx_started_at"`
	SuitePath  string     `gorm:"default:''"`
	Tool       string     `gorm:"not null;default:''"`
	UpdatedAt  time.Time
}

// TableName specifies the table name for GORM
func (SuiteRunModel) TableName() string { return "suite_runs" }

// OutcomeModel is the GORM model for unit outcomes
type OutcomeModel struct {
	CaseID         string `gorm:"not null"`
	Cause          string `gorm:"default:''"`
	CleanupCause   string `gorm:"default:''"`
	CleanupOutput  string `gorm:"default:''"`
	CreatedAt      time.Time
	Dir            string    `gorm:"not null;default:''"`
	DurationMillis int64     `gorm:"not null;default:0"`
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	Kind           string    `gorm:"not null;default:'';check:kind IN ('','primary_command','check','cleanup','timeout')"`
	Output         string    `gorm:"default:''"`
	Passed         bool      `gorm:"not null;default:false"`
	RunID          string    `gorm:"not null;index:idx_run_id"`
	StartedAt      time.Time `gorm:"not null"`
	UnitName       string    `gorm:"not null;index:idx_unit_name"`
}

// TableName specifies the table name for GORM
func (OutcomeModel) TableName() string { return "unit_outcomes" }
