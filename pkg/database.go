package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/CareScope-Clinic/assessment-service/internal/config"
	"github.com/CareScope-Clinic/assessment-service/internal/models"
)

// InitDatabase opens the Postgres connection, runs migrations and creates
// the supporting indexes
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.Environment == "development" {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Template{},
		&models.TemplateQuestion{},
		&models.TemplateOption{},
		&models.Assignment{},
		&models.Result{},
		&models.Patient{},
		&models.Alert{},
		&models.PatientRecord{},
		&models.MoodLog{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// At most one active assignment per template/patient pair. The service
	// layer checks before inserting; this index closes the race window.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_active_unique
		 ON assessment_assignments (template_id, patient_id)
		 WHERE status = 'assigned'`,
	).Error; err != nil {
		return fmt.Errorf("failed to create active assignment index: %w", err)
	}

	return nil
}
