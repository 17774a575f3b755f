package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Migration represents a single database migration
type Migration struct {
	ID   int
	Name string
	Up   func(*gorm.DB) error
}

// allMigrations run in order after the models are auto-migrated
var allMigrations = []Migration{
	{
		ID:   1,
		Name: "0001_create_template_revenue_view",
		Up:   migration0001CreateTemplateRevenueView,
	},
}

// AllModels returns every model managed by AutoMigrate
func AllModels() []any {
	return []any{
		&MigrationModel{},
		&TemplateModel{},
		&PurchaseModel{},
		&DeploymentModel{},
	}
}

// AutoMigrateAll creates or updates all tables, then applies pending migrations
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	return RunMigrations(db, len(allMigrations))
}

// RunMigrations runs all migrations up to and including targetID.
// A targetID of 0 or less runs all of them.
func RunMigrations(db *gorm.DB, targetID int) error {
	if targetID <= 0 {
		targetID = len(allMigrations)
	}

	for _, migration := range allMigrations {
		if migration.ID > targetID {
			break
		}

		applied, err := migrationApplied(db, migration.Name)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", migration.Name, err)
		}
		if applied {
			continue
		}

		if err := migration.Up(db); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Name, err)
		}

		if err := recordMigration(db, migration.Name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
		}
	}

	return nil
}

func migrationApplied(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Model(&MigrationModel{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func recordMigration(db *gorm.DB, name string) error {
	return db.Create(&MigrationModel{Name: name, AppliedAt: time.Now()}).Error
}

// migration0001CreateTemplateRevenueView aggregates purchases per template
func migration0001CreateTemplateRevenueView(db *gorm.DB) error {
	return db.Exec(`
		CREATE VIEW IF NOT EXISTS template_revenue AS
		SELECT t.id AS template_id,
		       t.name AS name,
		       COUNT(p.id) AS purchases,
		       COALESCE(SUM(p.price), 0) AS revenue
		FROM templates t
		LEFT JOIN purchases p ON p.template_id = t.id
		GROUP BY t.id, t.name
	`).Error
}
