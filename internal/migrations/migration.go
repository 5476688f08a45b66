package migrations

import (
	"fmt"

	"fabtech_dashboard/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunMigrations creates or updates the dashboard tables. Both parent tables
// share the Customer shape; existing rows are never dropped.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations...")

	for _, table := range []string{models.TableMarketing, models.TableFinalisedMeasurements} {
		if err := db.Table(table).AutoMigrate(&models.Customer{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", table, err)
		}
		log.Info("Table migrated", zap.String("table", table))
	}

	if err := db.AutoMigrate(&models.Measurement{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", models.TableProductMeasurements, err)
	}
	log.Info("Table migrated", zap.String("table", models.TableProductMeasurements))

	log.Info("Database migrations completed successfully")
	return nil
}
