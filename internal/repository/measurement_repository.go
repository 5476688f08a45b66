package repository

import (
	"context"

	"fabtech_dashboard/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MeasurementRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]models.Measurement, error)
	GetByID(ctx context.Context, customerID, id string) (*models.Measurement, error)
	Create(ctx context.Context, measurement *models.Measurement) error
	Update(ctx context.Context, measurement *models.Measurement) error
	Delete(ctx context.Context, customerID, id string) error
}

type measurementRepository struct {
	db        *gorm.DB
	publisher ChangePublisher
	logger    *zap.Logger
}

func NewMeasurementRepository(db *gorm.DB, publisher ChangePublisher, logger *zap.Logger) MeasurementRepository {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &measurementRepository{db: db, publisher: publisher, logger: logger}
}

func (r *measurementRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.Measurement, error) {
	var measurements []models.Measurement
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&measurements).Error
	return measurements, err
}

func (r *measurementRepository) GetByID(ctx context.Context, customerID, id string) (*models.Measurement, error) {
	var measurement models.Measurement
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&measurement).Error
	if err != nil {
		return nil, err
	}
	return &measurement, nil
}

func (r *measurementRepository) Create(ctx context.Context, measurement *models.Measurement) error {
	if err := r.db.WithContext(ctx).Create(measurement).Error; err != nil {
		return err
	}

	row, err := models.ToRow(measurement)
	if err != nil {
		r.logger.Warn("Failed to encode change", zap.Error(err))
		return nil
	}
	r.publish(ctx, models.ChangeEvent{
		Table: models.TableProductMeasurements,
		Type:  models.ChangeInsert,
		New:   row,
	})
	return nil
}

// Update overwrites every editable column, so cleared fields are persisted.
func (r *measurementRepository) Update(ctx context.Context, measurement *models.Measurement) error {
	result := r.db.WithContext(ctx).
		Model(&models.Measurement{}).
		Where("id = ? AND customer_id = ?", measurement.ID, measurement.CustomerID).
		Select("*").
		Omit("id", "customer_id", "created_at").
		Updates(measurement)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	stored, err := r.GetByID(ctx, measurement.CustomerID, measurement.ID)
	if err != nil {
		return err
	}
	*measurement = *stored

	row, err := models.ToRow(stored)
	if err != nil {
		r.logger.Warn("Failed to encode change", zap.Error(err))
		return nil
	}
	r.publish(ctx, models.ChangeEvent{
		Table: models.TableProductMeasurements,
		Type:  models.ChangeUpdate,
		Old:   models.Row{"id": stored.ID},
		New:   row,
	})
	return nil
}

func (r *measurementRepository) Delete(ctx context.Context, customerID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		Delete(&models.Measurement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.publish(ctx, models.ChangeEvent{
		Table: models.TableProductMeasurements,
		Type:  models.ChangeDelete,
		Old:   models.Row{"id": id, "customer_id": customerID},
	})
	return nil
}

func (r *measurementRepository) publish(ctx context.Context, event models.ChangeEvent) {
	if err := r.publisher.PublishChange(ctx, event); err != nil {
		r.logger.Warn("Failed to publish change",
			zap.String("table", event.Table),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
	}
}
