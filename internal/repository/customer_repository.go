package repository

import (
	"context"
	"fmt"
	"time"

	"fabtech_dashboard/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Basic-details columns shared by both parent tables.
var basicDetailColumns = []string{
	"party_name", "mobile_number", "address1", "address2", "status_of_site",
	"legal_billing_name", "party_gst_number", "category", "measurement_taken_by", "gmap",
}

type CustomerRepository interface {
	List(ctx context.Context, table string) ([]models.Customer, error)
	GetByID(ctx context.Context, table, id string) (*models.Customer, error)
	Create(ctx context.Context, table string, customer *models.Customer) error
	UpdateBasicDetails(ctx context.Context, table string, customer *models.Customer) error
	UpdateColumns(ctx context.Context, table, id string, values map[string]any) error
	Delete(ctx context.Context, table, id string) error
}

type customerRepository struct {
	db        *gorm.DB
	publisher ChangePublisher
	logger    *zap.Logger
}

func NewCustomerRepository(db *gorm.DB, publisher ChangePublisher, logger *zap.Logger) CustomerRepository {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &customerRepository{db: db, publisher: publisher, logger: logger}
}

func (r *customerRepository) List(ctx context.Context, table string) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Table(table).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) GetByID(ctx context.Context, table, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Table(table).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, table string, customer *models.Customer) error {
	return r.db.WithContext(ctx).Table(table).Create(customer).Error
}

func (r *customerRepository) UpdateBasicDetails(ctx context.Context, table string, customer *models.Customer) error {
	result := r.db.WithContext(ctx).Table(table).
		Where("id = ?", customer.ID).
		Select(basicDetailColumns).
		Updates(customer)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *customerRepository) UpdateColumns(ctx context.Context, table, id string, values map[string]any) error {
	values["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the parent row and its measurements in one transaction.
func (r *customerRepository) Delete(ctx context.Context, table, id string) error {
	var measurementIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Measurement{}).
			Where("customer_id = ?", id).
			Pluck("id", &measurementIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Measurement{}).Error; err != nil {
			return fmt.Errorf("failed to delete measurements: %w", err)
		}
		result := tx.Table(table).Where("id = ?", id).Delete(&models.Customer{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, mid := range measurementIDs {
		r.publish(ctx, models.ChangeEvent{
			Table: models.TableProductMeasurements,
			Type:  models.ChangeDelete,
			Old:   models.Row{"id": mid, "customer_id": id},
		})
	}
	r.publish(ctx, models.ChangeEvent{
		Table: table,
		Type:  models.ChangeDelete,
		Old:   models.Row{"id": id},
	})
	return nil
}

// The write is already committed; a lost notification is logged, not returned.
func (r *customerRepository) publish(ctx context.Context, event models.ChangeEvent) {
	if err := r.publisher.PublishChange(ctx, event); err != nil {
		r.logger.Warn("Failed to publish change",
			zap.String("table", event.Table),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
	}
}
