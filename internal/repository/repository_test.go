package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fabtech_dashboard/internal/migrations"
	"fabtech_dashboard/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ChangeEvent
	err    error
}

func (p *recordingPublisher) PublishChange(_ context.Context, event models.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []models.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.ChangeEvent(nil), p.events...)
}

var errPublish = errors.New("redis down")

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migrations.RunMigrations(db, zap.NewNop()))
	return db
}

func newCustomer(name string) *models.Customer {
	return &models.Customer{
		PartyName:    name,
		MobileNumber: "9800000000",
		Address1:     "Plot 4",
		Address2:     "Ring Road",
		StatusOfSite: string(models.SiteReady),
		Category:     string(models.CategoryCustomer),
		Gmap:         "https://maps.example/abc",
	}
}

func newMeasurement(customerID string) *models.Measurement {
	return &models.Measurement{
		CustomerID:      customerID,
		DesignSelection: "regular-design",
		DesignRef:       "3 shutters (5x7)",
		DesignRate:      410,
		Quantity:        1,
		Colour:          "white",
	}
}
