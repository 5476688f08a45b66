package services

import (
	"testing"
	"time"

	"fabtech_dashboard/internal/migrations"
	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/internal/redis"
	"fabtech_dashboard/internal/repository"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db           *gorm.DB
	redis        *redis.Client
	mr           *miniredis.Miniredis
	customers    repository.CustomerRepository
	measurements repository.MeasurementRepository
}

func setupTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migrations.RunMigrations(db, zap.NewNop()))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	client := redis.New(rdb, zap.NewNop())

	return &testEnv{
		db:           db,
		redis:        client,
		mr:           mr,
		customers:    repository.NewCustomerRepository(db, client, zap.NewNop()),
		measurements: repository.NewMeasurementRepository(db, client, zap.NewNop()),
	}
}

func (e *testEnv) measurementService() MeasurementService {
	return NewMeasurementService(e.measurements, e.redis, time.Hour, zap.NewNop())
}

func newBasicDetails(name string) *models.Customer {
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

func regularInput() MeasurementInput {
	return MeasurementInput{
		DesignSelection: "regular-design",
		DesignRef:       "3 shutters 5x7",
		Quantity:        2,
		Location:        "Kitchen",
		Colour:          "white",
		W1:              "48",
		H1:              "60",
	}
}
