package services

import (
	"context"
	"fmt"
	"time"

	"fabtech_dashboard/internal/catalog"
	"fabtech_dashboard/internal/livesync"
	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/internal/redis"
	"fabtech_dashboard/internal/repository"
	"fabtech_dashboard/internal/selection"

	"go.uber.org/zap"
)

// MeasurementInput is the measurement form. There is no rate field: the rate
// is always derived from DesignSelection and DesignRef.
type MeasurementInput struct {
	DesignSelection string
	DesignRef       string
	Quantity        int
	Location        string
	FloorNumber     string
	Granite         string
	Colour          string
	Lock            string
	MosquitoWindow  string
	Glass           string
	Note            string
	W1, W2, W3      string
	H1, H2, H3      string
}

func (in MeasurementInput) toModel(customerID string) (*models.Measurement, error) {
	rate, err := catalog.Rate(in.DesignSelection, in.DesignRef)
	if err != nil {
		return nil, err
	}
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return &models.Measurement{
		CustomerID:      customerID,
		DesignSelection: in.DesignSelection,
		DesignRef:       in.DesignRef,
		DesignRate:      rate,
		Quantity:        quantity,
		Location:        in.Location,
		FloorNumber:     in.FloorNumber,
		Granite:         in.Granite,
		Colour:          in.Colour,
		Lock:            in.Lock,
		MosquitoWindow:  in.MosquitoWindow,
		Glass:           in.Glass,
		Note:            in.Note,
		W1:              in.W1,
		W2:              in.W2,
		W3:              in.W3,
		H1:              in.H1,
		H2:              in.H2,
		H3:              in.H3,
	}, nil
}

// SubmitResult is the saved measurement and the selection left behind.
type SubmitResult struct {
	Measurement *models.Measurement `json:"measurement"`
	Selection   selection.State     `json:"selection"`
	Updated     bool                `json:"updated"`
}

type MeasurementService interface {
	List(ctx context.Context, customerID string) ([]models.Measurement, error)
	Get(ctx context.Context, customerID, id string) (*models.Measurement, error)
	Submit(ctx context.Context, owner, customerID string, input MeasurementInput) (*SubmitResult, error)
	Delete(ctx context.Context, owner, customerID, id string) error

	Selection(ctx context.Context, owner, customerID string) (selection.State, error)
	View(ctx context.Context, owner, customerID, id string) (selection.State, error)
	Edit(ctx context.Context, owner, customerID, id string) (selection.State, error)
	Cancel(ctx context.Context, owner, customerID string) (selection.State, error)

	Live(ctx context.Context, customerID string, emit func(livesync.Update) error) error
}

type measurementService struct {
	measurementRepo repository.MeasurementRepository
	redis           *redis.Client
	selectionTTL    time.Duration
	logger          *zap.Logger
}

func NewMeasurementService(measurementRepo repository.MeasurementRepository, redis *redis.Client, selectionTTL time.Duration, logger *zap.Logger) MeasurementService {
	return &measurementService{
		measurementRepo: measurementRepo,
		redis:           redis,
		selectionTTL:    selectionTTL,
		logger:          logger,
	}
}

func (s *measurementService) List(ctx context.Context, customerID string) ([]models.Measurement, error) {
	return s.measurementRepo.ListByCustomer(ctx, customerID)
}

func (s *measurementService) Get(ctx context.Context, customerID, id string) (*models.Measurement, error) {
	return s.measurementRepo.GetByID(ctx, customerID, id)
}

// Submit inserts a new measurement, or saves the edited one and clears the
// selection. A record that is only being viewed cannot be submitted.
func (s *measurementService) Submit(ctx context.Context, owner, customerID string, input MeasurementInput) (*SubmitResult, error) {
	state, err := s.redis.GetSelection(ctx, owner, customerID)
	if err != nil {
		return nil, err
	}
	if state.Kind() == selection.Viewing {
		return nil, ErrReadOnly
	}

	measurement, err := input.toModel(customerID)
	if err != nil {
		return nil, err
	}

	edited := state.Edited()
	if edited == nil {
		if err := s.measurementRepo.Create(ctx, measurement); err != nil {
			return nil, err
		}
		return &SubmitResult{Measurement: measurement, Selection: state}, nil
	}

	measurement.ID = edited.ID
	if err := s.measurementRepo.Update(ctx, measurement); err != nil {
		return nil, err
	}
	state = state.Clear()
	if err := s.redis.SetSelection(ctx, owner, customerID, state, s.selectionTTL); err != nil {
		return nil, err
	}
	return &SubmitResult{Measurement: measurement, Selection: state, Updated: true}, nil
}

func (s *measurementService) Delete(ctx context.Context, owner, customerID, id string) error {
	if err := s.measurementRepo.Delete(ctx, customerID, id); err != nil {
		return err
	}

	state, err := s.redis.GetSelection(ctx, owner, customerID)
	if err != nil {
		return err
	}
	if state.Highlighted(id) {
		return s.redis.DeleteSelection(ctx, owner, customerID)
	}
	return nil
}

func (s *measurementService) Selection(ctx context.Context, owner, customerID string) (selection.State, error) {
	return s.redis.GetSelection(ctx, owner, customerID)
}

func (s *measurementService) View(ctx context.Context, owner, customerID, id string) (selection.State, error) {
	return s.transition(ctx, owner, customerID, id, selection.State.View)
}

func (s *measurementService) Edit(ctx context.Context, owner, customerID, id string) (selection.State, error) {
	return s.transition(ctx, owner, customerID, id, selection.State.Edit)
}

// transition applies a toggle to the stored selection using the record as
// it is now in the store.
func (s *measurementService) transition(ctx context.Context, owner, customerID, id string, toggle func(selection.State, models.Measurement) selection.State) (selection.State, error) {
	record, err := s.measurementRepo.GetByID(ctx, customerID, id)
	if err != nil {
		return selection.State{}, err
	}
	state, err := s.redis.GetSelection(ctx, owner, customerID)
	if err != nil {
		return selection.State{}, err
	}

	next := toggle(state, *record)
	if err := s.redis.SetSelection(ctx, owner, customerID, next, s.selectionTTL); err != nil {
		return selection.State{}, err
	}
	return next, nil
}

// Cancel clears the selection without touching the store.
func (s *measurementService) Cancel(ctx context.Context, owner, customerID string) (selection.State, error) {
	if err := s.redis.DeleteSelection(ctx, owner, customerID); err != nil {
		return selection.State{}, err
	}
	return selection.State{}, nil
}

// Live streams the customer's measurements: a snapshot, then one update per
// change. It returns when ctx ends.
func (s *measurementService) Live(ctx context.Context, customerID string, emit func(livesync.Update) error) error {
	sub, err := s.redis.SubscribeChanges(ctx, models.TableProductMeasurements)
	if err != nil {
		return err
	}

	fetch := func(ctx context.Context) ([]models.Row, error) {
		measurements, err := s.measurementRepo.ListByCustomer(ctx, customerID)
		if err != nil {
			return nil, err
		}
		rows := make([]models.Row, 0, len(measurements))
		for i := range measurements {
			row, err := models.ToRow(&measurements[i])
			if err != nil {
				return nil, fmt.Errorf("failed to encode measurement: %w", err)
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	s.logger.Debug("Live measurements started", zap.String("customer_id", customerID))
	defer s.logger.Debug("Live measurements stopped", zap.String("customer_id", customerID))

	return livesync.Run(ctx, sub, fetch, livesync.ForParent("customer_id", customerID), emit)
}
