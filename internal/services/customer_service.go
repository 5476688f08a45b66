package services

import (
	"context"
	"errors"
	"net/url"
	"time"

	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/internal/repository"
	"fabtech_dashboard/internal/wizard"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Step-1 completion choices.
type BasicDetailsAction string

const (
	ActionDashboard BasicDetailsAction = "dashboard"
	ActionContinue  BasicDetailsAction = "continue"
)

// Query keys that address the API itself and never reach the page URL.
const (
	ParamFlow   = "flow"
	ParamAction = "action"
)

// FlowState is the resolved wizard position, with the parent record when
// one is known so the form can be pre-filled.
type FlowState struct {
	Step   wizard.Step      `json:"step"`
	Record *models.Customer `json:"record,omitempty"`
}

// Transition is the outcome of completing a step: the saved record and the
// page the client should go to next.
type Transition struct {
	Record   *models.Customer `json:"record,omitempty"`
	Redirect string           `json:"redirect"`
}

// ProcessDetails holds step-3 input. Only the columns of the target table
// are written.
type ProcessDetails struct {
	VisitingDate           *time.Time
	VisitingDoneOfSite     *time.Time
	CustomerOfficeVisit    *time.Time
	FollowUpAfterQuotation *time.Time
	AdvancePaymentDate     *time.Time
	AdvancePaymentAmount   string
	Installation           *time.Time
	FinishingVisit         *time.Time
	QualityCheckDoneBy     string
}

func (p ProcessDetails) columns(table string) map[string]any {
	values := map[string]any{
		"advance_payment_date":  p.AdvancePaymentDate,
		"installation":          p.Installation,
		"finishing_visit":       p.FinishingVisit,
		"quality_check_done_by": p.QualityCheckDoneBy,
	}
	if table == models.TableMarketing {
		values["visiting_date"] = p.VisitingDate
		values["visiting_done_of_site"] = p.VisitingDoneOfSite
		values["customer_office_visit"] = p.CustomerOfficeVisit
		values["follow_up_after_quotation"] = p.FollowUpAfterQuotation
	} else {
		values["advance_payment_amount"] = p.AdvancePaymentAmount
	}
	return values
}

type CustomerService interface {
	List(ctx context.Context, table string) ([]models.Customer, error)
	Get(ctx context.Context, table, id string) (*models.Customer, error)
	Delete(ctx context.Context, table, id string) error

	ResolveStep(ctx context.Context, table string, query url.Values) (*FlowState, error)
	SaveBasicDetails(ctx context.Context, table string, query url.Values, details *models.Customer) (*Transition, error)
	SkipMeasurements(ctx context.Context, table string, query url.Values) (*Transition, error)
	SaveProcessDetails(ctx context.Context, table, id string, details ProcessDetails) (*Transition, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	logger       *zap.Logger
}

func NewCustomerService(customerRepo repository.CustomerRepository, logger *zap.Logger) CustomerService {
	return &customerService{customerRepo: customerRepo, logger: logger}
}

func checkTable(table string) error {
	if !models.IsParentTable(table) {
		return ErrUnknownTable
	}
	return nil
}

func (s *customerService) List(ctx context.Context, table string) ([]models.Customer, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	return s.customerRepo.List(ctx, table)
}

func (s *customerService) Get(ctx context.Context, table, id string) (*models.Customer, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	return s.customerRepo.GetByID(ctx, table, id)
}

func (s *customerService) Delete(ctx context.Context, table, id string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, table, id); err != nil {
		return err
	}
	s.logger.Info("Record deleted", zap.String("table", table), zap.String("id", id))
	return nil
}

// flowContext splits an API query into the flow, the parent id and the
// query of the page itself. In the update flow the id lives in the page
// path, so it is dropped from the page query.
func flowContext(query url.Values) (wizard.Flow, string, url.Values) {
	flow := wizard.ParseFlow(query.Get(ParamFlow))
	parentID := query.Get(wizard.ParamID)

	page := make(url.Values, len(query))
	for k, v := range query {
		if k == ParamFlow || k == ParamAction {
			continue
		}
		if k == wizard.ParamID && flow == wizard.FlowUpdate {
			continue
		}
		page[k] = append([]string(nil), v...)
	}
	return flow, parentID, page
}

// lookupParent returns the parent row, or nil when id is empty. In the
// create flow an id that does not exist is treated like no id; in the
// update flow it is an error.
func (s *customerService) lookupParent(ctx context.Context, table string, flow wizard.Flow, id string) (*models.Customer, error) {
	if id == "" {
		if flow == wizard.FlowUpdate {
			return nil, ErrParentRequired
		}
		return nil, nil
	}
	customer, err := s.customerRepo.GetByID(ctx, table, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) && flow == wizard.FlowCreate {
			return nil, nil
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) ResolveStep(ctx context.Context, table string, query url.Values) (*FlowState, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	flow, parentID, page := flowContext(query)
	parent, err := s.lookupParent(ctx, table, flow, parentID)
	if err != nil {
		return nil, err
	}

	return &FlowState{
		Step:   wizard.Resolve(page, flow, parent != nil),
		Record: parent,
	}, nil
}

// SaveBasicDetails inserts the parent in the create flow, or updates it when
// the id is already known (update flow, or returning to step 1).
func (s *customerService) SaveBasicDetails(ctx context.Context, table string, query url.Values, details *models.Customer) (*Transition, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	flow, parentID, page := flowContext(query)
	parent, err := s.lookupParent(ctx, table, flow, parentID)
	if err != nil {
		return nil, err
	}

	if parent == nil {
		details.ID = ""
		if err := s.customerRepo.Create(ctx, table, details); err != nil {
			return nil, err
		}
		s.logger.Info("Record created", zap.String("table", table), zap.String("id", details.ID))
	} else {
		details.ID = parent.ID
		if err := s.customerRepo.UpdateBasicDetails(ctx, table, details); err != nil {
			return nil, err
		}
	}

	saved, err := s.customerRepo.GetByID(ctx, table, details.ID)
	if err != nil {
		return nil, err
	}

	redirect := wizard.Dashboard(table)
	if BasicDetailsAction(query.Get(ParamAction)) == ActionContinue {
		redirect = wizard.URL(
			wizard.Page(table, flow, saved.ID),
			wizard.AfterBasicDetails(page, flow, saved.ID),
		)
	}
	return &Transition{Record: saved, Redirect: redirect}, nil
}

func (s *customerService) SkipMeasurements(ctx context.Context, table string, query url.Values) (*Transition, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	flow, parentID, page := flowContext(query)
	parent, err := s.lookupParent(ctx, table, flow, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrParentRequired
	}

	return &Transition{
		Record:   parent,
		Redirect: wizard.URL(wizard.Page(table, flow, parent.ID), wizard.AfterMeasurements(page)),
	}, nil
}

func (s *customerService) SaveProcessDetails(ctx context.Context, table, id string, details ProcessDetails) (*Transition, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := s.customerRepo.UpdateColumns(ctx, table, id, details.columns(table)); err != nil {
		return nil, err
	}
	saved, err := s.customerRepo.GetByID(ctx, table, id)
	if err != nil {
		return nil, err
	}
	return &Transition{Record: saved, Redirect: wizard.Dashboard(table)}, nil
}
