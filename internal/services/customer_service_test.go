package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestCustomerService_UnknownTable(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())

	_, err := svc.List(context.Background(), "product_measurements")
	assert.ErrorIs(t, err, ErrUnknownTable)

	_, err = svc.ResolveStep(context.Background(), "users", url.Values{})
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestResolveStep_CreateFlow(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())
	ctx := context.Background()

	existing := newBasicDetails("Acme")
	require.NoError(t, env.customers.Create(ctx, models.TableMarketing, existing))

	tests := []struct {
		name  string
		query url.Values
		want  wizard.Step
	}{
		{"no step no id", url.Values{"foo": {"bar"}}, wizard.BasicDetails},
		{"step without id", url.Values{"step": {"product-measurements"}}, wizard.BasicDetails},
		{"unknown id", url.Values{"step": {"process-details"}, "id": {"missing"}}, wizard.BasicDetails},
		{"deep link", url.Values{"step": {"process-details"}, "id": {existing.ID}}, wizard.ProcessDetails},
		{"bad step", url.Values{"step": {"step-9"}, "id": {existing.ID}}, wizard.BasicDetails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := svc.ResolveStep(ctx, models.TableMarketing, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, state.Step)
		})
	}
}

func TestResolveStep_UpdateFlow(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())
	ctx := context.Background()

	existing := newBasicDetails("Acme")
	require.NoError(t, env.customers.Create(ctx, models.TableFinalisedMeasurements, existing))

	state, err := svc.ResolveStep(ctx, models.TableFinalisedMeasurements, url.Values{
		"flow": {"update"}, "id": {existing.ID}, "step": {"product-measurements"},
	})
	require.NoError(t, err)
	assert.Equal(t, wizard.ProductMeasurements, state.Step)
	require.NotNil(t, state.Record)
	assert.Equal(t, "Acme", state.Record.PartyName)

	state, err = svc.ResolveStep(ctx, models.TableFinalisedMeasurements, url.Values{
		"flow": {"update"}, "id": {existing.ID}, "step": {"nope"},
	})
	require.NoError(t, err)
	assert.Equal(t, wizard.BasicDetails, state.Step)

	_, err = svc.ResolveStep(ctx, models.TableFinalisedMeasurements, url.Values{
		"flow": {"update"}, "id": {"missing"},
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = svc.ResolveStep(ctx, models.TableFinalisedMeasurements, url.Values{"flow": {"update"}})
	assert.ErrorIs(t, err, ErrParentRequired)
}

func TestSaveBasicDetails_CreateAndContinue(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())
	ctx := context.Background()

	result, err := svc.SaveBasicDetails(ctx, models.TableMarketing,
		url.Values{"action": {"continue"}, "ref": {"sidebar"}},
		newBasicDetails("Acme"))
	require.NoError(t, err)
	require.NotEmpty(t, result.Record.ID)

	redirect, err := url.Parse(result.Redirect)
	require.NoError(t, err)
	assert.Equal(t, "/marketing/add", redirect.Path)
	assert.Equal(t, "product-measurements", redirect.Query().Get("step"))
	assert.Equal(t, result.Record.ID, redirect.Query().Get("id"))
	assert.Equal(t, "sidebar", redirect.Query().Get("ref"))
	assert.Empty(t, redirect.Query().Get("action"))

	// The redirect resolves to step 2 when deep-linked.
	state, err := svc.ResolveStep(ctx, models.TableMarketing, redirect.Query())
	require.NoError(t, err)
	assert.Equal(t, wizard.ProductMeasurements, state.Step)
}

func TestSaveBasicDetails_CreateAndDashboard(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())

	result, err := svc.SaveBasicDetails(context.Background(), models.TableFinalisedMeasurements,
		url.Values{"action": {"dashboard"}}, newBasicDetails("Acme"))

	require.NoError(t, err)
	assert.Equal(t, "/finalised-measurements", result.Redirect)
}

func TestSaveBasicDetails_ReentryUpdatesInsteadOfDuplicating(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())
	ctx := context.Background()

	first, err := svc.SaveBasicDetails(ctx, models.TableMarketing, url.Values{}, newBasicDetails("Acme"))
	require.NoError(t, err)

	second, err := svc.SaveBasicDetails(ctx, models.TableMarketing,
		url.Values{"id": {first.Record.ID}}, newBasicDetails("Acme Interiors"))
	require.NoError(t, err)
	assert.Equal(t, first.Record.ID, second.Record.ID)
	assert.Equal(t, "Acme Interiors", second.Record.PartyName)

	all, err := svc.List(ctx, models.TableMarketing)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveBasicDetails_UpdateFlowKeepsIDInPath(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())
	ctx := context.Background()

	existing := newBasicDetails("Acme")
	require.NoError(t, env.customers.Create(ctx, models.TableMarketing, existing))

	result, err := svc.SaveBasicDetails(ctx, models.TableMarketing, url.Values{
		"flow": {"update"}, "id": {existing.ID}, "action": {"continue"},
	}, newBasicDetails("Acme Two"))
	require.NoError(t, err)

	assert.Equal(t, "/marketing/edit/"+existing.ID+"?step=product-measurements", result.Redirect)
	assert.Equal(t, "Acme Two", result.Record.PartyName)
}

func TestSkipMeasurements(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())
	ctx := context.Background()

	existing := newBasicDetails("Acme")
	require.NoError(t, env.customers.Create(ctx, models.TableMarketing, existing))

	result, err := svc.SkipMeasurements(ctx, models.TableMarketing, url.Values{
		"step": {"product-measurements"}, "id": {existing.ID},
	})
	require.NoError(t, err)
	redirect, err := url.Parse(result.Redirect)
	require.NoError(t, err)
	assert.Equal(t, "process-details", redirect.Query().Get("step"))
	assert.Equal(t, existing.ID, redirect.Query().Get("id"))

	_, err = svc.SkipMeasurements(ctx, models.TableMarketing, url.Values{"step": {"product-measurements"}})
	assert.ErrorIs(t, err, ErrParentRequired)
}

func TestSaveProcessDetails_ColumnsPerTable(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())
	ctx := context.Background()

	marketing := newBasicDetails("Lead")
	finalised := newBasicDetails("Customer")
	require.NoError(t, env.customers.Create(ctx, models.TableMarketing, marketing))
	require.NoError(t, env.customers.Create(ctx, models.TableFinalisedMeasurements, finalised))

	visit := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	details := ProcessDetails{
		VisitingDate:         &visit,
		AdvancePaymentAmount: "25000",
		QualityCheckDoneBy:   "Ravi",
	}

	result, err := svc.SaveProcessDetails(ctx, models.TableMarketing, marketing.ID, details)
	require.NoError(t, err)
	assert.Equal(t, "/", result.Redirect)
	require.NotNil(t, result.Record.VisitingDate)
	assert.Empty(t, result.Record.AdvancePaymentAmount)
	assert.Equal(t, "Ravi", result.Record.QualityCheckDoneBy)

	result, err = svc.SaveProcessDetails(ctx, models.TableFinalisedMeasurements, finalised.ID, details)
	require.NoError(t, err)
	assert.Equal(t, "/finalised-measurements", result.Redirect)
	assert.Nil(t, result.Record.VisitingDate)
	assert.Equal(t, "25000", result.Record.AdvancePaymentAmount)

	_, err = svc.SaveProcessDetails(ctx, models.TableMarketing, "missing", details)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCustomerService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCustomerService(env.customers, zap.NewNop())
	ctx := context.Background()

	existing := newBasicDetails("Acme")
	require.NoError(t, env.customers.Create(ctx, models.TableMarketing, existing))

	require.NoError(t, svc.Delete(ctx, models.TableMarketing, existing.ID))
	_, err := svc.Get(ctx, models.TableMarketing, existing.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
