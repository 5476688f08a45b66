package redis

import (
	"context"
	"testing"
	"time"

	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/internal/selection"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { rdb.Close() })

	return mr, New(rdb, zap.NewNop())
}

func TestSelection_MissingKeyIsNone(t *testing.T) {
	_, client := setupTestRedis(t)

	state, err := client.GetSelection(context.Background(), "user-1", "cust-1")

	require.NoError(t, err)
	assert.Equal(t, selection.None, state.Kind())
}

func TestSelection_RoundTrip(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	state := selection.State{}.Edit(models.Measurement{ID: "m1", CustomerID: "cust-1", Colour: "white"})

	err := client.SetSelection(ctx, "user-1", "cust-1", state, time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("selection:user-1:cust-1"))

	got, err := client.GetSelection(ctx, "user-1", "cust-1")
	require.NoError(t, err)
	require.NotNil(t, got.Edited())
	assert.Equal(t, "white", got.Edited().Colour)
}

func TestSelection_NoneDeletesKey(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	state := selection.State{}.View(models.Measurement{ID: "m1"})
	require.NoError(t, client.SetSelection(ctx, "user-1", "cust-1", state, time.Minute))

	require.NoError(t, client.SetSelection(ctx, "user-1", "cust-1", state.Clear(), time.Minute))

	assert.False(t, mr.Exists("selection:user-1:cust-1"))
}

func TestSelection_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	state := selection.State{}.View(models.Measurement{ID: "m1"})
	require.NoError(t, client.SetSelection(ctx, "user-1", "cust-1", state, time.Minute))

	mr.FastForward(2 * time.Minute)

	got, err := client.GetSelection(ctx, "user-1", "cust-1")
	require.NoError(t, err)
	assert.Equal(t, selection.None, got.Kind())
}

func TestSelection_CorruptValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	require.NoError(t, mr.Set("selection:user-1:cust-1", "not-json"))

	_, err := client.GetSelection(context.Background(), "user-1", "cust-1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal selection")
}

func TestChanges_PublishAndReceive(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	sub, err := client.SubscribeChanges(ctx, models.TableProductMeasurements)
	require.NoError(t, err)
	defer sub.Close()

	err = client.PublishChange(ctx, models.ChangeEvent{
		Table: models.TableProductMeasurements,
		Type:  models.ChangeUpdate,
		Old:   models.Row{"id": "m1"},
		New:   models.Row{"colour": "red"},
	})
	require.NoError(t, err)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, models.ChangeUpdate, ev.Type)
		assert.Equal(t, "m1", ev.Old.ID())
		assert.Equal(t, "red", ev.New["colour"])
		assert.False(t, ev.CommitTimestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("change event not delivered")
	}
}

func TestChanges_OtherTableNotDelivered(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	sub, err := client.SubscribeChanges(ctx, models.TableProductMeasurements)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, client.PublishChange(ctx, models.ChangeEvent{Table: models.TableMarketing, Type: models.ChangeDelete, Old: models.Row{"id": "c1"}}))

	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestChanges_CloseEndsEvents(t *testing.T) {
	_, client := setupTestRedis(t)

	sub, err := client.SubscribeChanges(context.Background(), models.TableProductMeasurements)
	require.NoError(t, err)
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}
