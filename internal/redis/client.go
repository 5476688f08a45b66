package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/internal/selection"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type Client struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func Initialize(redisURL string, logger *zap.Logger) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return New(rdb, logger), nil
}

func New(rdb *redis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// Selection state, one value per (session owner, customer) list
func selectionKey(owner, customerID string) string {
	return "selection:" + owner + ":" + customerID
}

func (c *Client) SetSelection(ctx context.Context, owner, customerID string, state selection.State, ttl time.Duration) error {
	if state.Kind() == selection.None {
		return c.DeleteSelection(ctx, owner, customerID)
	}
	jsonData, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	return c.rdb.Set(ctx, selectionKey(owner, customerID), jsonData, ttl).Err()
}

// GetSelection returns the stored state; a missing or expired key is None.
func (c *Client) GetSelection(ctx context.Context, owner, customerID string) (selection.State, error) {
	val, err := c.rdb.Get(ctx, selectionKey(owner, customerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return selection.State{}, nil
		}
		return selection.State{}, fmt.Errorf("failed to get selection: %w", err)
	}

	var state selection.State
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return selection.State{}, fmt.Errorf("failed to unmarshal selection: %w", err)
	}

	return state, nil
}

func (c *Client) DeleteSelection(ctx context.Context, owner, customerID string) error {
	return c.rdb.Del(ctx, selectionKey(owner, customerID)).Err()
}

// Change-feed
func changesChannel(table string) string {
	return "changes:" + table
}

func (c *Client) PublishChange(ctx context.Context, event models.ChangeEvent) error {
	if event.CommitTimestamp.IsZero() {
		event.CommitTimestamp = time.Now().UTC()
	}
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	return c.rdb.Publish(ctx, changesChannel(event.Table), jsonData).Err()
}

// ChangeSubscription is a table-wide feed. It must be closed by its owner.
type ChangeSubscription struct {
	pubsub *redis.PubSub
	events chan models.ChangeEvent
	done   chan struct{}
	once   sync.Once
}

func (s *ChangeSubscription) Events() <-chan models.ChangeEvent {
	return s.events
}

func (s *ChangeSubscription) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.pubsub.Close()
}

// SubscribeChanges returns once the subscription is confirmed by the server,
// so any write committed afterwards is delivered.
func (c *Client) SubscribeChanges(ctx context.Context, table string) (*ChangeSubscription, error) {
	pubsub := c.rdb.Subscribe(ctx, changesChannel(table))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s changes: %w", table, err)
	}

	sub := &ChangeSubscription{
		pubsub: pubsub,
		events: make(chan models.ChangeEvent),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			var event models.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				c.logger.Warn("dropping malformed change event",
					zap.String("channel", msg.Channel),
					zap.Error(err),
				)
				continue
			}
			select {
			case sub.events <- event:
			case <-sub.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
