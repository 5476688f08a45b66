package repository

import (
	"context"

	"fabtech_dashboard/internal/models"
)

// ChangePublisher receives one event per committed row write.
type ChangePublisher interface {
	PublishChange(ctx context.Context, event models.ChangeEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishChange(context.Context, models.ChangeEvent) error { return nil }
