package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/courtia/courtia_backend/models"
)

// CommissionStatsStore runs the aggregation over persisted commission rows.
type CommissionStatsStore interface {
	AggregateCommissionStats(ctx context.Context, organizationID primitive.ObjectID, start, end *time.Time) (*models.CommissionStats, error)
}

// CommissionStatsAggregator answers reporting queries over a date range.
// Both bounds are optional; an empty range yields zeroed stats, not an error.
type CommissionStatsAggregator struct {
	store CommissionStatsStore
}

func NewCommissionStatsAggregator(store CommissionStatsStore) *CommissionStatsAggregator {
	return &CommissionStatsAggregator{store: store}
}

func (a *CommissionStatsAggregator) GetStats(ctx context.Context, organizationID primitive.ObjectID, start, end *time.Time) (*models.CommissionStats, error) {
	stats, err := a.store.AggregateCommissionStats(ctx, organizationID, start, end)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &models.CommissionStats{}
	}
	if stats.ByRole == nil {
		stats.ByRole = map[string]float64{}
	}
	if stats.ByAdvisor == nil {
		stats.ByAdvisor = map[string]float64{}
	}

	// Sums of rounded amounts can pick up float noise in aggregation
	stats.TotalAmount = RoundMoney(stats.TotalAmount)
	for role, amount := range stats.ByRole {
		stats.ByRole[role] = RoundMoney(amount)
	}
	for advisor, amount := range stats.ByAdvisor {
		stats.ByAdvisor[advisor] = RoundMoney(amount)
	}
	return stats, nil
}
