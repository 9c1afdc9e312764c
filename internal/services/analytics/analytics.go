// Package analytics - read-side aggregation over already-synced snapshots.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecomlab/seller_insights/internal/logger"
	"github.com/ecomlab/seller_insights/internal/services/storage"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

// minorUnitsPerMajor - cents per currency unit; the min-GMV filter arrives in
// minor units and the store keeps major-unit decimals.
const minorUnitsPerMajor = 2 // decimal exponent, 10^2

// Service - per-product aggregation for one shop over an inclusive date range.
type Service struct {
	log       *logger.Logger
	shops     storage.Shops
	snapshots storage.Snapshots
}

// New - create analytics service.
func New(log *logger.Logger, shops storage.Shops, snapshots storage.Snapshots) *Service {
	return &Service{log: log, shops: shops, snapshots: snapshots}
}

// ProductAnalytics - group snapshots by product and sum gmv/items/orders.
// minGmvCents, when given, filters on the summed value (not per-day values)
// after conversion to major units. Unknown shop surfaces storage.ErrShopNotFound.
func (s *Service) ProductAnalytics(
	ctx context.Context,
	shopID model.Identity,
	startDate, endDate time.Time,
	minGmvCents *int64,
) ([]model.ProductAggregate, error) {
	if _, err := s.shops.Get(ctx, shopID); err != nil {
		return nil, fmt.Errorf("load shop %d: %w", shopID, err)
	}

	var minGmv *decimal.Decimal

	if minGmvCents != nil {
		value := decimal.New(*minGmvCents, -minorUnitsPerMajor)
		minGmv = &value
	}

	rows, err := s.snapshots.AggregateByProduct(ctx, shopID, startDate, endDate, minGmv)
	if err != nil {
		return nil, fmt.Errorf("aggregate snapshots for shop %d: %w", shopID, err)
	}

	return rows, nil
}
