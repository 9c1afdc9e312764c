// Package sync - the synchronization engine. Walks an inclusive date range
// for one shop, paginates the listing endpoint day by day and idempotently
// upserts products and their daily snapshots. Day- and item-scoped failures
// are accumulated into the run report instead of aborting the range; only an
// unknown shop fails the call itself.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/ecomlab/seller_insights/internal/logger"
	"github.com/ecomlab/seller_insights/internal/logger/field"
	"github.com/ecomlab/seller_insights/internal/services/extract"
	"github.com/ecomlab/seller_insights/internal/services/listing"
	"github.com/ecomlab/seller_insights/internal/services/storage"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

const (
	pageSize = 50

	// maxPagesPerDay - hard ceiling against a misbehaving pagination cursor.
	maxPagesPerDay = 1000

	dateLayout = "2006-01-02"
)

type (
	// Report - outcome of one run. Success is true iff zero errors were
	// recorded; partial failures land in Errors in encounter order.
	Report struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}

	// Service - sync engine. One Run is one logical thread of control: days
	// strictly sequential, pages within a day strictly sequential.
	Service struct {
		log       *logger.Logger
		shops     storage.Shops
		products  storage.Products
		snapshots storage.Snapshots
		client    listing.Client
	}
)

// New - create sync engine.
func New(
	log *logger.Logger,
	shops storage.Shops,
	products storage.Products,
	snapshots storage.Snapshots,
	client listing.Client,
) *Service {
	return &Service{
		log:       log,
		shops:     shops,
		products:  products,
		snapshots: snapshots,
		client:    client,
	}
}

// Run - sync [startDate, endDate] inclusive, oldest to newest, for one shop.
// Re-running the same range with unchanged upstream data is convergent: every
// write is an upsert keyed by the natural composite identity.
func (s *Service) Run(
	ctx context.Context, shopID model.Identity, startDate, endDate time.Time,
) (Report, error) {
	shop, err := s.shops.Get(ctx, shopID)
	if err != nil {
		return Report{}, fmt.Errorf("load shop %d: %w", shopID, err)
	}

	errs := make([]string, 0)

	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		s.log.Info("syncing products for date",
			field.Shop(shop.ID), field.Date(date.Format(dateLayout)))

		errs = append(errs, s.syncDate(ctx, shop, date)...)
	}

	return Report{Success: len(errs) == 0, Errors: errs}, nil
}

// syncDate - paginate one calendar day. A transport/upstream failure stops
// this day only; item failures are collected and the page continues.
func (s *Service) syncDate(ctx context.Context, shop model.Shop, date time.Time) []string {
	errs := make([]string, 0)

	page := 0

	for fetched := 0; ; fetched++ {
		if fetched >= maxPagesPerDay {
			s.log.Warn("page ceiling reached, terminating day",
				field.Shop(shop.ID), field.Date(date.Format(dateLayout)), field.Page(page))

			return errs
		}

		result, err := s.client.FetchPage(ctx, shop, date, date.AddDate(0, 0, 1), page, pageSize)
		if err != nil {
			errs = append(errs, fmt.Sprintf("failed to fetch page %d for date %s: %v",
				page, date.Format(dateLayout), err))

			return errs
		}

		// empty page is the no-more-pages signal
		if len(result.Items) == 0 {
			return errs
		}

		for _, item := range result.Items {
			if err = s.upsertItem(ctx, shop, item, date); err != nil {
				errs = append(errs, err.Error())
			}
		}

		if !result.HasMore {
			return errs
		}

		page = result.NextPage
	}
}

// upsertItem - product first (insert-or-overwrite on (shop, external id)),
// then its snapshot for the date (insert-or-overwrite on (product, date)).
func (s *Service) upsertItem(
	ctx context.Context, shop model.Shop, item extract.Item, date time.Time,
) error {
	rec, err := extract.FromItem(item)
	if err != nil {
		return fmt.Errorf("skipped record for date %s: %w", date.Format(dateLayout), err)
	}

	productID, err := s.products.Upsert(ctx, model.Product{
		ShopID:     shop.ID,
		ExternalID: rec.ExternalID,
		Title:      rec.Title,
		ImageURL:   rec.ImageURL,
		Status:     rec.Status,
		Stock:      rec.Stock,
		RawData:    rec.Raw,
	})
	if err != nil {
		return fmt.Errorf("error upserting product %s for date %s: %w",
			rec.ExternalID, date.Format(dateLayout), err)
	}

	if _, err = s.snapshots.Upsert(ctx, model.Snapshot{
		ProductID:    productID,
		ShopID:       shop.ID,
		SnapshotDate: date,
		Gmv:          rec.Gmv,
		ItemsSold:    rec.ItemsSold,
		OrdersCount:  rec.OrdersCount,
		RawData:      rec.Raw,
	}); err != nil {
		return fmt.Errorf("error upserting snapshot of product %s for date %s: %w",
			rec.ExternalID, date.Format(dateLayout), err)
	}

	return nil
}
