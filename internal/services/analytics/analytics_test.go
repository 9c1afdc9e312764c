package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomlab/seller_insights/internal/logger"
	"github.com/ecomlab/seller_insights/internal/services/storage"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

type stubShops struct {
	known map[model.Identity]model.Shop
}

func (s *stubShops) Create(_ context.Context, _ model.Shop) (model.Identity, error) {
	panic("not used")
}

func (s *stubShops) Get(_ context.Context, id model.Identity) (model.Shop, error) {
	shop, ok := s.known[id]
	if !ok {
		return model.Shop{}, storage.ErrShopNotFound
	}

	return shop, nil
}

func (s *stubShops) List(_ context.Context) ([]model.Shop, error) { panic("not used") }

// recordingSnapshots - captures the arguments the service forwards to the repo
// and serves canned aggregate rows, applying the min-GMV contract on the sums.
type recordingSnapshots struct {
	rows []model.ProductAggregate

	gotShopID model.Identity
	gotStart  time.Time
	gotEnd    time.Time
	gotMinGmv *decimal.Decimal
}

func (r *recordingSnapshots) Upsert(_ context.Context, _ model.Snapshot) (model.Identity, error) {
	panic("not used")
}

func (r *recordingSnapshots) AggregateByProduct(
	_ context.Context, shopID model.Identity, startDate, endDate time.Time, minGmv *decimal.Decimal,
) ([]model.ProductAggregate, error) {
	r.gotShopID = shopID
	r.gotStart = startDate
	r.gotEnd = endDate
	r.gotMinGmv = minGmv

	if minGmv == nil {
		return r.rows, nil
	}

	filtered := make([]model.ProductAggregate, 0, len(r.rows))
	for _, row := range r.rows {
		if row.Gmv.GreaterThanOrEqual(*minGmv) {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}

func day(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse("2006-01-02", s)
	require.Nil(t, err)

	return d
}

func newService(rows []model.ProductAggregate) (*Service, *recordingSnapshots) {
	snapshots := &recordingSnapshots{rows: rows}
	shops := &stubShops{known: map[model.Identity]model.Shop{1: {ID: 1}}}

	return New(logger.NewNop(), shops, snapshots), snapshots
}

func Test_ProductAnalytics_UnknownShop(t *testing.T) {
	svc, _ := newService(nil)

	_, err := svc.ProductAnalytics(context.Background(), 999, day(t, "2024-05-01"), day(t, "2024-05-31"), nil)
	assert.ErrorIs(t, err, storage.ErrShopNotFound)
}

func Test_ProductAnalytics_PassThrough(t *testing.T) {
	// 10.00 + 20.00 + 5.00 over three days rolls up to one 35.00 row upstream
	rows := []model.ProductAggregate{
		{ExternalID: "a", Gmv: decimal.RequireFromString("35.00"), ItemsSold: 7, OrdersCount: 5},
	}

	svc, snapshots := newService(rows)

	got, err := svc.ProductAnalytics(context.Background(), 1, day(t, "2024-05-01"), day(t, "2024-05-03"), nil)

	assert.Nil(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Gmv.Equal(decimal.RequireFromString("35.00")))

	assert.Equal(t, model.Identity(1), snapshots.gotShopID)
	assert.Equal(t, day(t, "2024-05-01"), snapshots.gotStart)
	assert.Equal(t, day(t, "2024-05-03"), snapshots.gotEnd)
	assert.Nil(t, snapshots.gotMinGmv)
}

func Test_ProductAnalytics_MinGmvConversion(t *testing.T) {
	rows := []model.ProductAggregate{
		{ExternalID: "a", Gmv: decimal.RequireFromString("35.00")},
	}

	svc, snapshots := newService(rows)

	// 3000 cents -> 30.00: the 35.00 aggregate survives
	cents := int64(3000)
	got, err := svc.ProductAnalytics(context.Background(), 1, day(t, "2024-05-01"), day(t, "2024-05-03"), &cents)
	assert.Nil(t, err)
	assert.Len(t, got, 1)
	require.NotNil(t, snapshots.gotMinGmv)
	assert.True(t, snapshots.gotMinGmv.Equal(decimal.RequireFromString("30.00")))

	// 4000 cents -> 40.00: filtered out
	cents = 4000
	got, err = svc.ProductAnalytics(context.Background(), 1, day(t, "2024-05-01"), day(t, "2024-05-03"), &cents)
	assert.Nil(t, err)
	assert.Empty(t, got)
}
