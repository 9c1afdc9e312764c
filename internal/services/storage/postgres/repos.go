package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ecomlab/seller_insights/internal/services/storage"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

type shopsRepo struct {
	db *sqlx.DB
	ph squirrel.PlaceholderFormat
}

// Create - insert a new operator-created shop.
func (r *shopsRepo) Create(ctx context.Context, shop model.Shop) (model.Identity, error) {
	query, args, err := squirrel.Insert(model.ShopsTable).
		Columns("name", "cookie", "oec_seller_id", "base_url", "fp", "timezone_offset", "region").
		Values(shop.Name, shop.Cookie, shop.OecSellerID, shop.BaseURL, shop.Fp, shop.TimezoneOffset, shop.Region).
		Suffix("RETURNING id").
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert shop: %w", err)
	}

	var id model.Identity
	if err = r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert shop: %w", err)
	}

	return id, nil
}

// Get - shop by id, storage.ErrShopNotFound when absent.
func (r *shopsRepo) Get(ctx context.Context, id model.Identity) (model.Shop, error) {
	query, args, err := storage.Select("*").
		From(model.ShopsTable).
		Where(storage.Eq{"id": id}).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return model.Shop{}, fmt.Errorf("build select shop: %w", err)
	}

	var shop model.Shop
	if err = r.db.GetContext(ctx, &shop, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Shop{}, storage.ErrShopNotFound
		}

		return model.Shop{}, fmt.Errorf("select shop: %w", err)
	}

	return shop, nil
}

// List - all shops, oldest first.
func (r *shopsRepo) List(ctx context.Context) ([]model.Shop, error) {
	query, args, err := storage.Select("*").
		From(model.ShopsTable).
		OrderBy("id").
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select shops: %w", err)
	}

	shops := make([]model.Shop, 0)
	if err = r.db.SelectContext(ctx, &shops, query, args...); err != nil {
		return nil, fmt.Errorf("select shops: %w", err)
	}

	return shops, nil
}

type productsRepo struct {
	db *sqlx.DB
	ph squirrel.PlaceholderFormat
}

// Upsert - atomic insert-or-update keyed by (shop_id, external_id).
// Mutable fields are overwritten on every sighting, no history kept.
func (r *productsRepo) Upsert(ctx context.Context, p model.Product) (model.Identity, error) {
	query, args, err := squirrel.Insert(model.ProductsTable).
		Columns("shop_id", "external_id", "title", "image_url", "status", "stock", "raw_data").
		Values(p.ShopID, p.ExternalID, p.Title, p.ImageURL, p.Status, p.Stock, p.RawData).
		Suffix(`ON CONFLICT (shop_id, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			image_url = EXCLUDED.image_url,
			status = EXCLUDED.status,
			stock = EXCLUDED.stock,
			raw_data = EXCLUDED.raw_data,
			updated_at = now()
			RETURNING id`).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert product: %w", err)
	}

	var id model.Identity
	if err = r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert product %q: %w", p.ExternalID, err)
	}

	return id, nil
}

// FindByExternalID - product by its composite natural key.
func (r *productsRepo) FindByExternalID(
	ctx context.Context, shopID model.Identity, externalID string,
) (model.Product, error) {
	query, args, err := storage.Select("*").
		From(model.ProductsTable).
		Where(storage.Eq{"shop_id": shopID, "external_id": externalID}).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return model.Product{}, fmt.Errorf("build select product: %w", err)
	}

	var product model.Product
	if err = r.db.GetContext(ctx, &product, query, args...); err != nil {
		return model.Product{}, fmt.Errorf("select product %q: %w", externalID, err)
	}

	return product, nil
}

type snapshotsRepo struct {
	db *sqlx.DB
	ph squirrel.PlaceholderFormat
}

// Upsert - atomic insert-or-update keyed by (product_id, snapshot_date).
// Re-syncing a date overwrites metric fields instead of duplicating the row.
func (r *snapshotsRepo) Upsert(ctx context.Context, s model.Snapshot) (model.Identity, error) {
	query, args, err := squirrel.Insert(model.SnapshotsTable).
		Columns("product_id", "shop_id", "snapshot_date", "gmv", "items_sold", "orders_count", "raw_data").
		Values(s.ProductID, s.ShopID, s.SnapshotDate, s.Gmv, s.ItemsSold, s.OrdersCount, s.RawData).
		Suffix(`ON CONFLICT (product_id, snapshot_date) DO UPDATE SET
			gmv = EXCLUDED.gmv,
			items_sold = EXCLUDED.items_sold,
			orders_count = EXCLUDED.orders_count,
			raw_data = EXCLUDED.raw_data,
			updated_at = now()
			RETURNING id`).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert snapshot: %w", err)
	}

	var id model.Identity
	if err = r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert snapshot for product %d: %w", s.ProductID, err)
	}

	return id, nil
}

// AggregateByProduct - sum metrics per product over [startDate, endDate].
// minGmv (major units) filters on the summed value, not per-day values.
func (r *snapshotsRepo) AggregateByProduct(
	ctx context.Context,
	shopID model.Identity,
	startDate, endDate time.Time,
	minGmv *decimal.Decimal,
) ([]model.ProductAggregate, error) {
	query, args, err := aggregateQuery(r.ph, shopID, startDate, endDate, minGmv)
	if err != nil {
		return nil, fmt.Errorf("build aggregate query: %w", err)
	}

	rows := make([]model.ProductAggregate, 0)
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select aggregates: %w", err)
	}

	return rows, nil
}

func aggregateQuery(
	ph squirrel.PlaceholderFormat,
	shopID model.Identity,
	startDate, endDate time.Time,
	minGmv *decimal.Decimal,
) (string, []any, error) {
	sb := storage.Select(
		"p.external_id",
		"p.title",
		"p.status",
		"p.image_url",
		"SUM(s.gmv) AS gmv",
		"SUM(s.items_sold) AS items_sold",
		"SUM(s.orders_count) AS orders_count",
	).
		From(model.SnapshotsTable+" s").
		Join(model.ProductsTable+" p ON p.id = s.product_id").
		Where("s.shop_id = ?", shopID).
		Where("s.snapshot_date BETWEEN ? AND ?", startDate, endDate).
		GroupBy("p.id", "p.external_id", "p.title", "p.status", "p.image_url")

	if minGmv != nil {
		sb = sb.Having("SUM(s.gmv) >= ?", *minGmv)
	}

	return sb.PlaceholderFormat(ph).ToSql()
}
