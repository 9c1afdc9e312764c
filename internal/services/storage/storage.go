package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

type (
	// Config - config of storage.
	Config struct {
		// todo in real world array of hosts or slaves or other // can use Consul hook
		Host              string
		Port              int
		Username          string
		Password          string
		Database          string
		Placeholder       string `yaml:"placeholder"`
		MaxTryConnect     int    `yaml:"maxTryConnect"`
		TimeoutTryConnect string `yaml:"timeoutTryConnect"`
		Options           Options
	}

	// Options - options config.
	Options map[string]any
)

// PlaceholderFormat - squirrel placeholder for the configured db flavor.
func (c Config) PlaceholderFormat() squirrel.PlaceholderFormat {
	switch c.Placeholder {
	case "$":
		return squirrel.Dollar // $1, $2, etc // Postgres
	case "?":
		return squirrel.Question
	case "@":
		return squirrel.AtP
	default:
		return squirrel.Dollar
	}
}

var Select = squirrel.Select

var (
	ErrNotInserted  = errors.New("not inserted record to db")
	ErrShopNotFound = errors.New("shop not found")
)

type (
	// Column - sql column name.
	Column = string

	// SelectBuilder alias of squirrel.SelectBuilder.
	SelectBuilder = squirrel.SelectBuilder

	// Eq - alias squirell.Eq
	Eq = squirrel.Eq
	// And - and pred.
	And = squirrel.And
	// Lt - and pred.
	Lt = squirrel.Lt
	// Gt - and pred.
	Gt = squirrel.Gt

	// Shops - repository of operator-managed seller accounts.
	Shops interface {
		Create(ctx context.Context, shop model.Shop) (model.Identity, error)
		Get(ctx context.Context, id model.Identity) (model.Shop, error)
		List(ctx context.Context) ([]model.Shop, error)
	}

	// Products - repository of sighted products.
	// Upsert matches on (shop_id, external_id) and overwrites mutable fields.
	Products interface {
		Upsert(ctx context.Context, product model.Product) (model.Identity, error)
		FindByExternalID(ctx context.Context, shopID model.Identity, externalID string) (model.Product, error)
	}

	// Snapshots - repository of per-(product, date) metric rows.
	// Upsert matches on (product_id, snapshot_date) and overwrites metric fields.
	Snapshots interface {
		Upsert(ctx context.Context, snapshot model.Snapshot) (model.Identity, error)
		AggregateByProduct(ctx context.Context, shopID model.Identity,
			startDate, endDate time.Time, minGmv *decimal.Decimal) ([]model.ProductAggregate, error)
	}

	// Storage - general storage interface.
	Storage interface {
		Config() Config

		Connect(Config) error

		Shops() Shops
		Products() Products
		Snapshots() Snapshots

		PureSqlxDB() *sqlx.DB

		Migrate(context.Context) error
		Refresh(context.Context, []model.Table) error

		Close()
	}
)
