package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults for operator-created shops (US region seller center).
const (
	DefaultBaseURL        = "https://seller-us.tiktok.com"
	DefaultTimezoneOffset = -28800
	DefaultRegion         = "US"
)

// ProductStatus - lifecycle status of a product on the seller platform.
type ProductStatus = string

const (
	StatusLive    ProductStatus = "live"
	StatusHidden  ProductStatus = "hidden"
	StatusUnknown ProductStatus = "unknown"
)

type (
	// Identity - identity
	Identity = int64

	// Table in DB
	Table = string

	// Shop - dto for connected seller account. Created by operator, read-only for sync.
	Shop struct {
		ID             Identity  `db:"id" json:"id"`
		Name           string    `db:"name" json:"name"`
		Cookie         string    `db:"cookie" json:"-"`
		OecSellerID    string    `db:"oec_seller_id" json:"oec_seller_id"`
		BaseURL        string    `db:"base_url" json:"base_url"`
		Fp             string    `db:"fp" json:"-"`
		TimezoneOffset int       `db:"timezone_offset" json:"timezone_offset"`
		Region         string    `db:"region" json:"region"`
		CreatedAt      time.Time `db:"created_at" json:"created_at"`
		UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
	}

	// Product - dto for one product sighted on the platform.
	// Unique per (shop_id, external_id), mutable fields overwritten on every sighting.
	Product struct {
		ID         Identity      `db:"id" json:"id"`
		ShopID     Identity      `db:"shop_id" json:"shop_id"`
		ExternalID string        `db:"external_id" json:"external_id"`
		Title      string        `db:"title" json:"title"`
		ImageURL   string        `db:"image_url" json:"image_url"`
		Status     ProductStatus `db:"status" json:"status"`
		Stock      int64         `db:"stock" json:"stock"`
		RawData    string        `db:"raw_data" json:"-"`
		CreatedAt  time.Time     `db:"created_at" json:"created_at"`
		UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
	}

	// Snapshot - dto for one product's metrics for one calendar day.
	// Unique per (product_id, snapshot_date); shop_id denormalized for range scans.
	// Values are that day's totals, not cumulative ones.
	Snapshot struct {
		ID           Identity        `db:"id" json:"id"`
		ProductID    Identity        `db:"product_id" json:"product_id"`
		ShopID       Identity        `db:"shop_id" json:"shop_id"`
		SnapshotDate time.Time       `db:"snapshot_date" json:"snapshot_date"`
		Gmv          decimal.Decimal `db:"gmv" json:"gmv"`
		ItemsSold    int64           `db:"items_sold" json:"items_sold"`
		OrdersCount  int64           `db:"orders_count" json:"orders_count"`
		RawData      string          `db:"raw_data" json:"-"`
		CreatedAt    time.Time       `db:"created_at" json:"created_at"`
		UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	}

	// ProductAggregate - one row of analytics output: product identity fields plus
	// metrics summed over the requested date range.
	ProductAggregate struct {
		ExternalID  string          `db:"external_id" json:"external_id"`
		Title       string          `db:"title" json:"title"`
		Status      ProductStatus   `db:"status" json:"status"`
		ImageURL    string          `db:"image_url" json:"image_url"`
		Gmv         decimal.Decimal `db:"gmv" json:"gmv"`
		ItemsSold   int64           `db:"items_sold" json:"items_sold"`
		OrdersCount int64           `db:"orders_count" json:"orders_count"`
	}
)

// Table names.
const (
	ShopsTable     Table = "shops"
	ProductsTable  Table = "products"
	SnapshotsTable Table = "snapshots"
)

// AllTables - ordered parent-first, FKs cascade on delete.
var AllTables = []Table{ShopsTable, ProductsTable, SnapshotsTable}
