package postgres

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_aggregateQuery(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	query, args, err := aggregateQuery(squirrel.Dollar, 7, start, end, nil)
	require.Nil(t, err)

	assert.Contains(t, query, "SUM(s.gmv) AS gmv")
	assert.Contains(t, query, "FROM snapshots s JOIN products p ON p.id = s.product_id")
	assert.Contains(t, query, "s.shop_id = $1")
	assert.Contains(t, query, "s.snapshot_date BETWEEN $2 AND $3")
	assert.Contains(t, query, "GROUP BY p.id, p.external_id, p.title, p.status, p.image_url")
	assert.NotContains(t, query, "HAVING")
	assert.Equal(t, []any{int64(7), start, end}, args)
}

func Test_aggregateQuery_MinGmvFiltersOnTheSum(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	minGmv := decimal.RequireFromString("30.00")

	query, args, err := aggregateQuery(squirrel.Dollar, 7, start, end, &minGmv)
	require.Nil(t, err)

	assert.Contains(t, query, "HAVING SUM(s.gmv) >= $4")
	require.Len(t, args, 4)
	assert.True(t, args[3].(decimal.Decimal).Equal(minGmv))
}

func Test_schemaDDL_Embedded(t *testing.T) {
	assert.Contains(t, schemaDDL, "CREATE TABLE IF NOT EXISTS snapshots")
	assert.Contains(t, schemaDDL, "UNIQUE (shop_id, external_id)")
	assert.Contains(t, schemaDDL, "UNIQUE (product_id, snapshot_date)")
	assert.Contains(t, schemaDDL, "snapshots_shop_date_idx")
}
