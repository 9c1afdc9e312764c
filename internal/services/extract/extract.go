// Package extract maps the loosely-typed listing records onto the product and
// snapshot model. The platform has shipped several shapes of the same record
// over time, so every field is resolved through an ordered alias list and
// numeric-looking strings are coerced; nothing here ever panics on a weird
// payload, the only hard requirement is the external product id.
package extract

import (
	"errors"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

// ErrNoExternalID - the record has no usable product identifier and must be skipped.
var ErrNoExternalID = errors.New("record has no external product id")

// Item - one raw listing record as decoded from the response.
type Item = map[string]any

// Alias priority lists, first hit wins. Entries may be dotted paths.
var (
	externalIDAliases = []string{"product_id", "id"}
	titleAliases      = []string{"title", "product_name"}
	imageAliases      = []string{"image_url", "image", "cover"}
	stockAliases      = []string{"stock", "stock_quantity"}
	statusAliases     = []string{"status", "product_status"}

	gmvAliases       = []string{"gmv", "total_gmv", "gmv_amount", "gmv.amount"}
	itemsSoldAliases = []string{"items_sold", "quantity_sold", "sold_quantity"}
	ordersAliases    = []string{"orders_count", "order_count", "orders"}
)

// Record - best-effort typed view over one listing item.
type Record struct {
	ExternalID  string
	Title       string
	ImageURL    string
	Status      model.ProductStatus
	Stock       int64
	Gmv         decimal.Decimal
	ItemsSold   int64
	OrdersCount int64
	Raw         string
}

// FromItem - extract one typed record. Missing metrics default to zero;
// a missing external id is the only rejection.
func FromItem(item Item) (Record, error) {
	externalID := asString(find(item, externalIDAliases))
	if externalID == "" {
		return Record{}, ErrNoExternalID
	}

	raw, _ := jsoniter.MarshalToString(item)

	return Record{
		ExternalID:  externalID,
		Title:       asString(find(item, titleAliases)),
		ImageURL:    asString(find(item, imageAliases)),
		Status:      statusOf(find(item, statusAliases)),
		Stock:       asInt(find(item, stockAliases)),
		Gmv:         asDecimal(find(item, gmvAliases)),
		ItemsSold:   asInt(find(item, itemsSoldAliases)),
		OrdersCount: asInt(find(item, ordersAliases)),
		Raw:         raw,
	}, nil
}

// find - first present alias wins; "a.b" descends into nested objects.
// An object value is not terminal: it is skipped so that a later dotted
// alias can resolve inside it.
func find(item Item, aliases []string) any {
	for _, alias := range aliases {
		v, ok := lookup(item, alias)
		if !ok {
			continue
		}

		if _, isObject := v.(map[string]any); isObject {
			continue
		}

		return v
	}

	return nil
}

func lookup(item Item, path string) (any, bool) {
	cur := any(item)

	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

// statusOf - map the platform status code onto the local enumeration.
// Observed values: numeric 1 (live) / 2 (hidden), sometimes as strings,
// newer payloads carry the words themselves.
func statusOf(v any) model.ProductStatus {
	switch strings.ToLower(strings.TrimSpace(asString(v))) {
	case "1", "live":
		return model.StatusLive
	case "2", "hidden":
		return model.StatusHidden
	default:
		return model.StatusUnknown
	}
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return decimal.NewFromFloat(val).String()
	case bool:
		return ""
	default:
		return ""
	}
}

// asDecimal - numeric value, or a numeric-looking string stripped down to
// digits, sign and decimal point. Unparseable input yields zero, never an error.
func asDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(stripNonNumeric(val, true))
		if err != nil {
			return decimal.Zero
		}

		return d
	default:
		return decimal.Zero
	}
}

// asInt - like asDecimal but truncated to an integer.
func asInt(v any) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case string:
		d, err := decimal.NewFromString(stripNonNumeric(val, false))
		if err != nil {
			return 0
		}

		return d.IntPart()
	default:
		return 0
	}
}

// stripNonNumeric - drop currency symbols, separators and whatever else the
// platform wraps numbers in ("$1,234.56" -> "1234.56").
func stripNonNumeric(s string, keepPoint bool) string {
	var b strings.Builder

	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c == '-':
			b.WriteRune(c)
		case c == '.' && keepPoint:
			b.WriteRune(c)
		}
	}

	return b.String()
}
