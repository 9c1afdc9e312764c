package listing

import (
	"time"

	"github.com/ecomlab/seller_insights/internal/services/signer"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

const (
	listPath = "/api/v2/insights/seller/ttp/product/list/v2"

	appID   = "4068"
	appName = "i18n_ecom_shop"
)

// sortDescending - platform code for descending sort direction.
const sortDescending = 2

type (
	// listPayload - json body of the product list request. Field order is part
	// of the signing input through the serialized body, keep it stable.
	listPayload struct {
		Request listRequest `json:"request"`
	}

	listRequest struct {
		TimeDescriptor   timeDescriptor `json:"time_descriptor"`
		CcrAvailableDate string         `json:"ccr_available_date"`
		Search           searchBlock    `json:"search"`
		Filter           struct{}       `json:"filter"`
		ListControl      listControl    `json:"list_control"`
	}

	timeDescriptor struct {
		Start          string `json:"start"`
		End            string `json:"end"`
		TimezoneOffset int    `json:"timezone_offset"`
	}

	searchBlock struct {
		VocStatuses []string `json:"voc_statuses"`
		GmvRanges   []string `json:"gmv_ranges"`
	}

	listControl struct {
		Rules      []sortRule `json:"rules"`
		Pagination pagination `json:"pagination"`
	}

	sortRule struct {
		Direction int    `json:"direction"`
		Field     string `json:"field"`
	}

	pagination struct {
		Size int `json:"size"`
		Page int `json:"page"`
	}
)

func newListPayload(shop model.Shop, startDate, endDate time.Time, pageNo, pageSize int) listPayload {
	return listPayload{
		Request: listRequest{
			TimeDescriptor: timeDescriptor{
				Start:          startDate.Format(dateLayout),
				End:            endDate.Format(dateLayout),
				TimezoneOffset: shop.TimezoneOffset,
			},
			CcrAvailableDate: time.Now().UTC().Format(dateLayout),
			Search: searchBlock{
				VocStatuses: []string{},
				GmvRanges:   []string{},
			},
			ListControl: listControl{
				Rules:      []sortRule{{Direction: sortDescending, Field: "gmv"}},
				Pagination: pagination{Size: pageSize, Page: pageNo},
			},
		},
	}
}

// queryPairs - the fixed ordered parameter set of the listing endpoint.
func queryPairs(shop model.Shop) []signer.Pair {
	return []signer.Pair{
		{Key: "locale", Value: "en"},
		{Key: "language", Value: "en"},
		{Key: "oec_seller_id", Value: shop.OecSellerID},
		{Key: "aid", Value: appID},
		{Key: "app_name", Value: appName},
		{Key: "fp", Value: shop.Fp},
		{Key: "device_platform", Value: "web"},
		{Key: "cookie_enabled", Value: true},
		{Key: "screen_width", Value: screenWidth},
		{Key: "screen_height", Value: screenHeight},
		{Key: "browser_language", Value: browserLanguage},
		{Key: "browser_platform", Value: browserPlatform},
		{Key: "browser_name", Value: browserName},
		{Key: "browser_version", Value: browserVersion},
		{Key: "browser_online", Value: true},
		{Key: "timezone_name", Value: timezoneName},
		{Key: "use_content_type_definition", Value: 1},
	}
}
