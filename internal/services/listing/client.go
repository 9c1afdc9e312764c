// Package listing - client of the seller platform's paginated product
// insights endpoint. Stateless per invocation: one call is one signed HTTPS
// request for one (date, page) slice.
package listing

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/ecomlab/seller_insights/internal/logger"
	"github.com/ecomlab/seller_insights/internal/services/extract"
	"github.com/ecomlab/seller_insights/internal/services/signer"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

const dateLayout = "2006-01-02"

type (
	// Config - listing client config.
	Config struct {
		Timeout string `yaml:"timeout"`
	}

	// Page - normalized result of one (date, page) slice, unifying both
	// historically-observed response envelopes behind one pagination contract.
	Page struct {
		Items    []extract.Item
		HasMore  bool
		NextPage int
	}

	// Client - one-shot fetch of a single listing page.
	Client interface {
		FetchPage(ctx context.Context, shop model.Shop,
			startDate, endDate time.Time, pageNo, pageSize int) (Page, error)
	}

	client struct {
		log    *logger.Logger
		rest   *resty.Client
		signer *signer.Signer
	}
)

// New - create listing client.
func New(cfg Config, log *logger.Logger, sg *signer.Signer) (Client, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("parse services.listing.config.Timeout: %w", err)
	}

	return &client{
		log:    log,
		rest:   resty.New().SetTimeout(timeout),
		signer: sg,
	}, nil
}

// rawEnvelope - union of the legacy (status_code/product_list/pagination) and
// the newer (code/items/next_pagination) response shapes.
type rawEnvelope struct {
	StatusCode *int   `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
	Code       *int   `json:"code"`
	Message    string `json:"message"`

	Data struct {
		ProductList []extract.Item `json:"product_list"`
		Items       []extract.Item `json:"items"`

		ListControl struct {
			Pagination struct {
				TotalPage *int `json:"total_page"`
			} `json:"pagination"`
		} `json:"list_control"`

		NextPagination struct {
			HasMore  *bool `json:"has_more"`
			NextPage *int  `json:"next_page"`
		} `json:"next_pagination"`
	} `json:"data"`
}

// FetchPage - sign and issue the listing request, normalize the response.
func (c *client) FetchPage(
	ctx context.Context,
	shop model.Shop,
	startDate, endDate time.Time,
	pageNo, pageSize int,
) (Page, error) {
	payload := newListPayload(shop, startDate, endDate, pageNo, pageSize)

	body, err := jsoniter.MarshalToString(payload)
	if err != nil {
		return Page{}, fmt.Errorf("marshal listing payload: %w", err)
	}

	signed := c.signer.SignURL(
		shop.BaseURL+listPath,
		queryPairs(shop),
		signer.NewPreserveSet("msToken"),
		body,
		browserUserAgent,
		time.Now().Unix(),
	)

	referer := fmt.Sprintf("%s/compass/product-analysis?shop_region=%s&timeRange=%s%%7C%s",
		shop.BaseURL, shop.Region, startDate.Format(dateLayout), endDate.Format(dateLayout))

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"accept":             "*/*",
			"accept-language":    "en-US,en;q=0.9",
			"cache-control":      "no-cache",
			"content-type":       "application/json",
			"origin":             shop.BaseURL,
			"pragma":             "no-cache",
			"priority":           "u=1, i",
			"referer":            referer,
			"sec-ch-ua":          browserSecUA,
			"sec-ch-ua-mobile":   "?0",
			"sec-ch-ua-platform": `"macOS"`,
			"sec-fetch-dest":     "empty",
			"sec-fetch-mode":     "cors",
			"sec-fetch-site":     "same-origin",
			"user-agent":         browserUserAgent,
			"cookie":             shop.Cookie,
		}).
		SetBody(body).
		Post(signed.SignedURL)
	if err != nil {
		return Page{}, &RequestError{
			Kind:   KindNetwork,
			URL:    signed.UnsignedURL,
			Method: http.MethodPost,
			Err:    err,
		}
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return Page{}, &RequestError{
			Kind:         KindStatus,
			URL:          signed.UnsignedURL,
			Method:       http.MethodPost,
			StatusCode:   resp.StatusCode(),
			BodyFragment: fragment(resp.Body()),
		}
	}

	var envelope rawEnvelope
	if err = jsoniter.Unmarshal(resp.Body(), &envelope); err != nil {
		return Page{}, &RequestError{
			Kind:         KindDecode,
			URL:          signed.UnsignedURL,
			Method:       http.MethodPost,
			StatusCode:   resp.StatusCode(),
			BodyFragment: fragment(resp.Body()),
			Err:          err,
		}
	}

	return c.normalize(envelope, signed.UnsignedURL, pageNo)
}

// normalize - apply the dual success convention and unify pagination cursors.
func (c *client) normalize(envelope rawEnvelope, url string, pageNo int) (Page, error) {
	items := envelope.Data.ProductList
	if items == nil {
		items = envelope.Data.Items
	}

	if !isSuccess(envelope, items) {
		return Page{}, &RequestError{
			Kind:        KindUpstream,
			URL:         url,
			Method:      http.MethodPost,
			StatusCode:  upstreamCode(envelope),
			UpstreamMsg: upstreamMsg(envelope),
		}
	}

	page := Page{Items: items, NextPage: pageNo + 1}

	switch {
	case envelope.Data.NextPagination.HasMore != nil:
		page.HasMore = *envelope.Data.NextPagination.HasMore
		if envelope.Data.NextPagination.NextPage != nil {
			page.NextPage = *envelope.Data.NextPagination.NextPage
		}
	case envelope.Data.ListControl.Pagination.TotalPage != nil:
		page.HasMore = pageNo < *envelope.Data.ListControl.Pagination.TotalPage-1
	default:
		// no cursor at all, let the caller stop on the first empty page
		page.HasMore = len(items) > 0
	}

	return page, nil
}

// isSuccess - the platform signals success by an explicit zero status code in
// either envelope, or just by the presence of an items list.
func isSuccess(envelope rawEnvelope, items []extract.Item) bool {
	if envelope.StatusCode != nil && *envelope.StatusCode == 0 {
		return true
	}

	if envelope.Code != nil && *envelope.Code == 0 {
		return true
	}

	return items != nil
}

func upstreamCode(envelope rawEnvelope) int {
	if envelope.StatusCode != nil {
		return *envelope.StatusCode
	}

	if envelope.Code != nil {
		return *envelope.Code
	}

	return -1
}

func upstreamMsg(envelope rawEnvelope) string {
	if envelope.StatusMsg != "" {
		return envelope.StatusMsg
	}

	return envelope.Message
}
