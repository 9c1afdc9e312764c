package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomlab/seller_insights/internal/logger"
	"github.com/ecomlab/seller_insights/internal/services/signer"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

func newTestClient(t *testing.T) Client {
	t.Helper()

	c, err := New(Config{Timeout: "5s"}, logger.NewNop(), signer.New(logger.NewNop()))
	require.Nil(t, err)

	return c
}

func testShop(baseURL string) model.Shop {
	return model.Shop{
		ID:             1,
		Cookie:         "sessionid=abc",
		OecSellerID:    "7495123",
		BaseURL:        baseURL,
		Fp:             "verify_fp_token",
		TimezoneOffset: model.DefaultTimezoneOffset,
		Region:         model.DefaultRegion,
	}
}

func day(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse("2006-01-02", s)
	require.Nil(t, err)

	return d
}

func Test_FetchPage_LegacyEnvelope(t *testing.T) {
	var gotURL, gotCookie string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		gotCookie = r.Header.Get("cookie")

		_, _ = w.Write([]byte(`{
			"status_code": 0,
			"data": {
				"product_list": [{"product_id": "1"}, {"product_id": "2"}],
				"list_control": {"pagination": {"total_page": 3}}
			}
		}`))
	}))
	defer ts.Close()

	page, err := newTestClient(t).FetchPage(
		context.Background(), testShop(ts.URL), day(t, "2024-05-01"), day(t, "2024-05-02"), 0, 50)

	assert.Nil(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, 1, page.NextPage)

	assert.Equal(t, "sessionid=abc", gotCookie)
	assert.True(t, strings.HasPrefix(gotURL, "/api/v2/insights/seller/ttp/product/list/v2?locale=en&language=en&oec_seller_id=7495123&aid=4068"), gotURL)
	assert.Contains(t, gotURL, "&X-Bogus=")
	assert.Contains(t, gotURL, "&X-Gnarly=")
}

func Test_FetchPage_LegacyEnvelope_LastPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"status_code": 0,
			"data": {
				"product_list": [{"product_id": "9"}],
				"list_control": {"pagination": {"total_page": 3}}
			}
		}`))
	}))
	defer ts.Close()

	page, err := newTestClient(t).FetchPage(
		context.Background(), testShop(ts.URL), day(t, "2024-05-01"), day(t, "2024-05-02"), 2, 50)

	assert.Nil(t, err)
	assert.False(t, page.HasMore)
}

func Test_FetchPage_NewEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"code": 0,
			"data": {
				"items": [{"product_id": "1"}],
				"next_pagination": {"has_more": true, "next_page": 4}
			}
		}`))
	}))
	defer ts.Close()

	page, err := newTestClient(t).FetchPage(
		context.Background(), testShop(ts.URL), day(t, "2024-05-01"), day(t, "2024-05-02"), 3, 50)

	assert.Nil(t, err)
	assert.Len(t, page.Items, 1)
	assert.True(t, page.HasMore)
	assert.Equal(t, 4, page.NextPage)
}

func Test_FetchPage_ItemsPresenceMeansSuccess(t *testing.T) {
	// neither status_code nor code, items list alone is the success signal
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"items": []}}`))
	}))
	defer ts.Close()

	page, err := newTestClient(t).FetchPage(
		context.Background(), testShop(ts.URL), day(t, "2024-05-01"), day(t, "2024-05-02"), 0, 50)

	assert.Nil(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func Test_FetchPage_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status_code": 10001, "status_msg": "session expired"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(t).FetchPage(
		context.Background(), testShop(ts.URL), day(t, "2024-05-01"), day(t, "2024-05-02"), 0, 50)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, KindUpstream, reqErr.Kind)
	assert.Equal(t, 10001, reqErr.StatusCode)
	assert.Contains(t, reqErr.Error(), "session expired")
}

func Test_FetchPage_HTTPStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("blocked"))
	}))
	defer ts.Close()

	_, err := newTestClient(t).FetchPage(
		context.Background(), testShop(ts.URL), day(t, "2024-05-01"), day(t, "2024-05-02"), 0, 50)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, KindStatus, reqErr.Kind)
	assert.Equal(t, http.StatusForbidden, reqErr.StatusCode)
	assert.Equal(t, "blocked", reqErr.BodyFragment)
	assert.Equal(t, http.MethodPost, reqErr.Method)
}

func Test_FetchPage_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	_, err := newTestClient(t).FetchPage(
		context.Background(), testShop(ts.URL), day(t, "2024-05-01"), day(t, "2024-05-02"), 0, 50)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, KindDecode, reqErr.Kind)
}

func Test_FetchPage_NetworkError(t *testing.T) {
	shop := testShop("http://127.0.0.1:1") // nothing listens there

	_, err := newTestClient(t).FetchPage(
		context.Background(), shop, day(t, "2024-05-01"), day(t, "2024-05-02"), 0, 50)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, KindNetwork, reqErr.Kind)
}
