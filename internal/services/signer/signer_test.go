package signer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecomlab/seller_insights/internal/logger"
)

const testUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

func Test_Strategies_Purity(t *testing.T) {
	for _, strategy := range []TokenStrategy{BogusStrategy{}, GnarlyStrategy{EnvType: 0}} {
		first, err := strategy.Token("a=1&b=2", `{"x":1}`, testUA, 1700000000)
		assert.Nil(t, err)
		assert.NotEmpty(t, first)

		for i := 0; i < 50; i++ {
			token, err := strategy.Token("a=1&b=2", `{"x":1}`, testUA, 1700000000)
			assert.Nil(t, err)
			assert.Equal(t, first, token)
		}
	}
}

func Test_Strategies_InputSensitivity(t *testing.T) {
	base, _ := BogusStrategy{}.Token("a=1", "body", testUA, 1700000000)

	changedQuery, _ := BogusStrategy{}.Token("a=2", "body", testUA, 1700000000)
	changedBody, _ := BogusStrategy{}.Token("a=1", "body2", testUA, 1700000000)
	changedUA, _ := BogusStrategy{}.Token("a=1", "body", testUA+"x", 1700000000)
	changedTS, _ := BogusStrategy{}.Token("a=1", "body", testUA, 1700000001)

	assert.NotEqual(t, base, changedQuery)
	assert.NotEqual(t, base, changedBody)
	assert.NotEqual(t, base, changedUA)
	assert.NotEqual(t, base, changedTS)
}

func Test_BogusStrategy_Shape(t *testing.T) {
	token, err := BogusStrategy{}.Token("q", "b", testUA, 1)
	assert.Nil(t, err)
	assert.Len(t, token, 28)
	assert.Equal(t, strings.ToUpper(token), token)
}

func Test_SignURL(t *testing.T) {
	s := New(logger.NewNop())

	signed := s.SignURL(
		"https://seller-us.tiktok.com/api/v2/insights/seller/ttp/product/list/v2",
		[]Pair{{"locale", "en"}, {"aid", "4068"}},
		nil,
		`{"request":{}}`,
		testUA,
		1700000000,
	)

	assert.Equal(t, "locale=en&aid=4068", signed.Query)
	assert.True(t, strings.HasPrefix(signed.SignedURL, signed.UnsignedURL+"&X-Bogus="))
	assert.Contains(t, signed.SignedURL, "&X-Gnarly="+signed.Gnarly)

	// signing is pure: same inputs, same url
	again := s.SignURL(
		"https://seller-us.tiktok.com/api/v2/insights/seller/ttp/product/list/v2",
		[]Pair{{"locale", "en"}, {"aid", "4068"}},
		nil,
		`{"request":{}}`,
		testUA,
		1700000000,
	)
	assert.Equal(t, signed, again)
}

type failingStrategy struct{ name string }

func (f failingStrategy) Name() string { return f.name }
func (f failingStrategy) Token(_, _, _ string, _ int64) (string, error) {
	return "", errors.New("boom")
}

func Test_SignURL_PlaceholderFallback(t *testing.T) {
	s := NewWithStrategies(logger.NewNop(), failingStrategy{"X-Bogus"}, GnarlyStrategy{})

	signed := s.SignURL("https://example.com/x", []Pair{{"a", 1}}, nil, "", testUA, 0)

	// failed token degrades to placeholder, request still signed
	assert.Equal(t, PlaceholderToken, signed.Bogus)
	assert.NotEqual(t, PlaceholderToken, signed.Gnarly)
	assert.Contains(t, signed.SignedURL, "X-Bogus="+PlaceholderToken)
}
