package signer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Canonicalize_Deterministic(t *testing.T) {
	pairs := []Pair{
		{"locale", "en"},
		{"oec_seller_id", "7495123"},
		{"cookie_enabled", true},
		{"screen_width", 1512},
	}

	first := Canonicalize(pairs, nil)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Canonicalize(pairs, nil))
	}

	assert.Equal(t, "locale=en&oec_seller_id=7495123&cookie_enabled=true&screen_width=1512", first)
}

func Test_Canonicalize_OrderIsPreserved(t *testing.T) {
	assert.Equal(t, "b=2&a=1", Canonicalize([]Pair{{"b", 2}, {"a", 1}}, nil))
	assert.Equal(t, "a=1&b=2", Canonicalize([]Pair{{"a", 1}, {"b", 2}}, nil))
}

func Test_Canonicalize_NilValuesSkipped(t *testing.T) {
	assert.Equal(t, "a=1&c=3", Canonicalize([]Pair{{"a", 1}, {"b", nil}, {"c", 3}}, nil))
}

func Test_Canonicalize_PercentEncoding(t *testing.T) {
	// reserved chars escaped with uppercase hex
	assert.Equal(t, "q=a%2Fb%20c", Canonicalize([]Pair{{"q", "a/b c"}}, nil))

	// encodeURIComponent unreserved set stays literal
	assert.Equal(t, "q=-_.!~*'()", Canonicalize([]Pair{{"q", "-_.!~*'()"}}, nil))

	// non-ASCII escaped per-UTF-8-byte
	assert.Equal(t, "q=%C3%A9", Canonicalize([]Pair{{"q", "é"}}, nil))
}

func Test_Canonicalize_PreserveTrailingEquals(t *testing.T) {
	preserve := NewPreserveSet("msToken")

	// trailing '=' run stays literal only for preserve-set keys
	assert.Equal(t, "msToken=abc==", Canonicalize([]Pair{{"msToken", "abc=="}}, preserve))
	assert.Equal(t, "other=abc%3D%3D", Canonicalize([]Pair{{"other", "abc=="}}, preserve))

	// inner '=' still escaped even for preserve-set keys
	assert.Equal(t, "msToken=a%3Db=", Canonicalize([]Pair{{"msToken", "a=b="}}, preserve))
}

func Test_FormatValue(t *testing.T) {
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "42", formatValue(42))
	assert.Equal(t, "42", formatValue(int64(42)))
	assert.Equal(t, "4.2", formatValue(4.2))
	assert.Equal(t, "str", formatValue("str"))
}
