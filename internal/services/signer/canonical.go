package signer

import (
	"fmt"
	"strconv"
	"strings"
)

// Pair - one query parameter. Pair order is significant: the canonical string
// is signature input and must be byte-exact reproducible, so pairs are never
// reordered.
type Pair struct {
	Key   string
	Value any // nil pairs are skipped
}

// PreserveSet - keys whose value's trailing '=' runs must stay literal
// (padded base64-like tokens, e.g. msToken).
type PreserveSet map[string]struct{}

// NewPreserveSet - preserve set from key names.
func NewPreserveSet(keys ...string) PreserveSet {
	s := make(PreserveSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}

	return s
}

// Canonicalize - build the canonical query string from ordered pairs.
// Encoding matches the platform's JS encodeURIComponent, with percent-encoded
// hex digits uppercased.
func Canonicalize(pairs []Pair, preserve PreserveSet) string {
	parts := make([]string, 0, len(pairs))

	for _, p := range pairs {
		if p.Value == nil {
			continue
		}

		_, keepEquals := preserve[p.Key]
		parts = append(parts, encode(p.Key, false)+"="+encode(formatValue(p.Value), keepEquals))
	}

	return strings.Join(parts, "&")
}

// formatValue - JS String() semantics for the value types the request builder emits.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// encode - percent-encode one key or value. When keepEquals is set, a trailing
// run of '=' is stripped before encoding and reattached literally after.
func encode(s string, keepEquals bool) string {
	trailing := ""

	if keepEquals {
		i := len(s)
		for i > 0 && s[i-1] == '=' {
			i--
		}

		trailing = s[i:]
		s = s[:i]
	}

	var b strings.Builder
	b.Grow(len(s))

	for _, c := range []byte(s) {
		if isUnreserved(c) {
			b.WriteByte(c)

			continue
		}

		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0xf])
	}

	return b.String() + trailing
}

const upperHex = "0123456789ABCDEF"

// isUnreserved - the exact set encodeURIComponent leaves untouched.
func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}

	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}

	return false
}
