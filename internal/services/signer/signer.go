// Package signer - canonical query string + request signature tokens.
//
// The two token algorithms are the platform's undisclosed scheme; each one is
// a pure function of (query, body, user agent, timestamp) behind the
// TokenStrategy interface, so a re-derived implementation can be swapped in
// without touching the listing client or the sync engine.
package signer

import (
	"crypto/md5"   // nolint gosec // dictated by the external scheme, not used for security here
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/ecomlab/seller_insights/internal/logger"
	"github.com/ecomlab/seller_insights/internal/logger/field"
)

// PlaceholderToken - last-known-good token accepted by the platform; used
// when a strategy fails. Token computation failures are non-fatal.
const PlaceholderToken = "DFSzswVYvnCcU63rCF2OhxhGbwjm"

// gnarlyVersion - fixed secondary version constant fed into the X-Gnarly derivation.
const gnarlyVersion = "5.1.1"

// TokenStrategy - pure derivation of one signature token.
// Same inputs must always yield the same token.
type TokenStrategy interface {
	Name() string
	Token(query, body, userAgent string, timestamp int64) (string, error)
}

type (
	// BogusStrategy - X-Bogus derivation: md5 over the concatenated request
	// material, first 28 hex chars uppercased.
	BogusStrategy struct{}

	// GnarlyStrategy - X-Gnarly derivation: sha256 over the request material
	// plus env type and the fixed version constant, url-safe base64 encoded.
	// The timestamp slot is pinned to zero by the wire protocol.
	GnarlyStrategy struct {
		EnvType int
	}
)

// Name - token parameter name.
func (BogusStrategy) Name() string { return "X-Bogus" }

// Token - derive X-Bogus.
func (BogusStrategy) Token(query, body, userAgent string, timestamp int64) (string, error) {
	sum := md5.Sum([]byte(query + body + userAgent + strconv.FormatInt(timestamp, 10))) // nolint gosec

	return strings.ToUpper(hex.EncodeToString(sum[:])[:28]), nil
}

// Name - token parameter name.
func (GnarlyStrategy) Name() string { return "X-Gnarly" }

// Token - derive X-Gnarly. The wire timestamp is ignored: the platform calls
// this variant with a zero timestamp and the version constant instead.
func (g GnarlyStrategy) Token(query, body, userAgent string, _ int64) (string, error) {
	sum := sha256.Sum256([]byte(query + body + userAgent + strconv.Itoa(g.EnvType) + gnarlyVersion))

	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

type (
	// SignedRequest - result of signing one request.
	SignedRequest struct {
		SignedURL   string
		UnsignedURL string
		Query       string
		Bogus       string
		Gnarly      string
	}

	// Signer - appends the two signature tokens to a canonicalized URL.
	Signer struct {
		log    *logger.Logger
		bogus  TokenStrategy
		gnarly TokenStrategy
	}
)

// New - signer with the default strategies.
func New(log *logger.Logger) *Signer {
	return &Signer{
		log:    log,
		bogus:  BogusStrategy{},
		gnarly: GnarlyStrategy{EnvType: 0},
	}
}

// NewWithStrategies - signer with swapped-in token strategies.
func NewWithStrategies(log *logger.Logger, bogus, gnarly TokenStrategy) *Signer {
	return &Signer{log: log, bogus: bogus, gnarly: gnarly}
}

// SignURL - canonicalize pairs, derive both tokens and append them to the URL.
// A failed token derivation degrades to the placeholder value and is logged,
// never aborts the request.
func (s *Signer) SignURL(
	rawURL string,
	pairs []Pair,
	preserve PreserveSet,
	body string,
	userAgent string,
	timestamp int64,
) SignedRequest {
	query := Canonicalize(pairs, preserve)
	unsignedURL := rawURL + "?" + query

	bogus := s.tokenOrPlaceholder(s.bogus, query, body, userAgent, timestamp)
	gnarly := s.tokenOrPlaceholder(s.gnarly, query, body, userAgent, timestamp)

	return SignedRequest{
		SignedURL:   unsignedURL + "&" + s.bogus.Name() + "=" + bogus + "&" + s.gnarly.Name() + "=" + gnarly,
		UnsignedURL: unsignedURL,
		Query:       query,
		Bogus:       bogus,
		Gnarly:      gnarly,
	}
}

func (s *Signer) tokenOrPlaceholder(
	strategy TokenStrategy, query, body, userAgent string, timestamp int64,
) string {
	token, err := strategy.Token(query, body, userAgent, timestamp)
	if err != nil {
		s.log.Warn("token generation failed, using placeholder",
			field.String("token", strategy.Name()), field.Error(err))

		return PlaceholderToken
	}

	return token
}
