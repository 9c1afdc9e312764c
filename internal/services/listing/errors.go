package listing

import "fmt"

// ErrorKind - classification of a failed page fetch.
type ErrorKind string

const (
	// KindNetwork - transport never delivered a response.
	KindNetwork ErrorKind = "network"
	// KindStatus - non-2xx HTTP response.
	KindStatus ErrorKind = "status"
	// KindDecode - response body is not the expected JSON.
	KindDecode ErrorKind = "decode"
	// KindUpstream - well-formed response carrying a non-zero platform status code.
	KindUpstream ErrorKind = "upstream"
)

const bodyFragmentLimit = 512

// RequestError - structured failure of one (date, page) fetch, with enough
// diagnostic detail to reproduce the call.
type RequestError struct {
	Kind         ErrorKind
	URL          string
	Method       string
	StatusCode   int
	UpstreamMsg  string
	BodyFragment string
	Err          error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindUpstream:
		return fmt.Sprintf("listing: upstream status %d (%s)", e.StatusCode, e.UpstreamMsg)
	case KindStatus:
		return fmt.Sprintf("listing: %s %s: http %d: %s", e.Method, e.URL, e.StatusCode, e.BodyFragment)
	default:
		return fmt.Sprintf("listing: %s: %s %s: %v", e.Kind, e.Method, e.URL, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func fragment(body []byte) string {
	if len(body) > bodyFragmentLimit {
		body = body[:bodyFragmentLimit]
	}

	return string(body)
}
