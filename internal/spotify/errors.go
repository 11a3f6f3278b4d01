package spotify

import "fmt"

// Kind classifies a fetch failure so callers can decide whether to abort the
// enclosing flow or skip the offending batch.
type Kind int

const (
	KindTransport Kind = iota
	KindAuth
	KindRateLimit
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate limit"
	case KindNotFound:
		return "not found"
	default:
		return "transport"
	}
}

// Error is a typed failure from the catalog boundary.
type Error struct {
	Op      string
	Status  int
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Kind, e.Status)
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) Kind {
	switch status {
	case 401, 403:
		return KindAuth
	case 404:
		return KindNotFound
	case 429:
		return KindRateLimit
	default:
		return KindTransport
	}
}
