package weather

import "fmt"

type FailureKind int

const (
	// TransportFailure means no HTTP response was received.
	TransportFailure FailureKind = iota
	// HTTPFailure means the server answered with a non-200 status.
	HTTPFailure
	// ParseFailure means the body was not a complete current-conditions
	// document.
	ParseFailure
)

func (k FailureKind) String() string {
	switch k {
	case TransportFailure:
		return "transport"
	case HTTPFailure:
		return "http"
	case ParseFailure:
		return "parse"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type FetchError struct {
	Kind FailureKind
	// Status is the HTTP status line text, e.g. "503 Service Unavailable".
	// Only set for HTTPFailure.
	Status string
	Code   int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case HTTPFailure:
		return fmt.Sprintf("weather fetch: http status %s", e.Status)
	default:
		return fmt.Sprintf("weather fetch: %s: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }
