// Package wifi brings the station radio up before each fetch and classifies
// why it did not come up.
package wifi

import (
	"context"
	"fmt"
)

// Status mirrors the classic station status codes.
type Status int

const (
	Idle           Status = 0
	NoSSIDAvail    Status = 1
	ScanCompleted  Status = 2
	Connected      Status = 3
	ConnectFailed  Status = 4
	ConnectionLost Status = 5
	WrongPassword  Status = 6
	Disconnected   Status = 7
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case NoSSIDAvail:
		return "no_ssid_avail"
	case ScanCompleted:
		return "scan_completed"
	case Connected:
		return "connected"
	case ConnectFailed:
		return "connect_failed"
	case ConnectionLost:
		return "connection_lost"
	case WrongPassword:
		return "wrong_password"
	case Disconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Radio is the station interface the manager drives. Begin starts an
// association and returns without waiting for it.
type Radio interface {
	Wake(ctx context.Context) error
	Sleep(ctx context.Context) error
	Reset(ctx context.Context) error
	Begin(ctx context.Context, ssid, secret string) error
	Status(ctx context.Context) (Status, error)
}

type FailureKind int

const (
	UnknownStatus FailureKind = iota
	NetworkNotFound
	AuthenticationRejected
	TransientDisconnect
)

func (k FailureKind) String() string {
	switch k {
	case NetworkNotFound:
		return "network_not_found"
	case AuthenticationRejected:
		return "authentication_rejected"
	case TransientDisconnect:
		return "transient_disconnect"
	default:
		return "unknown_status"
	}
}

// Retriable is false for failures that need a configuration change.
func (k FailureKind) Retriable() bool {
	return k != NetworkNotFound && k != AuthenticationRejected
}

func Classify(s Status) FailureKind {
	switch s {
	case NoSSIDAvail:
		return NetworkNotFound
	case WrongPassword:
		return AuthenticationRejected
	case Disconnected, ConnectFailed, ConnectionLost:
		return TransientDisconnect
	default:
		return UnknownStatus
	}
}

type ConnectError struct {
	Kind     FailureKind
	Status   Status
	Attempts int
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("wifi: %s after %d attempts (last status %s)", e.Kind, e.Attempts, e.Status)
}

func (e *ConnectError) Retriable() bool { return e.Kind.Retriable() }
