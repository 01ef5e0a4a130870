// internal/app/live/errors.go
package live

import "fmt"

// RemoteReadError reports a subscription setup or stream failure. It is
// surfaced as an indefinite loading state; nothing in this layer retries
// automatically.
type RemoteReadError struct {
	Op  string
	Err error
}

func (e *RemoteReadError) Error() string { return fmt.Sprintf("remote read: %s: %v", e.Op, e.Err) }
func (e *RemoteReadError) Unwrap() error { return e.Err }

// RemoteWriteError reports a failed persist. The caller decides what to do;
// the editing session logs it and keeps the local buffer so nothing typed
// is lost.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string { return fmt.Sprintf("remote write: %s: %v", e.Op, e.Err) }
func (e *RemoteWriteError) Unwrap() error { return e.Err }

// AuthError reports a login/logout failure. It is logged and the session
// remains in its prior state.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("auth: %s: %v", e.Op, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }
