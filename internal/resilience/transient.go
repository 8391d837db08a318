package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// transientMessages match driver errors that do not wrap a typed cause.
var transientMessages = []string{
	"connection refused",
	"connection reset",
	"the database system is starting up",
	"too many clients",
	"i/o timeout",
}

// IsTransient reports whether err is worth retrying: network timeouts,
// refused or reset connections, and errors pgx marks safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
