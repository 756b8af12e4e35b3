package service

import (
	"errors"
	"net"
	"strings"
)

var retryablePatterns = []string{
	"timeout",
	"connection reset",
	"connection refused",
	"temporary failure",
	"rate limit",
	"too many requests",
	"service unavailable",
	"internal server error",
	"bad gateway",
	"gateway timeout",
}

// IsRetryableDNSError reports whether a registrar read failed for a reason
// that may go away on its own.
func IsRetryableDNSError(err error) bool {
	if err == nil {
		return false
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if IsRetryableDNSError(e) {
				return true
			}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
