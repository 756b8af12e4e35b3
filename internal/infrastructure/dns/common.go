package dns

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTTL parses a ttl as sent by the registrar. Empty and negative values
// are rejected.
func ParseTTL(ttlStr string) (int, error) {
	ttl, err := strconv.Atoi(strings.TrimSpace(ttlStr))
	if err != nil {
		return 0, fmt.Errorf("invalid TTL: %q", ttlStr)
	}
	if ttl < 0 {
		return 0, fmt.Errorf("invalid TTL: %d", ttl)
	}
	return ttl, nil
}
