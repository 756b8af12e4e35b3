package entity

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/lite-lake/namesilo-ddns/internal/domain"
)

type DNSRecordType string

const (
	DNSRecordTypeA    DNSRecordType = "A"
	DNSRecordTypeAAAA DNSRecordType = "AAAA"
)

func (t DNSRecordType) String() string { return string(t) }

// Family returns "ipv4" or "ipv6" for address record types and "" otherwise.
func (t DNSRecordType) Family() string {
	switch t {
	case DNSRecordTypeA:
		return "ipv4"
	case DNSRecordTypeAAAA:
		return "ipv6"
	default:
		return ""
	}
}

// DNSRecord is a registrar-owned record. Host is relative to the domain; the
// apex is "".
type DNSRecord struct {
	ID    string
	Type  DNSRecordType
	Host  string
	Value string
	TTL   int
}

func (r *DNSRecord) Matches(host string, recordType DNSRecordType) bool {
	return r.Type == recordType && strings.EqualFold(r.Host, NormalizeHost(host))
}

// Validate checks the shape of a record returned by the registrar. Only the
// address types are inspected beyond the id.
func (r *DNSRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: record %s %q has no id", domain.ErrRecordFormat, r.Type, r.Host)
	}
	if r.TTL < 0 {
		return fmt.Errorf("%w: record %s has negative ttl %d", domain.ErrRecordFormat, r.ID, r.TTL)
	}
	if r.Type.Family() == "" {
		return nil
	}
	addr, err := netip.ParseAddr(r.Value)
	if err != nil {
		return fmt.Errorf("%w: record %s value %q: %v", domain.ErrRecordFormat, r.ID, r.Value, err)
	}
	if (r.Type == DNSRecordTypeA) != addr.Is4() {
		return fmt.Errorf("%w: record %s of type %s holds %s", domain.ErrRecordFormat, r.ID, r.Type, r.Value)
	}
	return nil
}

// NormalizeHost maps the apex spellings "@" and "" to "" and lower-cases the rest.
func NormalizeHost(host string) string {
	host = strings.TrimSuffix(strings.TrimSpace(host), ".")
	if host == "@" {
		return ""
	}
	return strings.ToLower(host)
}

func FullDomain(host, domainName string) string {
	host = NormalizeHost(host)
	if host == "" {
		return domainName
	}
	return host + "." + domainName
}

// SubDomain converts a registrar FQDN back into a host relative to domainName.
func SubDomain(fullDomain, domainName string) string {
	fullDomain = strings.ToLower(strings.TrimSuffix(fullDomain, "."))
	domainName = strings.ToLower(domainName)
	if fullDomain == domainName {
		return ""
	}
	suffix := "." + domainName
	if strings.HasSuffix(fullDomain, suffix) {
		return strings.TrimSuffix(fullDomain, suffix)
	}
	return fullDomain
}
