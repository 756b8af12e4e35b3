package entity

import (
	"fmt"
	"regexp"

	"github.com/lite-lake/namesilo-ddns/internal/domain"
)

// Domain is one validated entry of the domains mapping.
type Domain struct {
	Name      string
	Key       string
	Subdomain string
	IPv4      bool
	IPv6      bool
}

var domainRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+$`)

func (d *Domain) Validate() error {
	if d.Name == "" {
		return domain.RequiredField("domain name")
	}
	if !domainRegex.MatchString(d.Name) {
		return domain.ConfigError("invalid domain name %q", d.Name)
	}
	if !d.IPv4 && !d.IPv6 {
		return domain.ConfigError("please set at least ipv4 or ipv6 as true for domain %s", d.Name)
	}
	if d.Key == "" {
		return domain.RequiredField(fmt.Sprintf("domains[%s].key", d.Name))
	}
	return nil
}

// RecordTypes lists the enabled record types, A before AAAA.
func (d *Domain) RecordTypes() []DNSRecordType {
	var types []DNSRecordType
	if d.IPv4 {
		types = append(types, DNSRecordTypeA)
	}
	if d.IPv6 {
		types = append(types, DNSRecordTypeAAAA)
	}
	return types
}

func (d *Domain) FQDN() string {
	return FullDomain(d.Subdomain, d.Name)
}
