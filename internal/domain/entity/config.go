package entity

import "time"

// Config is the validated, immutable configuration of a run.
type Config struct {
	Key                  string
	IPv4Server           string
	IPv6Server           string
	APIBase              string
	Verbose              bool
	LogFile              string
	LockFile             string
	HTTPTimeout          time.Duration
	ContinueOnFetchError bool
	Domains              []Domain
	Source               string
}

// Server returns the lookup endpoint for the address family of recordType.
func (c *Config) Server(recordType DNSRecordType) string {
	if recordType == DNSRecordTypeAAAA {
		return c.IPv6Server
	}
	return c.IPv4Server
}
