package entity

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lite-lake/namesilo-ddns/internal/domain"
)

func TestDomain_Validate(t *testing.T) {
	tests := []struct {
		name    string
		domain  Domain
		wantErr error
	}{
		{
			name:    "missing name",
			domain:  Domain{Key: "k", Subdomain: "home", IPv4: true},
			wantErr: domain.ErrRequired,
		},
		{
			name:    "invalid name",
			domain:  Domain{Name: "invalid..domain", Key: "k", Subdomain: "home", IPv4: true},
			wantErr: domain.ErrConfig,
		},
		{
			name:    "no address family",
			domain:  Domain{Name: "example.com", Key: "k", Subdomain: "home"},
			wantErr: domain.ErrConfig,
		},
		{
			name:    "missing key",
			domain:  Domain{Name: "example.com", Subdomain: "home", IPv6: true},
			wantErr: domain.ErrRequired,
		},
		{
			name:   "valid",
			domain: Domain{Name: "example.com", Key: "k", Subdomain: "home", IPv4: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.domain.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestDomain_RecordTypes(t *testing.T) {
	tests := []struct {
		name   string
		domain Domain
		want   []DNSRecordType
	}{
		{"ipv4 only", Domain{IPv4: true}, []DNSRecordType{DNSRecordTypeA}},
		{"ipv6 only", Domain{IPv6: true}, []DNSRecordType{DNSRecordTypeAAAA}},
		{"both", Domain{IPv4: true, IPv6: true}, []DNSRecordType{DNSRecordTypeA, DNSRecordTypeAAAA}},
		{"none", Domain{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.domain.RecordTypes(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecordTypes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_Server(t *testing.T) {
	cfg := &Config{IPv4Server: "https://v4.example", IPv6Server: "https://v6.example"}
	if got := cfg.Server(DNSRecordTypeA); got != "https://v4.example" {
		t.Errorf("Server(A) = %q", got)
	}
	if got := cfg.Server(DNSRecordTypeAAAA); got != "https://v6.example" {
		t.Errorf("Server(AAAA) = %q", got)
	}
}
