package contract

import (
	"context"

	"github.com/lite-lake/namesilo-ddns/internal/domain/entity"
)

// RecordStore is the registrar's record set for a single domain.
type RecordStore interface {
	Domain() string
	ListRecords(ctx context.Context) ([]entity.DNSRecord, error)
	CreateRecord(ctx context.Context, record *entity.DNSRecord) error
	UpdateRecord(ctx context.Context, recordID string, record *entity.DNSRecord) error
}

// RecordStoreFactory builds a store bound to one domain and its API key.
type RecordStoreFactory func(domainName, apiKey string) RecordStore

type IPResolver interface {
	Resolve(ctx context.Context, endpoint string) (string, error)
}
