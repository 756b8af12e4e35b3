package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lite-lake/namesilo-ddns/internal/domain"
	"github.com/lite-lake/namesilo-ddns/internal/domain/contract"
	"github.com/lite-lake/namesilo-ddns/internal/domain/entity"
	"github.com/lite-lake/namesilo-ddns/internal/domain/retry"
	"github.com/lite-lake/namesilo-ddns/internal/domain/valueobject"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/logger"
)

// Reconciler brings one record of a domain in line with an observed address.
type Reconciler struct {
	log       *logger.Logger
	retryOpts []retry.Option
}

// NewReconciler returns a reconciler. retryOpts tune the retry policy of
// record listing; mutations are never retried.
func NewReconciler(log *logger.Logger, retryOpts ...retry.Option) *Reconciler {
	if log == nil {
		log = logger.Named("reconciler")
	}
	return &Reconciler{log: log, retryOpts: retryOpts}
}

// Reconcile fetches the current records, then creates, updates or leaves the
// (subdomain, recordType) record alone. A fetch or format failure is returned
// as an error; a failed mutation is reported through a Failed outcome.
func (r *Reconciler) Reconcile(ctx context.Context, d entity.Domain, store contract.RecordStore, recordType entity.DNSRecordType, desiredIP string) (valueobject.Outcome, error) {
	return r.reconcile(ctx, d, store, recordType, desiredIP, false)
}

// Plan computes the outcome Reconcile would produce without mutating anything.
func (r *Reconciler) Plan(ctx context.Context, d entity.Domain, store contract.RecordStore, recordType entity.DNSRecordType, desiredIP string) (valueobject.Outcome, error) {
	return r.reconcile(ctx, d, store, recordType, desiredIP, true)
}

func (r *Reconciler) reconcile(ctx context.Context, d entity.Domain, store contract.RecordStore, recordType entity.DNSRecordType, desiredIP string, dryRun bool) (valueobject.Outcome, error) {
	outcome := valueobject.Outcome{
		Domain:    d.Name,
		Subdomain: d.Subdomain,
		Type:      recordType,
		New:       desiredIP,
		DryRun:    dryRun,
	}
	log := r.log.With("subdomain", d.Subdomain, "type", recordType.String())

	records, err := r.fetch(ctx, store)
	if err != nil {
		outcome.Action = valueobject.ActionFailed
		outcome.Err = err
		return outcome, err
	}

	existing, err := r.match(log, records, d, recordType)
	if err != nil {
		outcome.Action = valueobject.ActionFailed
		outcome.Err = err
		return outcome, err
	}

	switch {
	case existing == nil:
		outcome.Action = valueobject.ActionCreated
		if dryRun {
			return outcome, nil
		}
		record := &entity.DNSRecord{
			Type:  recordType,
			Host:  d.Subdomain,
			Value: desiredIP,
			TTL:   domain.RecordTTL,
		}
		if err := store.CreateRecord(ctx, record); err != nil {
			return r.mutationFailed(log, outcome, "creating", err), nil
		}
		log.Info(fmt.Sprintf("%s | None -> %s", d.Name, desiredIP))

	case existing.Value == desiredIP:
		outcome.Action = valueobject.ActionUnchanged
		outcome.Previous = existing.Value
		if dryRun {
			return outcome, nil
		}
		log.Info(fmt.Sprintf("%s checked - %s still correct", d.Name, existing.Value))

	default:
		outcome.Action = valueobject.ActionUpdated
		outcome.Previous = existing.Value
		if dryRun {
			return outcome, nil
		}
		record := &entity.DNSRecord{
			ID:    existing.ID,
			Type:  recordType,
			Host:  d.Subdomain,
			Value: desiredIP,
			TTL:   domain.RecordTTL,
		}
		if err := store.UpdateRecord(ctx, existing.ID, record); err != nil {
			return r.mutationFailed(log, outcome, "updating", err), nil
		}
		log.Info(fmt.Sprintf("%s | %s -> %s", d.Name, existing.Value, desiredIP))
	}

	return outcome, nil
}

func (r *Reconciler) fetch(ctx context.Context, store contract.RecordStore) ([]entity.DNSRecord, error) {
	opts := append([]retry.Option{retry.WithIsRetryable(IsRetryableDNSError)}, r.retryOpts...)
	records, err := retry.DoWithResult(ctx, func() ([]entity.DNSRecord, error) {
		return store.ListRecords(ctx)
	}, opts...)
	if err != nil {
		if domain.IsFatal(err) {
			return nil, err
		}
		return nil, domain.NewOpError("list records for "+store.Domain(), domain.ErrRecordFetch, err)
	}
	return records, nil
}

// match picks the record to reconcile. With several candidates the first one
// in registrar order wins.
func (r *Reconciler) match(log *logger.Logger, records []entity.DNSRecord, d entity.Domain, recordType entity.DNSRecordType) (*entity.DNSRecord, error) {
	var found *entity.DNSRecord
	var ignored []string
	for i := range records {
		rec := &records[i]
		if !rec.Matches(d.Subdomain, recordType) {
			continue
		}
		if err := rec.Validate(); err != nil {
			return nil, domain.WrapEntity("record", d.FQDN(), err)
		}
		if found == nil {
			found = rec
			continue
		}
		ignored = append(ignored, rec.ID)
	}
	if len(ignored) > 0 {
		log.Warn("multiple matching records, using the first",
			"used", found.ID, "ignored", strings.Join(ignored, ","))
	}
	return found, nil
}

func (r *Reconciler) mutationFailed(log *logger.Logger, outcome valueobject.Outcome, verb string, err error) valueobject.Outcome {
	if !errors.Is(err, domain.ErrRecordMutation) {
		err = domain.NewOpError(verb+" record", domain.ErrRecordMutation, err)
	}
	log.Error(fmt.Sprintf("Some API error occurred while %s %s", verb, outcome.FQDN()), "error", err)
	outcome.Action = valueobject.ActionFailed
	outcome.Err = err
	return outcome
}
