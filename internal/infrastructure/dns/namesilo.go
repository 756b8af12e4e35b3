package dns

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lite-lake/namesilo-ddns/internal/constants"
	"github.com/lite-lake/namesilo-ddns/internal/domain"
	"github.com/lite-lake/namesilo-ddns/internal/domain/contract"
	"github.com/lite-lake/namesilo-ddns/internal/domain/entity"
	"github.com/lite-lake/namesilo-ddns/internal/domain/retry"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/logger"
)

const (
	opListRecords  = "dnsListRecords"
	opAddRecord    = "dnsAddRecord"
	opUpdateRecord = "dnsUpdateRecord"

	replyCodeSuccess = 300
	maxResponseBytes = 1 << 20
)

var errUndecodable = errors.New("undecodable reply")

type NameSiloClient struct {
	baseURL    string
	apiKey     string
	domainName string
	httpClient *http.Client
}

type Option func(*NameSiloClient)

func WithHTTPClient(c *http.Client) Option {
	return func(n *NameSiloClient) {
		n.httpClient = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(n *NameSiloClient) {
		n.httpClient = &http.Client{Timeout: d}
	}
}

func NewNameSiloClient(baseURL, apiKey, domainName string, opts ...Option) *NameSiloClient {
	if baseURL == "" {
		baseURL = constants.DefaultAPIBase
	}
	c := &NameSiloClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		domainName: domainName,
		httpClient: &http.Client{Timeout: domain.DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewRecordStoreFactory returns a factory that binds a client to each
// configured domain and its key.
func NewRecordStoreFactory(baseURL string, timeout time.Duration) contract.RecordStoreFactory {
	return func(domainName, apiKey string) contract.RecordStore {
		return NewNameSiloClient(baseURL, apiKey, domainName, WithTimeout(timeout))
	}
}

func (c *NameSiloClient) Domain() string {
	return c.domainName
}

func (c *NameSiloClient) ListRecords(ctx context.Context) ([]entity.DNSRecord, error) {
	log := logger.FromContext(ctx).Named("namesilo")
	log.Debug("listing DNS records", "domain", c.domainName)

	var reply listReply
	err := logger.TimedOperation(ctx, "namesilo."+opListRecords, func() error {
		return c.call(ctx, opListRecords, nil, &reply)
	})
	if err != nil {
		return nil, classify(opListRecords, domain.ErrRecordFetch, err)
	}

	raw, err := reply.Reply.records()
	if err != nil {
		return nil, domain.NewOpError(opListRecords, domain.ErrRecordFormat, err)
	}

	records := make([]entity.DNSRecord, 0, len(raw))
	for _, rr := range raw {
		ttl, err := ParseTTL(string(rr.TTL))
		if err != nil {
			return nil, domain.NewOpError(opListRecords, domain.ErrRecordFormat,
				fmt.Errorf("record %s: %w", rr.RecordID, err))
		}
		records = append(records, entity.DNSRecord{
			ID:    rr.RecordID,
			Type:  entity.DNSRecordType(strings.ToUpper(rr.Type)),
			Host:  entity.SubDomain(rr.Host, c.domainName),
			Value: rr.Value,
			TTL:   ttl,
		})
	}

	log.Debug("listed DNS records", "domain", c.domainName, "count", len(records))
	return records, nil
}

func (c *NameSiloClient) CreateRecord(ctx context.Context, record *entity.DNSRecord) error {
	logger.FromContext(ctx).Named("namesilo").Debug("creating DNS record",
		"domain", c.domainName, "host", record.Host, "type", record.Type)

	params := url.Values{}
	params.Set("rrtype", record.Type.String())
	params.Set("rrhost", entity.NormalizeHost(record.Host))
	params.Set("rrvalue", record.Value)
	params.Set("rrttl", strconv.Itoa(record.TTL))

	var reply mutationReply
	err := logger.TimedOperation(ctx, "namesilo."+opAddRecord, func() error {
		return c.call(ctx, opAddRecord, params, &reply)
	})
	if err != nil {
		return classify(opAddRecord, domain.ErrRecordMutation, err)
	}
	if record.ID == "" {
		record.ID = reply.Reply.RecordID
	}
	return nil
}

func (c *NameSiloClient) UpdateRecord(ctx context.Context, recordID string, record *entity.DNSRecord) error {
	logger.FromContext(ctx).Named("namesilo").Debug("updating DNS record",
		"domain", c.domainName, "record_id", recordID, "host", record.Host, "type", record.Type)

	params := url.Values{}
	params.Set("rrid", recordID)
	params.Set("rrhost", entity.NormalizeHost(record.Host))
	params.Set("rrvalue", record.Value)
	params.Set("rrttl", strconv.Itoa(record.TTL))

	var reply mutationReply
	err := logger.TimedOperation(ctx, "namesilo."+opUpdateRecord, func() error {
		return c.call(ctx, opUpdateRecord, params, &reply)
	})
	if err != nil {
		return classify(opUpdateRecord, domain.ErrRecordMutation, err)
	}
	return nil
}

// call performs one API operation and decodes the reply into out. A reply
// code other than 300 is reported as a permanent ErrAPIResponse.
func (c *NameSiloClient) call(ctx context.Context, operation string, params url.Values, out replyEnvelope) error {
	q := url.Values{}
	q.Set("version", "1")
	q.Set("type", "json")
	q.Set("key", c.apiKey)
	q.Set("domain", c.domainName)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	endpoint := c.baseURL + "/" + operation + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.AppName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return redact(err, c.apiKey)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d %s", resp.StatusCode, strings.ToLower(http.StatusText(resp.StatusCode)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return retry.Permanent(fmt.Errorf("%w: %v", errUndecodable, err))
	}
	code, detail := out.status()
	if code != replyCodeSuccess {
		return retry.Permanent(fmt.Errorf("%w: code %d: %s", domain.ErrAPIResponse, code, detail))
	}
	return nil
}

// classify attaches the operation's error class. An unreadable listing is a
// format error rather than a fetch error.
func classify(op string, kind, err error) error {
	if kind == domain.ErrRecordFetch && errors.Is(err, errUndecodable) {
		kind = domain.ErrRecordFormat
	}
	return domain.NewOpError(op, kind, err)
}

// redact strips the API key from transport errors, which embed the request URL.
func redact(err error, apiKey string) error {
	if apiKey == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, apiKey) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, apiKey, "REDACTED"), cause: err}
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }

type replyEnvelope interface {
	status() (int, string)
}

// flexString accepts JSON strings and numbers; the API is inconsistent
// about which one it sends for codes, ids and ttls.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type replyStatus struct {
	Code   flexString `json:"code"`
	Detail string     `json:"detail"`
}

func (r replyStatus) status() (int, string) {
	code, err := strconv.Atoi(string(r.Code))
	if err != nil {
		return 0, fmt.Sprintf("unparsable reply code %q", r.Code)
	}
	return code, r.Detail
}

type resourceRecord struct {
	RecordID string     `json:"record_id"`
	Type     string     `json:"type"`
	Host     string     `json:"host"`
	Value    string     `json:"value"`
	TTL      flexString `json:"ttl"`
}

type listReplyBody struct {
	replyStatus
	ResourceRecord json.RawMessage `json:"resource_record"`
}

// records decodes resource_record, which is an object rather than a list
// when the domain holds exactly one record.
func (b listReplyBody) records() ([]resourceRecord, error) {
	raw := bytes.TrimSpace(b.ResourceRecord)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '{' {
		var single resourceRecord
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("decode resource_record: %w", err)
		}
		return []resourceRecord{single}, nil
	}
	var list []resourceRecord
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode resource_record: %w", err)
	}
	return list, nil
}

type listReply struct {
	Reply listReplyBody `json:"reply"`
}

func (r *listReply) status() (int, string) { return r.Reply.status() }

type mutationReplyBody struct {
	replyStatus
	RecordID string `json:"record_id"`
}

type mutationReply struct {
	Reply mutationReplyBody `json:"reply"`
}

func (r *mutationReply) status() (int, string) { return r.Reply.status() }
