package ipresolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lite-lake/namesilo-ddns/internal/constants"
	"github.com/lite-lake/namesilo-ddns/internal/domain"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/logger"
)

const maxBodyBytes = 64 << 10

// Resolver asks a lookup service for the caller's public address. The
// service must answer with a JSON object carrying an "ip" field.
type Resolver struct {
	httpClient *http.Client
}

type Option func(*Resolver)

func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = c
	}
}

func New(timeout time.Duration, opts ...Option) *Resolver {
	if timeout <= 0 {
		timeout = domain.DefaultHTTPTimeout
	}
	r := &Resolver{httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type lookupReply struct {
	IP string `json:"ip"`
}

// Resolve returns the address reported by endpoint as sent. The value is not
// validated beyond being present; every failure wraps domain.ErrIPResolution.
func (r *Resolver) Resolve(ctx context.Context, endpoint string) (string, error) {
	var ip string
	err := logger.TimedOperation(ctx, "ip.resolve", func() error {
		var err error
		ip, err = r.lookup(ctx, endpoint)
		return err
	})
	if err != nil {
		return "", domain.NewOpError("resolve "+endpoint, domain.ErrIPResolution, err)
	}
	logger.FromContext(ctx).Named("resolver").Debug("resolved public address", "endpoint", endpoint, "ip", ip)
	return ip, nil
}

func (r *Resolver) lookup(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", constants.AppName)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("http request returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	var reply lookupReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("decode response body: %w", err)
	}
	if reply.IP == "" {
		return "", errors.New("response has no ip field")
	}
	return reply.IP, nil
}
