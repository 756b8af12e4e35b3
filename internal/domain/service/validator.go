package service

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/lite-lake/namesilo-ddns/internal/constants"
	"github.com/lite-lake/namesilo-ddns/internal/domain"
	"github.com/lite-lake/namesilo-ddns/internal/domain/entity"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/logger"
)

// ConfigValidator turns a parsed configuration file into an immutable
// entity.Config. It never modifies its input and performs no network I/O.
type ConfigValidator struct {
	log *logger.Logger
}

func NewConfigValidator(log *logger.Logger) *ConfigValidator {
	if log == nil {
		log = logger.Named("validator")
	}
	return &ConfigValidator{log: log}
}

func (v *ConfigValidator) Validate(raw *entity.RawConfig) (*entity.Config, error) {
	if raw == nil {
		return nil, domain.ConfigError("no configuration loaded")
	}

	key := strings.TrimSpace(deref(raw.Key))
	if key == "" {
		return nil, domain.RequiredField("API key (key)")
	}

	cfg := &entity.Config{
		Key:                  key,
		IPv4Server:           strings.TrimSpace(deref(raw.IPv4Server)),
		IPv6Server:           strings.TrimSpace(deref(raw.IPv6Server)),
		APIBase:              strings.TrimSpace(deref(raw.APIBase)),
		Verbose:              derefBool(raw.Verbose),
		LogFile:              strings.TrimSpace(deref(raw.LogFile)),
		LockFile:             strings.TrimSpace(deref(raw.LockFile)),
		HTTPTimeout:          domain.DefaultHTTPTimeout,
		ContinueOnFetchError: derefBool(raw.ContinueOnFetchError),
		Source:               raw.Source,
	}

	if cfg.IPv4Server == "" {
		v.log.Warn("Setting default ipv4 check server", "server", constants.DefaultIPv4Server)
		cfg.IPv4Server = constants.DefaultIPv4Server
	}
	if cfg.IPv6Server == "" {
		v.log.Warn("Setting default ipv6 check server", "server", constants.DefaultIPv6Server)
		cfg.IPv6Server = constants.DefaultIPv6Server
	}
	if cfg.APIBase == "" {
		cfg.APIBase = constants.DefaultAPIBase
	}
	if cfg.LogFile == "" {
		cfg.LogFile = constants.DefaultLogFile
	}
	if cfg.LockFile == "" {
		cfg.LockFile = constants.DefaultLockPath()
	}

	if raw.HTTPTimeout != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*raw.HTTPTimeout))
		if err != nil || d <= 0 {
			return nil, domain.ConfigError("http_timeout must be a positive duration, got %q", *raw.HTTPTimeout)
		}
		cfg.HTTPTimeout = d
	}

	if len(raw.Domains) == 0 {
		return nil, domain.ConfigError("no domains configured")
	}

	seen := make(map[string]struct{}, len(raw.Domains))
	cfg.Domains = make([]entity.Domain, 0, len(raw.Domains))
	for _, rd := range raw.Domains {
		d, err := v.validateDomain(rd, key)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[d.Name]; dup {
			return nil, domain.ConfigError("domain %s is configured more than once", d.Name)
		}
		seen[d.Name] = struct{}{}
		cfg.Domains = append(cfg.Domains, d)
	}

	return cfg, nil
}

func (v *ConfigValidator) validateDomain(rd entity.RawDomain, globalKey string) (entity.Domain, error) {
	name := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(rd.Name), "."))
	d := entity.Domain{
		Name: name,
		IPv4: derefBool(rd.IPv4),
		IPv6: derefBool(rd.IPv6),
	}

	if !d.IPv4 && !d.IPv6 {
		return d, domain.ConfigError("please set at least ipv4 or ipv6 as true for domain %s", rd.Name)
	}
	if rd.Subdomain == nil {
		return d, domain.RequiredField(fmt.Sprintf("subdomain for domain %s", rd.Name))
	}
	d.Subdomain = entity.NormalizeHost(*rd.Subdomain)

	d.Key = strings.TrimSpace(deref(rd.Key))
	if d.Key == "" {
		d.Key = globalKey
	}

	if err := d.Validate(); err != nil {
		return d, domain.WrapEntity("domain", rd.Name, err)
	}

	if etld1, err := publicsuffix.EffectiveTLDPlusOne(name); err != nil || etld1 != name {
		v.log.Warn("domain is not a registrable domain, the registrar may reject it",
			"domain", name, "registrable", etld1)
	}

	return d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
