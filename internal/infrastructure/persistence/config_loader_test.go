package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lite-lake/namesilo-ddns/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestLoader(t *testing.T, explicit string) (*ConfigLoader, string, string) {
	t.Helper()
	dir := t.TempDir()
	systemPath := filepath.Join(dir, "etc", "config.yaml")
	userPath := filepath.Join(dir, "home", ".config", "namesilo_dyndns.yaml")
	l := NewConfigLoader(explicit).
		WithSearchPaths(systemPath, userPath).
		WithDefaultEnvFile(filepath.Join(dir, "etc", "env"))
	return l, systemPath, userPath
}

const sampleConfig = `key: GLOBALKEY
ipv4_server: https://v4.example
domains:
  zeta.com:
    subdomain: home
    ipv4: true
  alpha.org:
    key: ALPHAKEY
    subdomain: ""
    ipv6: true
  mid.net:
    subdomain: www
    ipv4: true
    ipv6: true
`

func TestConfigLoader_Locate(t *testing.T) {
	t.Run("nothing found cites system path", func(t *testing.T) {
		l, systemPath, _ := newTestLoader(t, "")
		_, err := l.Locate()
		if !errors.Is(err, domain.ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got %v", err)
		}
		if !errors.Is(err, domain.ErrConfig) {
			t.Errorf("expected ErrConfig, got %v", err)
		}
		if !strings.Contains(err.Error(), systemPath) {
			t.Errorf("expected error to cite %s, got %v", systemPath, err)
		}
	})

	t.Run("system only", func(t *testing.T) {
		l, systemPath, _ := newTestLoader(t, "")
		writeFile(t, systemPath, sampleConfig)
		got, err := l.Locate()
		if err != nil || got != systemPath {
			t.Errorf("Locate() = %q, %v", got, err)
		}
	})

	t.Run("user wins over system", func(t *testing.T) {
		l, systemPath, userPath := newTestLoader(t, "")
		writeFile(t, systemPath, sampleConfig)
		writeFile(t, userPath, sampleConfig)
		got, err := l.Locate()
		if err != nil || got != userPath {
			t.Errorf("Locate() = %q, %v", got, err)
		}
	})

	t.Run("explicit path overrides search", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "custom.yaml")
		writeFile(t, explicit, sampleConfig)
		l, systemPath, _ := newTestLoader(t, explicit)
		writeFile(t, systemPath, sampleConfig)
		got, err := l.Locate()
		if err != nil || got != explicit {
			t.Errorf("Locate() = %q, %v", got, err)
		}
	})

	t.Run("missing explicit path", func(t *testing.T) {
		l, _, _ := newTestLoader(t, "/nonexistent/config.yaml")
		if _, err := l.Locate(); !errors.Is(err, domain.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestConfigLoader_Load_PreservesDomainOrder(t *testing.T) {
	l, systemPath, _ := newTestLoader(t, "")
	writeFile(t, systemPath, sampleConfig)

	raw, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if raw.Source != systemPath {
		t.Errorf("Source = %q", raw.Source)
	}
	if raw.Key == nil || *raw.Key != "GLOBALKEY" {
		t.Errorf("Key = %v", raw.Key)
	}
	if raw.IPv4Server == nil || *raw.IPv4Server != "https://v4.example" {
		t.Errorf("IPv4Server = %v", raw.IPv4Server)
	}
	if raw.IPv6Server != nil {
		t.Errorf("expected IPv6Server to be absent, got %q", *raw.IPv6Server)
	}

	names := make([]string, 0, len(raw.Domains))
	for _, d := range raw.Domains {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "zeta.com,alpha.org,mid.net" {
		t.Fatalf("domain order = %v", names)
	}

	alpha := raw.Domains[1]
	if alpha.Key == nil || *alpha.Key != "ALPHAKEY" {
		t.Errorf("alpha key = %v", alpha.Key)
	}
	if alpha.Subdomain == nil || *alpha.Subdomain != "" {
		t.Errorf("alpha subdomain = %v", alpha.Subdomain)
	}
	if alpha.IPv4 != nil {
		t.Errorf("alpha ipv4 should be absent")
	}
	if alpha.IPv6 == nil || !*alpha.IPv6 {
		t.Errorf("alpha ipv6 = %v", alpha.IPv6)
	}
}

func TestConfigLoader_Load_EnvExpansion(t *testing.T) {
	l, systemPath, _ := newTestLoader(t, "")
	writeFile(t, systemPath, `key: ${DDNS_TEST_KEY}
log_file: ${DDNS_TEST_DIR}/dyndns.log
verbose: true
domains:
  example.com:
    subdomain: home
    ipv4: true
`)
	t.Setenv("DDNS_TEST_KEY", "from-env")
	t.Setenv("DDNS_TEST_DIR", "/tmp/ddns")

	raw, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *raw.Key != "from-env" {
		t.Errorf("Key = %q", *raw.Key)
	}
	if *raw.LogFile != "/tmp/ddns/dyndns.log" {
		t.Errorf("LogFile = %q", *raw.LogFile)
	}
	if raw.Verbose == nil || !*raw.Verbose {
		t.Errorf("Verbose = %v", raw.Verbose)
	}
}

func TestConfigLoader_Load_KeepsLiteralDollar(t *testing.T) {
	l, systemPath, _ := newTestLoader(t, "")
	writeFile(t, systemPath, `key: "ab$cd12"
ipv4_server: https://ip.example/$HOME/${DDNS_TEST_PATH}
domains:
  example.com:
    key: "$"
    subdomain: home
    ipv4: true
`)
	t.Setenv("DDNS_TEST_PATH", "v4")

	raw, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *raw.Key != "ab$cd12" {
		t.Errorf("Key = %q, want %q", *raw.Key, "ab$cd12")
	}
	if *raw.IPv4Server != "https://ip.example/$HOME/v4" {
		t.Errorf("IPv4Server = %q", *raw.IPv4Server)
	}
	if got := raw.Domains[0].Key; got == nil || *got != "$" {
		t.Errorf("domain key = %v, want %q", got, "$")
	}
}

func TestConfigLoader_Load_EnvFile(t *testing.T) {
	l, systemPath, _ := newTestLoader(t, "")
	envPath := filepath.Join(filepath.Dir(systemPath), "secrets.env")
	writeFile(t, envPath, "DDNS_FILE_KEY=from-file\nDDNS_KEPT=from-file\n")
	writeFile(t, systemPath, `key: ${DDNS_FILE_KEY}
env_file: `+envPath+`
ipv6_server: https://${DDNS_KEPT}.example
domains:
  example.com:
    subdomain: home
    ipv4: true
`)
	t.Setenv("DDNS_KEPT", "from-env")
	t.Setenv("DDNS_FILE_KEY", "")
	os.Unsetenv("DDNS_FILE_KEY")

	raw, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *raw.Key != "from-file" {
		t.Errorf("Key = %q, want value from env file", *raw.Key)
	}
	if *raw.IPv6Server != "https://from-env.example" {
		t.Errorf("IPv6Server = %q, existing env must win", *raw.IPv6Server)
	}
}

func TestConfigLoader_Load_MissingExplicitEnvFile(t *testing.T) {
	l, systemPath, _ := newTestLoader(t, "")
	writeFile(t, systemPath, "key: k\nenv_file: /nonexistent/env\n")

	_, err := l.Load(context.Background())
	if !errors.Is(err, domain.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}

func TestConfigLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "key: [unclosed\n"},
		{"top level list", "- a\n- b\n"},
		{"domains as list", "key: k\ndomains:\n  - example.com\n"},
		{"domain settings scalar", "key: k\ndomains:\n  example.com: yes\n"},
		{"wrong type", "key: k\nverbose: [1]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, systemPath, _ := newTestLoader(t, "")
			writeFile(t, systemPath, tt.content)
			_, err := l.Load(context.Background())
			if !errors.Is(err, domain.ErrConfigParse) {
				t.Errorf("expected ErrConfigParse, got %v", err)
			}
		})
	}
}

func TestConfigLoader_Load_EmptyDomains(t *testing.T) {
	l, systemPath, _ := newTestLoader(t, "")
	writeFile(t, systemPath, "key: k\ndomains:\n")

	raw, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if raw.Domains == nil || len(raw.Domains) != 0 {
		t.Errorf("expected present but empty domains, got %#v", raw.Domains)
	}
}

func TestConfigLoader_Load_EmptyFile(t *testing.T) {
	l, systemPath, _ := newTestLoader(t, "")
	writeFile(t, systemPath, "")

	raw, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if raw.Key != nil || raw.Domains != nil {
		t.Errorf("expected empty raw config, got %+v", raw)
	}
}
