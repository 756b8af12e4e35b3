package entity

// RawConfig is the parsed configuration file before validation. Pointer
// fields distinguish an absent key from its zero value.
type RawConfig struct {
	Key                  *string `yaml:"key"`
	IPv4Server           *string `yaml:"ipv4_server"`
	IPv6Server           *string `yaml:"ipv6_server"`
	APIBase              *string `yaml:"api_base"`
	Verbose              *bool   `yaml:"verbose"`
	LogFile              *string `yaml:"log_file"`
	LockFile             *string `yaml:"lock_file"`
	HTTPTimeout          *string `yaml:"http_timeout"`
	ContinueOnFetchError *bool   `yaml:"continue_on_fetch_error"`
	EnvFile              *string `yaml:"env_file"`

	// Domains keeps the order of the YAML mapping; nil means the key was absent.
	Domains []RawDomain `yaml:"-"`

	Source string `yaml:"-"`
}

type RawDomain struct {
	Name      string  `yaml:"-"`
	Key       *string `yaml:"key"`
	Subdomain *string `yaml:"subdomain"`
	IPv4      *bool   `yaml:"ipv4"`
	IPv6      *bool   `yaml:"ipv6"`
}

func StringPtr(s string) *string { return &s }

func BoolPtr(b bool) *bool { return &b }
