package constants

import (
	"os"
	"path/filepath"
)

const AppName = "namesilo-ddns"

const (
	SystemConfigPath  = "/etc/namesilo_dyndns/config.yaml"
	UserConfigRelPath = ".config/namesilo_dyndns.yaml"
	SystemEnvFilePath = "/etc/namesilo_dyndns/env"
	DefaultLogFile    = "/var/log/dyndns.log"
	LockFileName      = "namesilo-ddns.lock"
)

const (
	DefaultIPv4Server = "https://ip.dhoessl.de"
	DefaultIPv6Server = "https://ipv6.dhoessl.de"
	DefaultAPIBase    = "https://www.namesilo.com/api"
)

const (
	FilePermissionOwnerRW os.FileMode = 0600
	FilePermissionLog     os.FileMode = 0640
	DirPermissionLog      os.FileMode = 0755
)

// DefaultLockPath is the run lock used when lock_file is not configured.
func DefaultLockPath() string {
	return filepath.Join(os.TempDir(), LockFileName)
}
