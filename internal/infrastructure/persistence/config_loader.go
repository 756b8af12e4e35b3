package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lite-lake/namesilo-ddns/internal/constants"
	"github.com/lite-lake/namesilo-ddns/internal/domain"
	"github.com/lite-lake/namesilo-ddns/internal/domain/entity"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/logger"
)

const domainsKey = "domains"

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

type ConfigLoader struct {
	explicitPath string
	systemPath   string
	userPath     string
	envFile      string
}

// NewConfigLoader returns a loader that reads explicitPath when it is set
// and otherwise searches the system and user locations.
func NewConfigLoader(explicitPath string) *ConfigLoader {
	userPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		userPath = filepath.Join(home, constants.UserConfigRelPath)
	}
	return &ConfigLoader{
		explicitPath: explicitPath,
		systemPath:   constants.SystemConfigPath,
		userPath:     userPath,
		envFile:      constants.SystemEnvFilePath,
	}
}

// WithSearchPaths overrides the locations searched when no explicit path is set.
func (l *ConfigLoader) WithSearchPaths(systemPath, userPath string) *ConfigLoader {
	l.systemPath = systemPath
	l.userPath = userPath
	return l
}

// WithDefaultEnvFile overrides the env file read when the config names none.
func (l *ConfigLoader) WithDefaultEnvFile(path string) *ConfigLoader {
	l.envFile = path
	return l
}

// Locate picks the config file. The user file wins over the system file
// when both exist.
func (l *ConfigLoader) Locate() (string, error) {
	if l.explicitPath != "" {
		if !fileExists(l.explicitPath) {
			return "", fmt.Errorf("%w: %s", domain.ErrConfigNotFound, l.explicitPath)
		}
		return l.explicitPath, nil
	}
	if l.userPath != "" && fileExists(l.userPath) {
		return l.userPath, nil
	}
	if fileExists(l.systemPath) {
		return l.systemPath, nil
	}
	return "", fmt.Errorf("%w: expected %s", domain.ErrConfigNotFound, l.systemPath)
}

func (l *ConfigLoader) Load(ctx context.Context) (*entity.RawConfig, error) {
	path, err := l.Locate()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrConfigParse, path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigParse, path, err)
	}

	raw := &entity.RawConfig{Source: path}
	if len(doc.Content) == 0 {
		return raw, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: top level must be a mapping", domain.ErrConfigParse, path)
	}

	if err := l.loadEnvFile(ctx, root); err != nil {
		return nil, err
	}
	expandNode(root)

	if err := root.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigParse, path, err)
	}

	if domainsNode := mappingValue(root, domainsKey); domainsNode != nil {
		domains, err := decodeDomains(domainsNode)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigParse, path, err)
		}
		raw.Domains = domains
	}

	logger.FromContext(ctx).Debug("config loaded", "path", path, "domains", len(raw.Domains))
	return raw, nil
}

// loadEnvFile reads the env file named by env_file, or the default one when
// it exists. Variables already in the environment are kept.
func (l *ConfigLoader) loadEnvFile(ctx context.Context, root *yaml.Node) error {
	path := l.envFile
	explicit := false
	if n := mappingValue(root, "env_file"); n != nil && n.Kind == yaml.ScalarNode && n.Value != "" {
		path = expandEnv(n.Value)
		explicit = true
	}
	if path == "" {
		return nil
	}
	if !fileExists(path) {
		if explicit {
			return domain.ConfigError("env_file %s does not exist", path)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: env_file %s: %v", domain.ErrConfigParse, path, err)
	}
	logger.FromContext(ctx).Debug("env file loaded", "path", path)
	return nil
}

// decodeDomains walks the domains mapping in document order.
func decodeDomains(n *yaml.Node) ([]entity.RawDomain, error) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return []entity.RawDomain{}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errors.New("domains must be a mapping of domain name to settings")
	}

	domains := make([]entity.RawDomain, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]
		d := entity.RawDomain{Name: keyNode.Value}
		if !(valueNode.Kind == yaml.ScalarNode && valueNode.ShortTag() == "!!null") {
			if valueNode.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("domain %s: settings must be a mapping", keyNode.Value)
			}
			if err := valueNode.Decode(&d); err != nil {
				return nil, fmt.Errorf("domain %s: %w", keyNode.Value, err)
			}
			d.Name = keyNode.Value
		}
		domains = append(domains, d)
	}
	return domains, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// expandEnv replaces ${NAME} references with the variable's value. A bare $
// is kept as written.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

// expandNode applies expandEnv to every string scalar below n. Keys and
// non-string scalars are left alone.
func expandNode(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			expandNode(n.Content[i])
		}
	case yaml.SequenceNode, yaml.DocumentNode:
		for _, c := range n.Content {
			expandNode(c)
		}
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			n.Value = expandEnv(n.Value)
		}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
