package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

//go:embed config.toml.sample
var configTemplate string

type Config struct {
	StorageDir  string       `toml:"storage_dir"`
	OwnerID     string       `toml:"owner_id"`
	Debounce    Duration     `toml:"debounce"`
	SearchLimit int          `toml:"search_limit"`
	Domains     []string     `toml:"domains"`
	Server      ServerConfig `toml:"server"`
}

type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	return &Config{
		StorageDir:  storageDir,
		OwnerID:     "default",
		Debounce:    Duration{300 * time.Millisecond},
		SearchLimit: 20,
		Domains:     defaultDomains(),
		Server:      ServerConfig{ListenAddr: ":8787"},
	}, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}
	if config.OwnerID == "" {
		config.OwnerID = "default"
	}
	if config.Debounce.Duration == 0 {
		config.Debounce = Duration{300 * time.Millisecond}
	}
	if config.SearchLimit <= 0 {
		config.SearchLimit = 20
	}
	if len(config.Domains) == 0 {
		config.Domains = defaultDomains()
	}
	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8787"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations naming unknown domains.
func (c *Config) Validate() error {
	for _, name := range c.Domains {
		if _, err := core.ParseDomainType(name); err != nil {
			return fmt.Errorf("config domain %q: %w", name, err)
		}
	}
	return nil
}

// DomainTypes returns the configured domains as typed values. Call
// Validate first; unknown names are silently skipped here.
func (c *Config) DomainTypes() []core.DomainType {
	out := make([]core.DomainType, 0, len(c.Domains))
	for _, name := range c.Domains {
		d, err := core.ParseDomainType(name)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return "", fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	// Replace the placeholder storage_dir with the actual path
	template := strings.Replace(configTemplate, "/home/user/.local/share/wssearch", storageDir, 1)
	return template, nil
}

func defaultDomains() []string {
	out := make([]string, len(core.SearchableDomains))
	for i, d := range core.SearchableDomains {
		out[i] = string(d)
	}
	return out
}

// GetDefaultStorageDir returns the default storage directory for databases
func GetDefaultStorageDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	searchDir := filepath.Join(dataDir, "wssearch")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(searchDir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", searchDir, err)
	}

	return searchDir, nil
}

// GetConfigDir returns the configuration directory for wssearch
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	searchConfigDir := filepath.Join(configDir, "wssearch")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(searchConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", searchConfigDir, err)
	}

	return searchConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
