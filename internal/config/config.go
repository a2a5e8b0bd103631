package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the main configuration for lazymaint.
type Config struct {
	// Home is the media-center configuration tree this tool maintains.
	Home string `toml:"home"`
	// AddonID is the tool's own directory name under addons, spared by reset.
	AddonID string `toml:"addon_id"`
	// LogName is the host log file name, spared by temp wipes and trims.
	LogName string `toml:"log_name"`
	// AutoCleanMiB is the thumbnail cache budget for clean; 0 disables trimming.
	AutoCleanMiB int64 `toml:"auto_clean_mib"`
	// StartupGraceSeconds delays the automatic startup clean.
	StartupGraceSeconds int `toml:"startup_grace_seconds"`

	Journal      JournalConfig       `toml:"journal"`
	Destinations []DestinationConfig `toml:"destinations"`
	Upload       UploadConfig        `toml:"upload"`
}

// DestinationConfig describes a named backup destination.
// Tagged union: Type determines which other fields are relevant.
type DestinationConfig struct {
	Type string `toml:"type"` // "filesystem" or "s3"
	Name string `toml:"name"`

	// Filesystem-specific (Type == "filesystem")
	Path string `toml:"path,omitempty"`

	// S3-specific (Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// JournalConfig describes the operation journal store.
// Tagged union: Type is "sqlite" or "none".
type JournalConfig struct {
	Type    string `toml:"type"`
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// UploadConfig holds the paste-service endpoint for log upload.
type UploadConfig struct {
	URL string `toml:"url"`
}

// NewConfig creates a Config with defaults for the given home tree.
func NewConfig(home string) *Config {
	return &Config{
		Home:                home,
		AddonID:             "lazymaint",
		LogName:             "kodi.log",
		AutoCleanMiB:        50,
		StartupGraceSeconds: 5,
		Journal: JournalConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(home, "userdata", "Database"),
		},
		Upload: UploadConfig{
			URL: "https://paste.kodi.tv/documents",
		},
	}
}

// FindDestination returns the named destination config, if present.
func (c *Config) FindDestination(name string) (DestinationConfig, bool) {
	for _, d := range c.Destinations {
		if d.Name == name {
			return d, true
		}
	}
	return DestinationConfig{}, false
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
