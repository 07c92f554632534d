package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/costfeed/internal/transfer"
)

// Config holds all runtime configuration for a feedpull run.
type Config struct {
	Host           string
	Port           int
	Username       string
	Password       string
	RemoteDir      string
	LocalDir       string
	Transport      string // "sftp" or "ftp"
	FilenameGlob   string
	ConnectTimeout time.Duration

	EnforceSizeMatch bool
	EnforceMD5Match  bool
	// MD5Sums maps remote file names to expected hex digests. Servers do not
	// publish hashes, so these always come from the operator.
	MD5Sums map[string]string

	LogFormat   string // "text" or "json"
	DSN         string
	MetricsFile string
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Host             string            `yaml:"host"`
	Port             int               `yaml:"port"`
	Username         string            `yaml:"username"`
	RemoteDir        string            `yaml:"remote_dir"`
	LocalDir         string            `yaml:"local_dir"`
	Transport        string            `yaml:"transport"`
	FilenameGlob     string            `yaml:"filename_glob"`
	ConnectTimeout   string            `yaml:"connect_timeout"`
	EnforceSizeMatch bool              `yaml:"enforce_size_match"`
	EnforceMD5Match  bool              `yaml:"enforce_md5_match"`
	MD5Sums          map[string]string `yaml:"md5_sums"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set (from flags) win over the file; the boolean enforcement
// flags combine with OR so the file can only add checks, never silence them.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setIfEmpty(&c.Host, yc.Host)
	setIfEmpty(&c.Username, yc.Username)
	setIfEmpty(&c.RemoteDir, yc.RemoteDir)
	setIfEmpty(&c.LocalDir, yc.LocalDir)
	setIfEmpty(&c.Transport, yc.Transport)
	setIfEmpty(&c.FilenameGlob, yc.FilenameGlob)
	if c.Port == 0 {
		c.Port = yc.Port
	}
	if yc.ConnectTimeout != "" && c.ConnectTimeout == 0 {
		d, err := time.ParseDuration(yc.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("parse connect_timeout: %w", err)
		}
		c.ConnectTimeout = d
	}
	c.EnforceSizeMatch = c.EnforceSizeMatch || yc.EnforceSizeMatch
	c.EnforceMD5Match = c.EnforceMD5Match || yc.EnforceMD5Match
	if c.MD5Sums == nil {
		c.MD5Sums = yc.MD5Sums
	}
	return nil
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// Validate checks the fields every remote operation needs and fills defaults.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("--host is required")
	}
	if c.RemoteDir == "" {
		return fmt.Errorf("--remote-dir is required")
	}
	switch c.Transport {
	case transfer.TransportSFTP, transfer.TransportFTP:
	case "":
		c.Transport = transfer.TransportSFTP
	default:
		return fmt.Errorf("unknown transport %q (want sftp or ftp)", c.Transport)
	}
	if c.FilenameGlob == "" {
		c.FilenameGlob = "*"
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 30 * time.Second
	}
	return nil
}

// ValidateForPull additionally requires a local destination directory.
func (c *Config) ValidateForPull() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.LocalDir == "" {
		return fmt.Errorf("--local-dir is required")
	}
	return nil
}

// Endpoint builds the transfer endpoint for this config.
func (c *Config) Endpoint() transfer.Endpoint {
	return transfer.Endpoint{
		Transport: c.Transport,
		Host:      c.Host,
		Port:      c.Port,
		Username:  c.Username,
		Password:  c.Password,
		Timeout:   c.ConnectTimeout,
	}
}
