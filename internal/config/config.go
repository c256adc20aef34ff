// Package config loads the HCL process configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the top-level process configuration.
type Config struct {
	Server   *ServerConfig   `hcl:"server,block"`
	Database *DatabaseConfig `hcl:"database,block"`
	Auth     *AuthConfig     `hcl:"auth,block"`
	Uploads  *UploadsConfig  `hcl:"uploads,block"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `hcl:"addr,optional"` // default ":8000"
}

// DatabaseConfig selects and configures the store.
type DatabaseConfig struct {
	Driver   string `hcl:"driver,optional"` // "postgres" (default) or "sqlite"
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
	SSLMode  string `hcl:"sslmode,optional"`
	Path     string `hcl:"path,optional"` // sqlite file
}

// AuthConfig configures token signing.
type AuthConfig struct {
	// TokenSecret signs bearer tokens. Required in server mode.
	TokenSecret string `hcl:"token_secret"`

	// TokenTTLMinutes bounds token lifetime. Default 60.
	TokenTTLMinutes int `hcl:"token_ttl_minutes,optional"`
}

// UploadsConfig selects the blob provider.
type UploadsConfig struct {
	Provider string `hcl:"provider,optional"` // "local" (default) or "s3"

	// Local provider.
	Dir string `hcl:"dir,optional"`

	// S3 provider.
	Bucket          string `hcl:"bucket,optional"`
	Region          string `hcl:"region,optional"`
	Prefix          string `hcl:"prefix,optional"`
	Endpoint        string `hcl:"endpoint,optional"`
	AccessKeyID     string `hcl:"access_key_id,optional"`
	SecretAccessKey string `hcl:"secret_access_key,optional"`
}

// Load parses the HCL config at path and applies defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config file %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// GenerateSimplified returns a zero-config setup rooted at workdir: SQLite
// store and local uploads, no external services.
func GenerateSimplified(workdir, tokenSecret string) *Config {
	cfg := &Config{
		Server: &ServerConfig{Addr: ":8000"},
		Database: &DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(workdir, "wiki.db"),
		},
		Auth: &AuthConfig{TokenSecret: tokenSecret},
		Uploads: &UploadsConfig{
			Provider: "local",
			Dir:      filepath.Join(workdir, "uploads"),
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Database == nil {
		c.Database = &DatabaseConfig{}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	if c.Auth.TokenTTLMinutes == 0 {
		c.Auth.TokenTTLMinutes = 60
	}
	if c.Uploads == nil {
		c.Uploads = &UploadsConfig{}
	}
	if c.Uploads.Provider == "" {
		c.Uploads.Provider = "local"
	}
	if c.Uploads.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		c.Uploads.Dir = filepath.Join(wd, "uploads")
	}
}
