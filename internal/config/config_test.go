package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  addr = ":9000"
}

database {
  driver  = "postgres"
  host    = "db.internal"
  port    = 5432
  user    = "wiki"
  dbname  = "wiki"
}

auth {
  token_secret = "s3cret"
}

uploads {
  provider = "s3"
  bucket   = "wiki-uploads"
  region   = "us-east-1"
}
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Auth.TokenSecret)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes, "TTL defaults when omitted")
	assert.Equal(t, "s3", cfg.Uploads.Provider)
	assert.Equal(t, "wiki-uploads", cfg.Uploads.Bucket)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
}

func TestGenerateSimplified(t *testing.T) {
	cfg := GenerateSimplified("/work", "s3cret")
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, filepath.Join("/work", "wiki.db"), cfg.Database.Path)
	assert.Equal(t, "local", cfg.Uploads.Provider)
	assert.Equal(t, filepath.Join("/work", "uploads"), cfg.Uploads.Dir)
	assert.Equal(t, "s3cret", cfg.Auth.TokenSecret)
}
