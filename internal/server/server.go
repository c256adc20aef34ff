package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/wikiforge/wiki-api/internal/auth"
	"github.com/wikiforge/wiki-api/internal/config"
	"github.com/wikiforge/wiki-api/pkg/blob"
)

// Server bundles the collaborators every resource constructor receives.
type Server struct {
	// Config is the loaded process configuration.
	Config *config.Config

	// DB is the store handle. Passed explicitly to resources; the route
	// assembler never sees it.
	DB *gorm.DB

	// Blob stores uploaded file payloads.
	Blob blob.Provider

	// Tokens issues and verifies bearer tokens.
	Tokens *auth.TokenService

	// Logger is the process logger.
	Logger hclog.Logger
}
