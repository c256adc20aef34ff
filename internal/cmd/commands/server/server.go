package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/spf13/afero"

	"github.com/wikiforge/wiki-api/internal/api"
	"github.com/wikiforge/wiki-api/internal/auth"
	"github.com/wikiforge/wiki-api/internal/cmd/base"
	"github.com/wikiforge/wiki-api/internal/config"
	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/internal/versioning"
	"github.com/wikiforge/wiki-api/pkg/blob"
	"github.com/wikiforge/wiki-api/pkg/database"
	"github.com/wikiforge/wiki-api/pkg/registry"
)

type Command struct {
	*base.Command

	flagConfig  string
	flagAddr    string
	flagBrowser bool
}

func (c *Command) Synopsis() string {
	return "Run the API server"
}

func (c *Command) Help() string {
	return `Usage: wiki-api server [options]

  Run the API server. Without -config a zero-config setup is used:
  SQLite store and local upload directory under the working directory.

` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet("server")
	f.StringVar(&c.flagConfig, "config", "", "Path to an HCL config file")
	f.StringVar(&c.flagAddr, "addr", "", "Listen address (overrides config)")
	f.BoolVar(&c.flagBrowser, "browser", false, "Open a browser once the server is up")
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.loadConfig()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if c.flagAddr != "" {
		cfg.Server.Addr = c.flagAddr
	}
	if cfg.Auth.TokenSecret == "" {
		c.UI.Error("auth token_secret is required")
		return 1
	}

	log := c.Log.Named("server")

	db, err := database.Connect(database.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		Path:     cfg.Database.Path,
	}, log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}

	provider, err := c.buildBlobProvider(cfg)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error configuring uploads: %v", err))
		return 1
	}

	tokens := auth.NewTokenService(
		cfg.Auth.TokenSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)

	srv := server.Server{
		Config: cfg,
		DB:     db,
		Blob:   provider,
		Tokens: tokens,
		Logger: log,
	}
	engine := versioning.NewEngine(db, log.Named("versioning"))

	router := mux.NewRouter()
	gate := auth.NewGate(tokens, log.Named("gate"))
	err = registry.Mount(router, gate, log,
		api.ArticlesResource(srv, engine),
		api.SectionsResource(srv),
		api.TagsResource(srv),
		api.CommentsResource(srv),
		api.CommentAdminResource(srv),
		api.UsersResource(srv),
		api.AuthResource(srv),
		api.NotificationsResource(srv),
		api.SearchResource(srv),
		api.StatsResource(srv),
		api.HistoryResource(srv),
		api.UploadResource(srv),
		api.FilesResource(srv),
		api.AttachmentsResource(srv),
	)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error mounting resources: %v", err))
		return 1
	}

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	if c.flagBrowser {
		go openBrowserWhenReady(c, "http://localhost"+cfg.Server.Addr)
	}

	log.Info("listening", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		c.UI.Error(fmt.Sprintf("server error: %v", err))
		return 1
	}
	return 0
}

// loadConfig reads the configured HCL file, or falls back to the
// zero-config setup rooted at the working directory.
func (c *Command) loadConfig() (*config.Config, error) {
	if c.flagConfig != "" {
		cfg, err := config.Load(c.flagConfig)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		return cfg, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error getting working directory: %w", err)
	}
	secret := os.Getenv("WIKI_TOKEN_SECRET")
	if secret == "" {
		// Tokens won't survive restarts, which is fine for local use.
		secret = uuid.New().String()
	}
	c.UI.Info("No config file specified, using zero-config setup")
	return config.GenerateSimplified(wd, secret), nil
}

func (c *Command) buildBlobProvider(cfg *config.Config) (blob.Provider, error) {
	switch cfg.Uploads.Provider {
	case "local", "":
		local, err := blob.NewLocal(afero.NewOsFs(), cfg.Uploads.Dir, registry.APIPrefix+"/uploads")
		if err != nil {
			return nil, err
		}
		return local, nil
	case "s3":
		s3, err := blob.NewS3(context.Background(), blob.S3Config{
			Bucket:          cfg.Uploads.Bucket,
			Region:          cfg.Uploads.Region,
			Prefix:          cfg.Uploads.Prefix,
			Endpoint:        cfg.Uploads.Endpoint,
			AccessKeyID:     cfg.Uploads.AccessKeyID,
			SecretAccessKey: cfg.Uploads.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("unsupported uploads provider: %s", cfg.Uploads.Provider)
	}
}
