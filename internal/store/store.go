// Package store implements the PressKeep content store: persistence and
// domain operations for content items, users, media, terms, patterns,
// plugins, themes and settings. Abilities are thin adapters over this
// package.
package store

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// RestDispatcher executes an HTTP request against the hosting platform's own
// router without going over the network. It backs the custom-rest-call
// ability. The returned body is the decoded JSON response.
type RestDispatcher func(ctx context.Context, method, route string, params map[string]any, body map[string]any) (status int, response any, err error)

// Config holds the dependencies for creating a Store.
type Config struct {
	DB *gorm.DB

	// Files is the filesystem media uploads are written to.
	// Defaults to an in-memory filesystem, which suits tests; production
	// passes afero.NewOsFs().
	Files afero.Fs

	// UploadDir is the directory under Files where media files land.
	UploadDir string

	// BaseURL is the public base URL of the site, used to build permalinks
	// and media URLs.
	BaseURL string
}

// Store provides the domain operations over the content database.
type Store struct {
	db        *gorm.DB
	files     afero.Fs
	uploadDir string
	baseURL   string

	// dispatcher is set by the API layer after the router exists.
	dispatcher RestDispatcher
}

// NewStore creates a content store with the given configuration.
func NewStore(cfg *Config) (*Store, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("store requires a database connection")
	}
	files := cfg.Files
	if files == nil {
		files = afero.NewMemMapFs()
	}
	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Store{
		db:        cfg.DB,
		files:     files,
		uploadDir: uploadDir,
		baseURL:   baseURL,
	}, nil
}

// BaseURL returns the site's public base URL without a trailing slash.
func (s *Store) BaseURL() string {
	return s.baseURL
}

// SetRestDispatcher installs the dispatcher used by REST passthrough calls.
// It is called once during startup, after the HTTP router is constructed.
func (s *Store) SetRestDispatcher(d RestDispatcher) {
	s.dispatcher = d
}

// DispatchRest performs an internal REST request through the installed
// dispatcher.
func (s *Store) DispatchRest(ctx context.Context, method, route string, params map[string]any, body map[string]any) (int, any, error) {
	if s.dispatcher == nil {
		return 0, nil, fmt.Errorf("no REST dispatcher is configured")
	}
	return s.dispatcher(ctx, method, route, params, body)
}
