// Package api provides HTTP API functionality for the PressKeep server.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/store"
	"github.com/presskeep/presskeep/internal/telemetry"
	"github.com/presskeep/presskeep/pkg/types"
	"github.com/presskeep/presskeep/pkg/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	V0PathPrefix    = "/v0"
	V0ApiPathPrefix = "/api" + V0PathPrefix
)

type ServerOptions struct {
	// Port is the HTTP port to bind the server to
	Port string

	Registry *ability.Registry
	Invoker  *ability.Invoker
	Store    *store.Store

	OtelProviders *telemetry.Providers
	Metrics       telemetry.CustomMetrics
	Logger        *zap.Logger
}

// Server represents the PressKeep server that handles MCP and API requests
type Server struct {
	port   string
	router *gin.Engine

	registry *ability.Registry
	invoker  *ability.Invoker
	store    *store.Store

	otelProviders *telemetry.Providers
	metrics       telemetry.CustomMetrics
	logger        *zap.Logger
}

// NewServer initializes a new Gin server for the PressKeep registry and MCP endpoint
func NewServer(opts *ServerOptions) (*Server, error) {
	if opts.Registry == nil || opts.Invoker == nil || opts.Store == nil {
		return nil, fmt.Errorf("registry, invoker and store are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		port:          opts.Port,
		registry:      opts.Registry,
		invoker:       opts.Invoker,
		store:         opts.Store,
		otelProviders: opts.OtelProviders,
		metrics:       opts.Metrics,
		logger:        logger,
	}

	// Set up the router after the server is fully initialized
	r, err := s.setupRouter()
	if err != nil {
		return nil, err
	}
	s.router = r

	// The custom-rest-call ability dispatches through the fully built router.
	s.store.SetRestDispatcher(s.restDispatcher())

	return s, nil
}

// Start runs the Gin server (blocking call)
func (s *Server) Start() error {
	if err := s.router.Run(":" + s.port); err != nil {
		return fmt.Errorf("failed to run the server: %w", err)
	}
	return nil
}

// setupRouter sets up the Gin router with the MCP endpoint and API endpoints.
func (s *Server) setupRouter() (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// if otel is enabled, setup prometheus metrics endpoint
	if s.otelProviders != nil && s.otelProviders.IsEnabled() {
		// instrument gin
		r.Use(otelgin.Middleware(s.otelProviders.ServiceName()))

		// expose prometheus metrics endpoint
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET(
		"/health",
		func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		},
	)

	r.GET(
		"/metadata",
		func(c *gin.Context) {
			m := &types.ServerMetadata{
				Version: version.GetVersion(),
			}
			c.JSON(http.StatusOK, m)
		},
	)

	// Set up the MCP server on /mcp. The tool list is built once here, from
	// the registry's public abilities; registration is complete before the
	// server starts serving. Each tool call resolves its definition through
	// the invoker.
	mcpServer, err := s.buildMCPServer()
	if err != nil {
		return nil, fmt.Errorf("failed to build mcp server: %w", err)
	}
	streamableHTTPServer := server.NewStreamableHTTPServer(
		mcpServer,
		server.WithHTTPContextFunc(s.mcpContextFunc()),
	)
	r.Any(
		"/mcp",
		gin.WrapH(streamableHTTPServer),
	)

	// Setup /v0 API endpoints
	apiV0 := r.Group(
		V0ApiPathPrefix,
		s.resolveCaller(),
	)

	// endpoints accessible by any caller; abilities enforce their own permissions
	userAPI := apiV0.Group("/")
	{
		userAPI.GET("/abilities", s.listAbilitiesHandler())
		userAPI.GET("/ability", s.getAbilityHandler())
		userAPI.POST("/abilities/invoke", s.invokeAbilityHandler())
		userAPI.GET("/categories", s.listCategoriesHandler())

		userAPI.GET("/users/whoami", s.whoAmIHandler())
	}

	// endpoints only accessible to administrators
	adminAPI := apiV0.Group("/", s.requireAdminUser())
	{
		adminAPI.POST("/users", s.createUserHandler())
		adminAPI.GET("/users", s.listUsersHandler())
		adminAPI.PUT("/users/:username", s.updateUserHandler())
		adminAPI.DELETE("/users/:username", s.deleteUserHandler())
	}

	return r, nil
}
