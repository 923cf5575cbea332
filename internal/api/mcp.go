package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/pkg/version"
	"go.uber.org/zap"
)

type mcpCallerKey struct{}

// buildMCPServer constructs the MCP server exposing every public ability as
// a tool. Tool calls run through the same invoker pipeline as the HTTP API.
func (s *Server) buildMCPServer() (*server.MCPServer, error) {
	mcpServer := server.NewMCPServer(
		"PressKeep Content Management Server",
		version.GetVersion(),
		server.WithToolCapabilities(true),
	)

	for _, def := range s.registry.List(ability.Filter{Visibility: ability.VisibilityPublic}) {
		tool, err := convertAbilityToMcpTool(def)
		if err != nil {
			return nil, err
		}
		mcpServer.AddTool(tool, s.mcpToolCallHandler(def.Name))
	}
	return mcpServer, nil
}

// mcpContextFunc carries the authenticated caller from the HTTP request into
// the context seen by MCP tool handlers.
func (s *Server) mcpContextFunc() server.HTTPContextFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		token := extractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			return ctx
		}
		user, err := s.store.GetUserByAccessToken(token)
		if err != nil {
			return ctx
		}
		return context.WithValue(ctx, mcpCallerKey{}, &ability.Caller{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
	}
}

func (s *Server) mcpToolCallHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		caller, _ := ctx.Value(mcpCallerKey{}).(*ability.Caller)

		result := s.invoker.Invoke(ctx, name, request.GetArguments(), caller)
		payload, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("failed to marshal invocation result",
				zap.String("ability", name), zap.Error(err))
			return mcp.NewToolResultError("failed to serialize result"), nil
		}
		if !result.Success {
			return mcp.NewToolResultError(string(payload)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

// convertAbilityToMcpTool converts an ability definition to an mcp.Tool object
func convertAbilityToMcpTool(def *ability.Definition) (mcp.Tool, error) {
	tool := mcp.Tool{
		Name:        mcpToolName(def.Name),
		Description: def.Description,
	}

	raw, err := json.Marshal(def.InputSchema.ToMap())
	if err != nil {
		return mcp.Tool{}, err
	}
	var inputSchema mcp.ToolInputSchema
	if err := json.Unmarshal(raw, &inputSchema); err != nil {
		return mcp.Tool{}, err
	}
	tool.InputSchema = inputSchema

	return tool, nil
}

// mcpToolName flattens an ability name into a valid MCP tool name.
// Tool names cannot contain "/", so "mcp-wp/create-page" becomes
// "mcp-wp__create-page".
func mcpToolName(abilityName string) string {
	return strings.ReplaceAll(abilityName, "/", "__")
}
