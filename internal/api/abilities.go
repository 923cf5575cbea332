package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/pkg/types"
)

func (s *Server) listAbilitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := ability.Filter{
			Category:   c.Query("category"),
			Visibility: ability.Visibility(c.Query("visibility")),
		}
		if filter.Visibility == "" {
			filter.Visibility = ability.VisibilityPublic
		}

		defs := s.registry.List(filter)
		resp := make([]*types.Ability, len(defs))
		for i, def := range defs {
			resp[i] = toAPIAbility(def, false)
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) getAbilityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
			return
		}

		def, err := s.registry.Lookup(name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toAPIAbility(def, true))
	}
}

func (s *Server) invokeAbilityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.InvokeAbilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		result := s.invoker.Invoke(c.Request.Context(), req.Name, req.Input, callerFromContext(c))
		c.JSON(invocationStatus(result), result)
	}
}

func (s *Server) listCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories := s.registry.Categories()
		resp := make([]*types.Category, len(categories))
		for i, cat := range categories {
			resp[i] = &types.Category{Name: cat.Name, Label: cat.Label}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// invocationStatus maps a result envelope to an HTTP status. The envelope
// itself always carries the authoritative outcome.
func invocationStatus(result *ability.Result) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Code {
	case ability.CodeInvalidInput:
		return http.StatusBadRequest
	case ability.CodeUnauthorized:
		return http.StatusForbidden
	case ability.CodeNotFound, ability.CodeAbilityNotFound:
		return http.StatusNotFound
	case ability.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func toAPIAbility(def *ability.Definition, includeSchema bool) *types.Ability {
	a := &types.Ability{
		Name:        def.Name,
		Label:       def.Label,
		Description: def.Description,
		Category:    def.Category,
		Visibility:  string(def.Visibility),
	}
	if includeSchema {
		a.InputSchema = toAPISchema(def.InputSchema)
	}
	return a
}

func toAPISchema(schema *ability.Schema) *types.AbilitySchema {
	if schema == nil {
		return nil
	}
	out := &types.AbilitySchema{
		Type:        string(schema.Kind),
		Description: schema.Description,
		Required:    schema.Required,
		Enum:        schema.Enum,
	}
	if len(schema.Properties) > 0 {
		out.Properties = make(map[string]types.AbilitySchema, len(schema.Properties))
		for name, prop := range schema.Properties {
			out.Properties[name] = *toAPISchema(prop)
		}
	}
	if schema.Items != nil {
		out.Items = toAPISchema(schema.Items)
	}
	return out
}
