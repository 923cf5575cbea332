package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
	"github.com/presskeep/presskeep/pkg/types"
)

func (s *Server) createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input types.CreateOrUpdateUserRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newUser, err := s.store.CreateUser(&model.User{
			Username:    input.Username,
			Email:       input.Email,
			DisplayName: input.DisplayName,
			Role:        input.Role,
		}, input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := &types.CreateOrUpdateUserResponse{
			Username:    newUser.Username,
			Role:        newUser.Role,
			AccessToken: newUser.AccessToken,
		}
		c.JSON(http.StatusCreated, resp)
	}
}

func (s *Server) listUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		perPage, _ := strconv.Atoi(c.Query("per_page"))
		page, _ := strconv.Atoi(c.Query("page"))
		users, _, err := s.store.ListUsers(store.UserQuery{
			Role:    c.Query("role"),
			Search:  c.Query("search"),
			PerPage: perPage,
			Page:    page,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := make([]*types.User, len(users))
		for i, u := range users {
			resp[i] = &types.User{
				Username:    u.Username,
				Email:       u.Email,
				DisplayName: u.DisplayName,
				Role:        u.Role,
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) updateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		var input types.CreateOrUpdateUserRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := s.store.GetUserByUsername(username)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if input.Email != "" {
			user.Email = input.Email
		}
		if input.DisplayName != "" {
			user.DisplayName = input.DisplayName
		}
		if input.Role != "" {
			user.Role = input.Role
		}
		if err := s.store.UpdateUser(user, input.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := &types.CreateOrUpdateUserResponse{
			Username:    user.Username,
			Role:        user.Role,
			AccessToken: user.AccessToken,
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) deleteUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		if err := s.store.DeleteUserByUsername(username); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (s *Server) whoAmIHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := userFromContext(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		resp := types.User{
			Username:    u.Username,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Role:        u.Role,
		}
		c.JSON(http.StatusOK, resp)
	}
}
