package abilities

import (
	"context"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
)

func userAbilities(s *store.Store) []*ability.Definition {
	return []*ability.Definition{
		listUsersAbility(s),
		getUserAbility(s),
		getCurrentUserAbility(s),
		createUserAbility(s),
		editUserAbility(s),
	}
}

func listUsersAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/list-users",
		Label:       "List Users",
		Description: "Get all users with filtering",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"role":     enumProp("Filter by role", model.RoleAdministrator, model.RoleEditor, model.RoleAuthor, model.RoleSubscriber),
			"search":   strProp("Search in usernames, emails and display names"),
			"per_page": intProp("Number to return (default: 10, max: 100)"),
			"page":     intProp("Page number"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
		}),
		Permission: ability.RequireCapability("list_users"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			q := store.UserQuery{}
			q.Role, _ = strArg(input, "role")
			q.Search, _ = strArg(input, "search")
			q.PerPage, q.Page = pageArgs(input)

			users, total, err := s.ListUsers(q)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}

			data := make([]map[string]any, 0, len(users))
			for i := range users {
				data = append(data, formatUser(&users[i]))
			}
			return ability.OKExtra(data, map[string]any{"total": total}), nil
		},
	}
}

func getUserAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/get-user",
		Label:       "Get User",
		Description: "Retrieve a user by ID",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"user_id": intProp("User ID"),
		}, "user_id"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability("list_users"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			id, _ := uintArg(input, "user_id")
			user, err := s.GetUser(id)
			if err != nil {
				return storeFail(err, "User not found"), nil
			}
			return ability.OK(formatUser(user)), nil
		},
	}
}

func getCurrentUserAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:         "mcp-wp/get-current-user",
		Label:        "Get Current User",
		Description:  "Get the authenticated user making the request",
		Category:     Category,
		InputSchema:  objSchema(nil),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{"data": objProp("")}),
		Permission:   ability.RequireAuthentication(),
		Visibility:   ability.VisibilityPublic,
		Execute: func(ctx context.Context, _ map[string]any, caller *ability.Caller) (*ability.Result, error) {
			user, err := s.GetUser(caller.ID)
			if err != nil {
				return storeFail(err, "User not found"), nil
			}
			return ability.OK(formatUser(user)), nil
		},
	}
}

func createUserAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/create-user",
		Label:       "Create User",
		Description: "Create a new user account",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"username":     strProp("Login name"),
			"email":        strProp("Email address"),
			"password":     strProp("Account password"),
			"role":         enumProp("User role (default: subscriber)", model.RoleAdministrator, model.RoleEditor, model.RoleAuthor, model.RoleSubscriber),
			"display_name": strProp("Display name"),
			"first_name":   strProp("First name"),
			"last_name":    strProp("Last name"),
		}, "username", "email", "password"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"user_id": intProp(""),
			"data":    objProp(""),
		}),
		Permission: ability.RequireCapability("create_users"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			user := &model.User{}
			user.Username, _ = strArg(input, "username")
			user.Email, _ = strArg(input, "email")
			user.Role, _ = strArg(input, "role")
			user.DisplayName, _ = strArg(input, "display_name")
			user.FirstName, _ = strArg(input, "first_name")
			user.LastName, _ = strArg(input, "last_name")
			password, _ := strArg(input, "password")

			created, err := s.CreateUser(user, password)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OKExtra(formatUser(created), map[string]any{"user_id": created.ID}), nil
		},
	}
}

func editUserAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/edit-user",
		Label:       "Edit User",
		Description: "Modify an existing user account",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"user_id":      intProp("User ID to edit"),
			"email":        strProp("New email address"),
			"password":     strProp("New password"),
			"role":         enumProp("", model.RoleAdministrator, model.RoleEditor, model.RoleAuthor, model.RoleSubscriber),
			"display_name": strProp("New display name"),
			"first_name":   strProp("New first name"),
			"last_name":    strProp("New last name"),
		}, "user_id"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability("edit_users"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			id, _ := uintArg(input, "user_id")
			user, err := s.GetUser(id)
			if err != nil {
				return storeFail(err, "User not found"), nil
			}

			if email, ok := strArg(input, "email"); ok {
				user.Email = email
			}
			if role, ok := strArg(input, "role"); ok {
				user.Role = role
			}
			if displayName, ok := strArg(input, "display_name"); ok {
				user.DisplayName = displayName
			}
			if firstName, ok := strArg(input, "first_name"); ok {
				user.FirstName = firstName
			}
			if lastName, ok := strArg(input, "last_name"); ok {
				user.LastName = lastName
			}
			password, _ := strArg(input, "password")

			if err := s.UpdateUser(user, password); err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OK(formatUser(user)), nil
		},
	}
}
