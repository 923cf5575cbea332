package types

// User represents an authenticated, human user account in the content store.
type User struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// CreateOrUpdateUserRequest is the request body for creating or updating a user account.
type CreateOrUpdateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
}

// CreateOrUpdateUserResponse is returned after a user account is created or updated.
// It contains the access token the user authenticates with.
type CreateOrUpdateUserResponse struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}

// ServerMetadata contains information about the PressKeep server.
type ServerMetadata struct {
	Version string `json:"version"`
}
