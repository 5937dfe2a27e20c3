package models

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// AuthResponse is returned by login and register. Token is empty on register
// until the email is verified.
type AuthResponse struct {
	User    User   `json:"user"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// CreateEchoRequest is the payload for POST /echoes. ClientRef is a
// client-generated identifier for tracing the request; the server assigns
// the real ID and the draft reference never enters the feed.
type CreateEchoRequest struct {
	Content   string `json:"content"`
	ClientRef string `json:"client_ref,omitempty"`
}

// UpdateProfileRequest is the payload for PUT /users/profile. Pointer fields
// distinguish "leave unchanged" from "set to empty".
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}
