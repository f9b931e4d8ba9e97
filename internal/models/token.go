package models

import "time"

// LoginResponse is returned by both login and signup. Keys are camelCase
// like the request payloads, which existing clients depend on.
type LoginResponse struct {
	Token      string    `json:"token"`
	TokenType  string    `json:"tokenType"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	TenantSlug string    `json:"tenantSlug"`
}

// LoginRequest carries credentials for the login entry point
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest carries the payload of the signup entry point
type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TenantName string `json:"tenantName"`
}
