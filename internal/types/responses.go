// Package types holds response bodies shared by handlers and services.
package types

import "github.com/hottakes/hottakes-api/internal/models"

// LoginResponse is returned by POST /api/auth/login.
type LoginResponse struct {
	UserID    string `json:"userId"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// MessageResponse is the body of operations that only report a status.
type MessageResponse struct {
	Message string `json:"message"`
}

// SauceResponse reports a status together with the affected sauce.
type SauceResponse struct {
	Message string        `json:"message"`
	Sauce   *models.Sauce `json:"sauce"`
}

// VoteResponse reports a vote outcome. Counts are only set when the vote
// changed something.
type VoteResponse struct {
	Message  string `json:"message"`
	Likes    *int   `json:"likes,omitempty"`
	Dislikes *int   `json:"dislikes,omitempty"`
}
