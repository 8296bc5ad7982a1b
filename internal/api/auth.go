package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"jendo-cli/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.AuthResult{}, &InputError{Field: "email", Message: "Email is required"}
	}
	if password == "" {
		return model.AuthResult{}, &InputError{Field: "password", Message: "Password is required"}
	}
	return sendJSON[model.AuthResult](ctx, c, "login", http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	return getJSON[model.User](ctx, c, "current user", "/auth/me")
}

// Logout is best effort; the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	_, err := sendJSON[json.RawMessage](ctx, c, "logout", http.MethodPost, "/auth/logout", nil)
	return err
}

func (c *Client) Profile(ctx context.Context) (model.User, error) {
	return getJSON[model.User](ctx, c, "get profile", "/user/profile")
}
