package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/leoconnect/leoconnect/internal/session"
)

// wireUser is the backend's profile shape. The free-form role string is
// normalized into session.Role here and nowhere else.
type wireUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	Role    string `json:"role"`
}

func (u wireUser) toUser() *session.User {
	return &session.User{
		Name:    u.Name,
		Email:   u.Email,
		Picture: u.Picture,
		Role:    session.ParseRole(u.Role),
	}
}

// loginResponse is the body of POST /auth/google-login.
type loginResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    wireUser `json:"user"`
}

// verifyResponse is the body of GET /auth/verify.
type verifyResponse struct {
	Success bool `json:"success"`
}

// meResponse is the body of GET /auth/me.
type meResponse struct {
	Success bool     `json:"success"`
	User    wireUser `json:"user"`
}

// GoogleLogin sends a third-party identity token for verification and
// returns the backend session token with the canonical user profile.
// The token is retained on the client for subsequent authenticated calls.
//
// Implements session.Backend.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (string, *session.User, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/google-login", map[string]string{
		"idToken": idToken,
	})
	if err != nil {
		return "", nil, err
	}

	var body loginResponse
	if err := parseResponse(resp, &body); err != nil {
		return "", nil, err
	}

	if !body.Success || body.Token == "" {
		return "", nil, errors.New("login was not successful")
	}

	c.SetToken(body.Token)
	return body.Token, body.User.toUser(), nil
}

// Verify re-validates the current session against the backend. Bootstrap
// does not call this — the local cache is trusted optimistically — but it
// is available for on-demand freshness checks.
func (c *Client) Verify(ctx context.Context) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/verify", nil)
	if err != nil {
		return false, err
	}

	var body verifyResponse
	if err := parseResponse(resp, &body); err != nil {
		return false, err
	}
	return body.Success, nil
}

// Me fetches the authoritative profile for the current session.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var body meResponse
	if err := parseResponse(resp, &body); err != nil {
		return nil, err
	}

	if !body.Success {
		return nil, errors.New("profile fetch was not successful")
	}
	return body.User.toUser(), nil
}
