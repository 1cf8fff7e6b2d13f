package auth

import (
	"fmt"
	"net/url"
)

// Platform selects which OAuth client identifier the flow uses. Google
// issues separate client ids per platform, and using the wrong one is a
// configuration error, not a runtime degradation.
type Platform string

const (
	PlatformWeb     Platform = "web"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// Default endpoints and scopes for the Google identity provider.
const (
	defaultIssuer    = "https://accounts.google.com"
	defaultRevokeURL = "https://oauth2.googleapis.com/revoke"
)

var defaultScopes = []string{"openid", "profile", "email"}

// Config holds the process-wide OAuth configuration loaded at startup.
type Config struct {
	// Platform selects the client identifier below.
	Platform Platform

	// Per-platform client identifiers. Only the one matching Platform
	// is required.
	WebClientID     string
	IOSClientID     string
	AndroidClientID string

	// ClientSecret is required for the web platform only.
	ClientSecret string

	// Scopes requested from the provider. Defaults to openid profile email.
	Scopes []string

	// RedirectURL receives the authorization code. A loopback address
	// with port 0 picks an ephemeral port per attempt.
	RedirectURL string

	// Issuer is the OIDC issuer used for endpoint discovery and ID-token
	// verification. Defaults to Google.
	Issuer string

	// AuthURL and TokenURL, when both set, bypass discovery.
	AuthURL  string
	TokenURL string

	// RevokeURL is the token revocation endpoint, used best-effort on
	// logout. Defaults to Google's.
	RevokeURL string

	// SkipIDTokenVerify disables ID-token signature verification.
	// Intended for tests against local token endpoints.
	SkipIDTokenVerify bool
}

// withDefaults returns a copy of the config with defaults applied.
func (c Config) withDefaults() Config {
	if len(c.Scopes) == 0 {
		c.Scopes = defaultScopes
	}
	if c.Issuer == "" {
		c.Issuer = defaultIssuer
	}
	if c.RevokeURL == "" && c.Issuer == defaultIssuer {
		c.RevokeURL = defaultRevokeURL
	}
	if c.RedirectURL == "" {
		c.RedirectURL = "http://127.0.0.1:0/oauth/callback"
	}
	return c
}

// clientID returns the client identifier for the configured platform.
func (c Config) clientID() (string, error) {
	var id string
	switch c.Platform {
	case PlatformWeb:
		id = c.WebClientID
	case PlatformIOS:
		id = c.IOSClientID
	case PlatformAndroid:
		id = c.AndroidClientID
	default:
		return "", NewError(ErrCodeConfigInvalid, "unknown platform", map[string]any{
			"platform": string(c.Platform),
		})
	}

	if id == "" {
		return "", NewError(ErrCodeConfigInvalid, "missing OAuth client id for platform", map[string]any{
			"platform": string(c.Platform),
		})
	}
	return id, nil
}

// Validate checks the configuration before any interactive step.
// Defaults are applied first, so a zero Issuer or Scopes is not an error.
func (c Config) Validate() error {
	c = c.withDefaults()

	if _, err := c.clientID(); err != nil {
		return err
	}

	if c.Platform == PlatformWeb && c.ClientSecret == "" {
		return NewError(ErrCodeConfigInvalid, "web platform requires a client secret", nil)
	}

	if (c.AuthURL == "") != (c.TokenURL == "") {
		return NewError(ErrCodeConfigInvalid, "authorize and token endpoints must be set together", nil)
	}

	if c.AuthURL == "" && c.Issuer == "" {
		return NewError(ErrCodeConfigInvalid, "an issuer or explicit endpoints are required", nil)
	}

	if _, err := url.Parse(c.RedirectURL); err != nil {
		return WrapError(ErrCodeConfigInvalid, fmt.Sprintf("invalid redirect URL %q", c.RedirectURL), err, nil)
	}

	return nil
}
