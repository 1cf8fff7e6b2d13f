// Package auth implements the interactive credential exchange: an OAuth 2.0
// authorization-code + PKCE flow against the identity provider, normalized
// into a single Outcome per attempt.
//
// The flow opens the provider's authorization screen in a browser and
// receives the redirect on a loopback listener. The authorization code is
// exchanged directly against the token endpoint with the PKCE verifier
// generated for the attempt; by default the returned ID token is verified
// through OIDC discovery.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/leoconnect/leoconnect/internal/log"
)

// Exchanger runs interactive sign-in attempts.
//
// At most one attempt is in flight at a time; starting another while one
// is pending fails with ErrCodeFlowBusy. A new attempt resets the retained
// outcome of the previous one before starting.
type Exchanger struct {
	cfg         Config
	client      *http.Client
	openBrowser func(url string) error
	log         *log.Logger

	mu          sync.Mutex
	inFlight    bool
	lastOutcome *Outcome
}

// NewExchanger creates an exchanger with defaults applied to cfg.
// Configuration is validated at the start of each attempt, not here.
func NewExchanger(cfg Config, logger *log.Logger) *Exchanger {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Exchanger{
		cfg:         cfg.withDefaults(),
		client:      http.DefaultClient,
		openBrowser: openBrowser,
		log:         logger,
	}
}

// SetHTTPClient overrides the HTTP client used for the token exchange and
// revocation calls.
func (e *Exchanger) SetHTTPClient(client *http.Client) {
	e.client = client
}

// SetBrowserOpener overrides how the authorization URL is presented to the
// user. Tests use this to drive the flow programmatically.
func (e *Exchanger) SetBrowserOpener(fn func(url string) error) {
	e.openBrowser = fn
}

// LastOutcome returns the outcome of the most recent settled attempt, or
// nil if none has settled since the last attempt started.
func (e *Exchanger) LastOutcome() *Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastOutcome
}

// callbackResult carries the provider redirect's query parameters.
type callbackResult struct {
	code    string
	state   string
	errCode string
	errDesc string
}

// BeginSignIn runs one interactive sign-in attempt.
//
// A non-nil error is returned only for pre-flight failures (invalid
// configuration, an attempt already in flight) — nothing interactive has
// happened in that case. Once the flow starts, every terminal condition
// is reported through the Outcome: provider and exchange failures as
// OutcomeError, user dismissal and context cancellation as
// OutcomeCancelled.
func (e *Exchanger) BeginSignIn(ctx context.Context) (*Outcome, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	clientID, err := e.cfg.clientID()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return nil, NewError(ErrCodeFlowBusy, "a sign-in attempt is already in flight", nil)
	}
	e.inFlight = true
	e.lastOutcome = nil
	e.mu.Unlock()

	outcome := e.run(ctx, clientID)

	e.mu.Lock()
	e.inFlight = false
	e.lastOutcome = outcome
	e.mu.Unlock()

	return outcome, nil
}

func (e *Exchanger) run(ctx context.Context, clientID string) *Outcome {
	endpoint := oauth2.Endpoint{AuthURL: e.cfg.AuthURL, TokenURL: e.cfg.TokenURL}

	var verifier *oidc.IDTokenVerifier
	if endpoint.AuthURL == "" || !e.cfg.SkipIDTokenVerify {
		provider, err := oidc.NewProvider(ctx, e.cfg.Issuer)
		if err != nil {
			e.log.WithError(err).Warn("provider discovery failed")
			return errorOutcome(fmt.Sprintf("failed to discover provider %s: %v", e.cfg.Issuer, err))
		}
		if endpoint.AuthURL == "" {
			endpoint = provider.Endpoint()
		}
		if !e.cfg.SkipIDTokenVerify {
			verifier = provider.Verifier(&oidc.Config{ClientID: clientID})
		}
	}

	// PKCE verifier and challenge for this attempt. The verifier never
	// leaves the process; it is consumed once by the code exchange.
	codeVerifier, err := randomToken(32)
	if err != nil {
		return errorOutcome(fmt.Sprintf("failed to generate code verifier: %v", err))
	}
	challenge := pkceChallenge(codeVerifier)
	state := uuid.NewString()

	redirect, err := url.Parse(e.cfg.RedirectURL)
	if err != nil || redirect.Scheme != "http" {
		return errorOutcome(fmt.Sprintf("redirect URL %q is not a loopback http address", e.cfg.RedirectURL))
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return errorOutcome(fmt.Sprintf("failed to listen on %s: %v", redirect.Host, err))
	}
	defer listener.Close()
	redirect.Host = listener.Addr().String()

	results := make(chan callbackResult, 1)
	var once sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		once.Do(func() {
			results <- callbackResult{
				code:    q.Get("code"),
				state:   q.Get("state"),
				errCode: q.Get("error"),
				errDesc: q.Get("error_description"),
			}
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><p>Sign-in complete. You can close this window and return to LeoConnect.</p></body></html>")
	})

	server := &http.Server{Handler: mux}
	go server.Serve(listener)
	defer server.Close()

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: e.cfg.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  redirect.String(),
		Scopes:       e.cfg.Scopes,
	}

	authURL := oauthCfg.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	e.log.Info("waiting for provider authorization", "url", authURL)
	if err := e.openBrowser(authURL); err != nil {
		e.log.WithError(err).Warn("could not open a browser, visit the authorization URL manually")
	}

	var result callbackResult
	select {
	case <-ctx.Done():
		e.log.Debug("sign-in attempt cancelled")
		return cancelledOutcome()
	case result = <-results:
	}

	switch {
	case result.errCode == "access_denied":
		// The user dismissed the consent screen. Distinct from an error
		// so callers do not alarm on a cancel.
		return cancelledOutcome()
	case result.errCode != "":
		msg := result.errDesc
		if msg == "" {
			msg = result.errCode
		}
		return errorOutcome(fmt.Sprintf("provider rejected the request: %s", msg))
	case result.state != state:
		return errorOutcome("authorization response state mismatch")
	case result.code == "":
		return errorOutcome("authorization response carried no code")
	}

	if e.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, e.client)
	}

	token, err := oauthCfg.Exchange(ctx, result.code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		e.log.WithError(err).Warn("code exchange failed")
		return errorOutcome(fmt.Sprintf("code exchange failed: %v", err))
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return errorOutcome("token response carried no id_token")
	}

	if verifier != nil {
		if _, err := verifier.Verify(ctx, rawIDToken); err != nil {
			return errorOutcome(fmt.Sprintf("ID token verification failed: %v", err))
		}
	}

	e.log.Info("identity token obtained")
	return successOutcome(rawIDToken, token.AccessToken)
}

// Revoke revokes a provider token, best-effort. A missing revocation
// endpoint is not an error.
func (e *Exchanger) Revoke(ctx context.Context, token string) error {
	if e.cfg.RevokeURL == "" || token == "" {
		return nil
	}

	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return WrapError(ErrCodeRevokeFailed, "failed to build revocation request", err, nil)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(req)
	if err != nil {
		return WrapError(ErrCodeRevokeFailed, "revocation request failed", err, nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewError(ErrCodeRevokeFailed, "revocation endpoint rejected the token", map[string]any{
			"status": resp.StatusCode,
		})
	}
	return nil
}

// randomToken generates a cryptographically secure URL-safe string.
func randomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// pkceChallenge derives the S256 code challenge from a verifier.
func pkceChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
