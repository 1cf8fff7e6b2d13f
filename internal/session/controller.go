package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/leoconnect/leoconnect/internal/log"
)

// State is the controller's position in the session lifecycle.
//
// StateCheckingAuth is transient; StateAuthenticated and
// StateUnauthenticated are the only rest states. LoggingIn/LoggingOut are
// not distinct states — they are visible through Busy().
type State int

const (
	// StateUnknown means Bootstrap has not run yet.
	StateUnknown State = iota
	// StateCheckingAuth means the persisted session is being restored.
	StateCheckingAuth
	// StateAuthenticated means a valid session is held.
	StateAuthenticated
	// StateUnauthenticated means no session is held.
	StateUnauthenticated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCheckingAuth:
		return "checking-auth"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when a lifecycle operation is invoked while another
// one is still in flight. There is no queueing; the caller retries after
// the in-flight operation settles.
var ErrBusy = errors.New("session: another operation is in flight")

// ErrNotRegistered marks a login rejection where the identity provider
// accepted the user but the backend has no registered member for them.
// Callers route this to the account-not-registered destination instead of
// showing a generic failure.
var ErrNotRegistered = errors.New("session: account is not a registered member")

// Backend verifies third-party identity tokens and issues sessions.
// It is implemented by the API client.
type Backend interface {
	// GoogleLogin exchanges an identity token for a backend session token
	// and the canonical user profile.
	GoogleLogin(ctx context.Context, idToken string) (string, *User, error)
}

// Revoker revokes identity-provider tokens. Revocation is best-effort;
// its failure never blocks a local logout.
type Revoker interface {
	Revoke(ctx context.Context, token string) error
}

// Controller is the single authority over the current session.
//
// It owns the Unknown → CheckingAuth → Authenticated|Unauthenticated
// machine, serializes login/logout/bootstrap via a busy flag, and never
// reports Authenticated without a corresponding session in the store.
type Controller struct {
	store   *Store
	backend Backend
	revoker Revoker
	log     *log.Logger

	mu      sync.Mutex
	state   State
	busy    bool
	booted  bool
	session *Session
	lastErr error
}

// NewController creates a controller over the given store and backend.
func NewController(store *Store, backend Backend, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Controller{
		store:   store,
		backend: backend,
		log:     logger,
		state:   StateUnknown,
	}
}

// SetRevoker wires best-effort provider-side token revocation into Logout.
func (c *Controller) SetRevoker(r Revoker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoker = r
}

// Bootstrap restores the persisted session at application start.
//
// The local cache is trusted optimistically: no backend call is made, so
// a server-side revoked token is only discovered on the next authenticated
// request via the 401 hook. Bootstrap runs once per process; later calls
// are no-ops.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	if c.booted {
		c.mu.Unlock()
		return nil
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.state = StateCheckingAuth
	c.mu.Unlock()

	session, err := c.store.Read(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	c.booted = true

	if err != nil {
		c.log.WithError(err).Warn("session restore failed")
		c.state = StateUnauthenticated
		c.session = nil
		c.lastErr = err
		return err
	}

	if session == nil {
		c.state = StateUnauthenticated
		c.session = nil
		c.log.Debug("no persisted session")
		return nil
	}

	c.state = StateAuthenticated
	c.session = session
	c.lastErr = nil
	c.log.Info("session restored", "profile_cached", session.User != nil)
	return nil
}

// Login exchanges a third-party identity token for a backend session.
//
// On success the server profile overwrites any cached one and the session
// is persisted before the controller reports Authenticated. On any failure
// no write occurs, the controller stays Unauthenticated, and the error is
// retained for Err.
func (c *Controller) Login(ctx context.Context, idToken string) error {
	if idToken == "" {
		return errors.New("session: identity token is required")
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.mu.Unlock()

	token, user, err := c.backend.GoogleLogin(ctx, idToken)
	if err != nil {
		err = classifyLoginError(err)
		c.settle(StateUnauthenticated, nil, err)
		c.log.WithError(err).Warn("login rejected")
		return err
	}

	if err := c.store.Write(ctx, token, user); err != nil {
		// A session that could not be persisted is not established.
		err = fmt.Errorf("session: persist failed: %w", err)
		c.settle(StateUnauthenticated, nil, err)
		return err
	}

	c.settle(StateAuthenticated, &Session{Token: token, User: user}, nil)
	c.log.Info("login succeeded", "role", user.Role.String())
	return nil
}

// Logout destroys the local session. Local clearing is the guarantee;
// provider-side revocation is attempted but ignored on failure.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	revoker := c.revoker
	var token string
	if c.session != nil {
		token = c.session.Token
	}
	c.mu.Unlock()

	if revoker != nil && token != "" {
		if err := revoker.Revoke(ctx, token); err != nil {
			c.log.WithError(err).Warn("token revocation failed, proceeding with local logout")
		}
	}

	err := c.store.Clear(ctx)
	c.settle(StateUnauthenticated, nil, nil)
	if err != nil {
		c.log.WithError(err).Warn("local session clear failed")
		return err
	}

	c.log.Info("logged out")
	return nil
}

// HandleUnauthorized force-clears the session after the backend rejected
// a bearer token. Wired as the API client's 401 hook; runs without an
// explicit logout request.
func (c *Controller) HandleUnauthorized() {
	if err := c.store.Clear(context.Background()); err != nil {
		c.log.WithError(err).Warn("forced session clear failed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateUnauthenticated
	c.session = nil
	c.log.Info("session invalidated by backend")
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a bootstrap, login, or logout is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Session returns the current session, or nil when unauthenticated.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Token returns the current session token, or empty when unauthenticated.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// Err returns the error retained from the last failed operation.
// A successful login clears it.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Destination returns where navigation should go given the current state.
//
// Authenticated sessions route by role. A login rejected specifically as
// not-registered routes to the dedicated account-not-registered screen;
// other unauthenticated states land on the signup-success fallback.
func (c *Controller) Destination() Destination {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateAuthenticated && c.session != nil {
		if c.session.User == nil {
			return DestinationSignupSuccess
		}
		return DestinationFor(c.session.User.Role)
	}

	if errors.Is(c.lastErr, ErrNotRegistered) {
		return DestinationNotRegistered
	}
	return DestinationSignupSuccess
}

// settle records the terminal result of an in-flight operation.
func (c *Controller) settle(state State, session *Session, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	c.state = state
	c.session = session
	c.lastErr = err
}

// classifyLoginError upgrades backend rejections that indicate an
// unregistered account into ErrNotRegistered. Detection is by message
// substring, matching the backend's error contract.
func classifyLoginError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not a registered member") || strings.Contains(msg, "not registered") {
		return fmt.Errorf("%w: %v", ErrNotRegistered, err)
	}
	return err
}
