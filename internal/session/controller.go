// Package session owns the current-user identity and the landing/dashboard
// screen state. It drives login, logout and the one-time startup session
// restoration against the gateway.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/lunarjournal/internal/gateway"
	"github.com/dmitrijs2005/lunarjournal/internal/logging"
	"github.com/dmitrijs2005/lunarjournal/internal/models"
	"github.com/dmitrijs2005/lunarjournal/internal/store"
)

// State of the session machine. Initializing lasts from process start
// until the first CurrentUser resolution and never recurs.
type State string

const (
	StateInitializing  State = "initializing"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Screen is the projection of State the presentation layer renders.
type Screen string

const (
	ScreenLanding   Screen = "landing"
	ScreenDashboard Screen = "dashboard"
)

// Controller is the single owner of session state. All mutation goes
// through Initialize, Login and Logout; everything else observes.
type Controller struct {
	gw  gateway.Gateway
	st  *store.Store
	log logging.Logger

	mu          sync.Mutex
	state       State
	user        *models.User
	connected   bool
	initialized bool
}

// NewController builds a controller in the initializing state. The store
// is injected so session boundaries can clear it unconditionally.
func NewController(gw gateway.Gateway, st *store.Store, log logging.Logger) *Controller {
	return &Controller{gw: gw, st: st, log: log, state: StateInitializing}
}

// Initialize performs the one-time startup transition: health probe first
// (failure only degrades the connectivity flag), then a session restore
// attempt. Repeated calls are no-ops returning the settled state.
func (c *Controller) Initialize(ctx context.Context) State {
	c.mu.Lock()
	if c.initialized {
		state := c.state
		c.mu.Unlock()
		return state
	}
	c.initialized = true
	c.mu.Unlock()

	ok, err := c.gw.CheckHealth(ctx)
	if err != nil {
		c.log.Warn(ctx, "backend health check failed", "error", err)
	}
	c.SetConnected(ok)

	user, err := c.gw.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, gateway.ErrNoSession) {
			c.log.Warn(ctx, "session restoration failed", "error", err)
		}
		c.toAnonymous()
		return StateAnonymous
	}

	c.log.Info(ctx, "session restored", "user", user.Email)
	c.toAuthenticated(user)
	return StateAuthenticated
}

// Login authenticates and resolves the user snapshot. On any failure the
// state stays anonymous and the error is returned for the landing screen
// to display.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if err := c.gw.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	user, err := c.gw.CurrentUser(ctx)
	if err != nil {
		// Drop the just-issued token: a session that never reached the
		// authenticated state must not restore itself on the next start.
		_ = c.gw.Logout(ctx)
		return fmt.Errorf("resolving user: %w", err)
	}

	c.log.Info(ctx, "logged in", "user", user.Email)
	c.toAuthenticated(user)
	return nil
}

// Logout is best-effort remote, guaranteed local: the remote call may
// fail, the local clearing of user and store never does.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.gw.Logout(ctx); err != nil {
		c.log.Warn(ctx, "remote logout failed", "error", err)
	}
	c.toAnonymous()
	c.log.Info(ctx, "logged out")
}

func (c *Controller) toAuthenticated(user *models.User) {
	c.mu.Lock()
	c.state = StateAuthenticated
	c.user = user
	c.mu.Unlock()

	// A fresh session starts from an empty list; this also invalidates
	// loads still in flight for a previous session.
	c.st.Reset()
}

func (c *Controller) toAnonymous() {
	c.mu.Lock()
	c.state = StateAnonymous
	c.user = nil
	c.mu.Unlock()

	c.st.Reset()
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Screen projects the state onto the screen to render. Anything but an
// authenticated session lands on the landing screen.
func (c *Controller) Screen() Screen {
	if c.State() == StateAuthenticated {
		return ScreenDashboard
	}
	return ScreenLanding
}

// User returns the immutable snapshot of the authenticated user, or nil.
func (c *Controller) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Connected reports the last known backend reachability.
func (c *Controller) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SetConnected records backend reachability, logging transitions only.
func (c *Controller) SetConnected(ok bool) {
	c.mu.Lock()
	changed := c.connected != ok
	c.connected = ok
	c.mu.Unlock()

	if changed {
		if ok {
			c.log.Info(context.Background(), "backend connected")
		} else {
			c.log.Warn(context.Background(), "backend disconnected")
		}
	}
}
