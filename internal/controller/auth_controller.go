package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/internal/gateway"
)

// AuthState is the session slice of UI-observable state.
type AuthState struct {
	CurrentUser     *domain.User
	IsAuthenticated bool
	IsLoading       bool
	ErrorMessage    string
}

// AuthController owns sign-up, sign-in and sign-out flows.
type AuthController struct {
	gateway gateway.Service
	ui      Dispatcher
	logger  *zap.Logger

	mu    sync.RWMutex
	state AuthState
}

// NewAuthController builds the controller around an injected gateway.
func NewAuthController(gw gateway.Service, ui Dispatcher, logger *zap.Logger) *AuthController {
	return &AuthController{gateway: gw, ui: ui, logger: logger}
}

// State returns a snapshot of the observable state.
func (c *AuthController) State() AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state := c.state
	if c.state.CurrentUser != nil {
		user := *c.state.CurrentUser
		state.CurrentUser = &user
	}
	return state
}

// SignUp registers a new account and adopts the resulting session.
func (c *AuthController) SignUp(ctx context.Context, email, password string) error {
	return c.run(func() (domain.User, error) {
		return c.gateway.SignUp(ctx, email, password)
	})
}

// SignIn authenticates and adopts the resulting session.
func (c *AuthController) SignIn(ctx context.Context, email, password string) error {
	return c.run(func() (domain.User, error) {
		return c.gateway.SignIn(ctx, email, password)
	})
}

// SignOut invalidates the session. The local signed-out state is committed
// even when the remote call fails; the failure is still surfaced.
func (c *AuthController) SignOut(ctx context.Context) error {
	c.begin()

	err := c.gateway.SignOut(ctx)

	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.CurrentUser = nil
		c.state.IsAuthenticated = false
		c.state.IsLoading = false
		if err != nil {
			c.state.ErrorMessage = displayMessage(err)
		} else {
			c.state.ErrorMessage = ""
		}
		c.mu.Unlock()
	})
	if err != nil {
		c.logger.Warn("sign-out failed", zap.Error(err))
	}
	return err
}

func (c *AuthController) run(op func() (domain.User, error)) error {
	c.begin()

	user, err := op()
	if err != nil {
		dispatchWait(c.ui, func() {
			c.mu.Lock()
			c.state.IsLoading = false
			c.state.ErrorMessage = displayMessage(err)
			c.mu.Unlock()
		})
		c.logger.Warn("authentication failed", zap.Error(err))
		return err
	}

	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.CurrentUser = &user
		c.state.IsAuthenticated = true
		c.state.IsLoading = false
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
	return nil
}

func (c *AuthController) begin() {
	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.IsLoading = true
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
}
