package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/pkg/apperr"
)

// Session is the authenticated backend session: the one piece of
// process-wide shared state. It is read by every controller but mutated
// only by sign-in, sign-up and sign-out.
type Session struct {
	AccessToken string
	UserID      uuid.UUID
	ExpiresAt   time.Time
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	} `json:"user"`
}

// Session returns a copy of the current session, if any.
func (c *Client) Session() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// SignUp registers a new account and returns the profile row the backend
// created for it.
func (c *Client) SignUp(ctx context.Context, email, password string) (domain.User, error) {
	return c.authenticate(ctx, "/auth/v1/signup", nil, email, password)
}

// SignIn authenticates an existing account and returns its profile row.
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	query := url.Values{"grant_type": {"password"}}
	return c.authenticate(ctx, "/auth/v1/token", query, email, password)
}

// SignOut invalidates the local session token. Idempotent: signing out
// without a session is a no-op.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return nil
	}

	status, body, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apperr.Auth(serverMessage(status, body), nil)
	}
	c.logger.Info("signed out", zap.String("user_id", session.UserID.String()))
	return nil
}

// authenticate runs one credential exchange and the follow-up profile
// lookup. Every failure of the credential step is an auth error; a missing
// profile row after a successful exchange is a distinct failure so callers
// can tell "bad credentials" from "account without a profile".
func (c *Client) authenticate(ctx context.Context, path string, query url.Values, email, password string) (domain.User, error) {
	creds := credentials{Email: email, Password: password}
	if err := c.validate.Struct(creds); err != nil {
		return domain.User{}, apperr.Auth("invalid credentials", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, path, query, creds)
	if err != nil {
		return domain.User{}, apperr.Auth("authentication request failed", err)
	}
	if status < 200 || status >= 300 {
		return domain.User{}, apperr.Auth(serverMessage(status, body), nil)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.User{}, apperr.Decode("malformed auth response", err)
	}
	if resp.AccessToken == "" {
		return domain.User{}, apperr.Auth("auth response carried no access token", nil)
	}

	session, err := sessionFromToken(resp.AccessToken)
	if err != nil {
		return domain.User{}, err
	}
	if session.UserID == uuid.Nil {
		session.UserID = resp.User.ID
	}

	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()

	user, err := c.FetchUserProfile(ctx, session.UserID)
	if err != nil {
		// A sign-in that cannot produce a profile leaves no session behind.
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
		if apperr.IsKind(err, apperr.KindNotFound) {
			return domain.User{}, apperr.ProfileNotFound(session.UserID.String())
		}
		return domain.User{}, err
	}

	c.logger.Info("authenticated", zap.String("user_id", session.UserID.String()))
	return user, nil
}

// sessionFromToken reads the subject identity out of the access token's
// claims. The signature is not verified: that is the backend's job, the
// client only needs the subject for follow-up queries.
func sessionFromToken(token string) (Session, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Session{}, apperr.Auth("unreadable access token", err)
	}

	session := Session{AccessToken: token}
	if claims.Subject != "" {
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return Session{}, apperr.Auth("access token subject is not an identity", err)
		}
		session.UserID = userID
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
