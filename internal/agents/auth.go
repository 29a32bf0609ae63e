package agents

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/graphbus/graphbus-starter-project/internal/agent"
	"github.com/graphbus/graphbus-starter-project/internal/auth"
	"github.com/graphbus/graphbus-starter-project/internal/bus"
	"github.com/graphbus/graphbus-starter-project/internal/store"
)

// TokenIssuer turns a verified identity into a bearer token. Token
// format and expiry are the issuer's concern, not the agent's.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Auth authenticates users and issues tokens, publishing
// /Auth/LoginSucceeded on success. It also subscribes to
// /Auth/UserRegistered to keep a running count of signups.
type Auth struct {
	agent.Node
	users  store.UserStore
	tokens TokenIssuer

	registered atomic.Int64
}

func NewAuth(b *bus.Bus, users store.UserStore, tokens TokenIssuer) *Auth {
	a := &Auth{users: users, tokens: tokens}
	a.Node = agent.Attach(b, "auth", []agent.Subscription{
		{Topic: TopicUserRegistered, Handler: a.onUserRegistered},
	})
	return a
}

func (a *Auth) onUserRegistered(ctx context.Context, e bus.Event) error {
	a.registered.Add(1)
	return nil
}

// RegisteredCount reports how many registrations this process has seen.
func (a *Auth) RegisteredCount() int64 { return a.registered.Load() }

// Login verifies email+password and returns a bearer token. Unknown
// emails and wrong passwords both map to ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	if err := a.Publish(ctx, TopicLoginSucceeded, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	}); err != nil {
		return "", err
	}
	return token, nil
}
