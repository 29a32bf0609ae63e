package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/graphbus/graphbus-starter-project/internal/agent"
	"github.com/graphbus/graphbus-starter-project/internal/auth"
	"github.com/graphbus/graphbus-starter-project/internal/bus"
	"github.com/graphbus/graphbus-starter-project/internal/store"
)

// Registration validates and registers new users, publishing
// /Auth/UserRegistered on success so downstream agents can react to
// new signups.
type Registration struct {
	agent.Node
	users store.UserStore
}

func NewRegistration(b *bus.Bus, users store.UserStore) *Registration {
	a := &Registration{users: users}
	a.Node = agent.Attach(b, "registration", nil)
	return a
}

// Register creates a new user account and returns its id.
// The /Auth/UserRegistered event is published after the user row is
// committed; a failing subscriber surfaces here as *bus.HandlerError
// and the row is not rolled back.
func (a *Registration) Register(ctx context.Context, email, password, name string) (string, error) {
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if len(password) < 8 {
		return "", fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := store.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		return "", err
	}

	if err := a.Publish(ctx, TopicUserRegistered, map[string]any{
		"user_id": user.ID,
		"email":   email,
		"name":    name,
	}); err != nil {
		return "", err
	}
	return user.ID, nil
}
