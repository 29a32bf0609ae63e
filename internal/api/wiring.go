package api

import (
	"github.com/graphbus/graphbus-starter-project/internal/agents"
	"github.com/graphbus/graphbus-starter-project/internal/store"
)

// Package-level agent references, set once at bootstrap before the
// router starts serving. The route layer calls agent operations
// directly; everything downstream of an operation flows through the
// bus.
var (
	registrationAgent *agents.Registration
	authAgent         *agents.Auth
	taskManagerAgent  *agents.TaskManager
	userStore         store.UserStore
)

// Wire installs the constructed agents and the user store (used by
// /auth/me, which is a plain profile read, not an agent operation).
func Wire(reg *agents.Registration, auth *agents.Auth, tasks *agents.TaskManager, users store.UserStore) {
	registrationAgent = reg
	authAgent = auth
	taskManagerAgent = tasks
	userStore = users
}
