// Package store is the persistence collaborator consumed by the
// agents. The agents only see the UserStore/TaskStore interfaces; the
// Postgres implementation backs real deployments and the memory
// implementation backs tests and zero-config local runs.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound signals a persistence miss for an unknown id.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateEmail signals a unique violation on users.email.
	ErrDuplicateEmail = errors.New("store: email already registered")
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Task struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Done      bool      `db:"done" json:"done"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
}

type TaskStore interface {
	CreateTask(ctx context.Context, t Task) error
	TasksByUser(ctx context.Context, userID string) ([]Task, error)
	// TaskByID is scoped to the owning user: another user's task id
	// behaves exactly like an unknown id.
	TaskByID(ctx context.Context, userID, taskID string) (Task, error)
	UpdateTask(ctx context.Context, t Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// Store bundles both interfaces; the concrete implementations satisfy
// it and bootstrap passes the pieces to the agents that need them.
type Store interface {
	UserStore
	TaskStore
}
