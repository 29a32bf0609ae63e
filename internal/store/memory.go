package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is a map-backed Store. It is the zero-config default for
// local development (the original starter fell back to an on-disk
// sqlite file the same way) and the fixture for agent and route tests.
type Memory struct {
	mu    sync.RWMutex
	users map[string]User // keyed by id
	tasks map[string]Task // keyed by id
}

func NewMemory() *Memory {
	return &Memory{users: map[string]User{}, tasks: map[string]Task{}}
}

func (m *Memory) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *Memory) UserByID(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) CreateTask(_ context.Context, t Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
	return nil
}

func (m *Memory) TasksByUser(_ context.Context, userID string) ([]Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tasks := []Task{}
	for _, t := range m.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	// newest first, matching the Postgres query
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks, nil
}

func (m *Memory) TaskByID(_ context.Context, userID, taskID string) (Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[taskID]
	if !ok || t.UserID != userID {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (m *Memory) UpdateTask(_ context.Context, t Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return ErrNotFound
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *Memory) DeleteTask(_ context.Context, userID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(m.tasks, taskID)
	return nil
}
