package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/graphbus/graphbus-starter-project/internal/agent"
	"github.com/graphbus/graphbus-starter-project/internal/bus"
	"github.com/graphbus/graphbus-starter-project/internal/store"
)

const welcomeTaskTitle = "Welcome! Start by exploring the dashboard."

// TaskManager handles task CRUD and publishes lifecycle events on the
// /Tasks/* namespace. It subscribes to /Auth/UserRegistered to create
// a welcome task for every new user.
type TaskManager struct {
	agent.Node
	tasks store.TaskStore
}

func NewTaskManager(b *bus.Bus, tasks store.TaskStore) *TaskManager {
	a := &TaskManager{tasks: tasks}
	a.Node = agent.Attach(b, "taskmanager", []agent.Subscription{
		{Topic: TopicUserRegistered, Handler: a.onUserRegistered},
	})
	return a
}

func (a *TaskManager) onUserRegistered(ctx context.Context, e bus.Event) error {
	userID, _ := e.Payload["user_id"].(string)
	if userID == "" {
		return fmt.Errorf("%s payload missing user_id", e.Topic)
	}
	now := time.Now()
	return a.tasks.CreateTask(ctx, store.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     welcomeTaskTitle,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Create adds a task for the user and publishes /Tasks/Created.
func (a *TaskManager) Create(ctx context.Context, userID, title string) (store.Task, error) {
	if strings.TrimSpace(title) == "" {
		return store.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	now := time.Now()
	task := store.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.tasks.CreateTask(ctx, task); err != nil {
		return store.Task{}, err
	}

	if err := a.Publish(ctx, TopicTaskCreated, map[string]any{
		"task_id": task.ID,
		"title":   task.Title,
		"user_id": userID,
	}); err != nil {
		return store.Task{}, err
	}
	return task, nil
}

// List returns the user's tasks, newest first.
func (a *TaskManager) List(ctx context.Context, userID string) ([]store.Task, error) {
	return a.tasks.TasksByUser(ctx, userID)
}

// Update changes a task's title and/or done flag. Nil fields are left
// untouched. Unknown ids return store.ErrNotFound and publish nothing.
func (a *TaskManager) Update(ctx context.Context, userID, taskID string, title *string, done *bool) (store.Task, error) {
	task, err := a.tasks.TaskByID(ctx, userID, taskID)
	if err != nil {
		return store.Task{}, err
	}
	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return store.Task{}, fmt.Errorf("%w: title must not be blank", ErrInvalidInput)
		}
		task.Title = *title
	}
	if done != nil {
		task.Done = *done
	}
	task.UpdatedAt = time.Now()
	if err := a.tasks.UpdateTask(ctx, task); err != nil {
		return store.Task{}, err
	}

	if err := a.Publish(ctx, TopicTaskUpdated, map[string]any{
		"task_id": task.ID,
		"title":   task.Title,
		"done":    task.Done,
	}); err != nil {
		return store.Task{}, err
	}
	return task, nil
}

// Delete removes a task and publishes /Tasks/Deleted. Unknown ids
// return store.ErrNotFound and publish nothing.
func (a *TaskManager) Delete(ctx context.Context, userID, taskID string) error {
	if err := a.tasks.DeleteTask(ctx, userID, taskID); err != nil {
		return err
	}
	return a.Publish(ctx, TopicTaskDeleted, map[string]any{
		"task_id": taskID,
		"user_id": userID,
	})
}
