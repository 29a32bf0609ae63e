package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgres(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))

	err := s.CreateUser(context.Background(), User{ID: "u1", Email: "a@x.com", Name: "Alice"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserByEmailNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	query := regexp.QuoteMeta(`SELECT id, email, name, password_hash, created_at FROM users WHERE email=$1`)
	mock.ExpectQuery(query).WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at"}))

	_, err := s.UserByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTasksByUserOrderedNewestFirst(t *testing.T) {
	s, mock := newMockStore(t)

	now := time.Now()
	query := regexp.QuoteMeta(`SELECT id, user_id, title, done, created_at, updated_at FROM tasks WHERE user_id=$1 ORDER BY created_at DESC`)
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "done", "created_at", "updated_at"}).
		AddRow("t2", "u1", "newer", false, now, now).
		AddRow("t1", "u1", "older", true, now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery(query).WithArgs("u1").WillReturnRows(rows)

	tasks, err := s.TasksByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("TasksByUser: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "t2" || tasks[1].ID != "t1" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestUpdateTaskZeroRowsIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	query := regexp.QuoteMeta(`UPDATE tasks SET title=$1, done=$2, updated_at=$3 WHERE id=$4 AND user_id=$5`)
	mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateTask(context.Background(), Task{ID: "missing", UserID: "u1", Title: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	s, mock := newMockStore(t)

	query := regexp.QuoteMeta(`DELETE FROM tasks WHERE id=$1 AND user_id=$2`)
	mock.ExpectExec(query).WithArgs("t1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("t1", "u1").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteTask(context.Background(), "u1", "t1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.DeleteTask(context.Background(), "u1", "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete expected ErrNotFound, got %v", err)
	}
}
