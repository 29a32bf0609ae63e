package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver, registered for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

// Postgres implements Store on top of sqlx. Construct it with Connect
// (env-based config) or NewPostgres (injected pool, used by tests).
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres { return &Postgres{db: db} }

// DB exposes the underlying pool for readiness pings and migrations.
func (p *Postgres) DB() *sqlx.DB { return p.db }

// Connect opens the database using environment variables, loading a
// .env file from the working directory when present. DATABASE_URL
// wins; otherwise the connection string is assembled from DB_HOST,
// DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and DB_SSLMODE.
func Connect() (*Postgres, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: could not load .env file:", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := envOr("DB_HOST", "localhost")
		port := envOr("DB_PORT", "5432")
		user := envOr("DB_USER", "graphbus")
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			return nil, fmt.Errorf("DB_PASSWORD environment variable is not set (and no DATABASE_URL)")
		}
		name := envOr("DB_NAME", "graphbus")
		sslmode := envOr("DB_SSLMODE", "disable")
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, name, sslmode)
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Println("Connected to the database")
	return NewPostgres(db), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (p *Postgres) CreateUser(ctx context.Context, u User) error {
	query := `INSERT INTO users (id, email, name, password_hash, created_at)
	          VALUES (:id, :email, :name, :password_hash, :created_at)`
	if _, err := p.db.NamedExecContext(ctx, query, u); err != nil {
		if strings.Contains(err.Error(), "unique constraint") || strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := p.db.GetContext(ctx, &u,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (p *Postgres) UserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := p.db.GetContext(ctx, &u,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (p *Postgres) CreateTask(ctx context.Context, t Task) error {
	query := `INSERT INTO tasks (id, user_id, title, done, created_at, updated_at)
	          VALUES (:id, :user_id, :title, :done, :created_at, :updated_at)`
	_, err := p.db.NamedExecContext(ctx, query, t)
	return err
}

func (p *Postgres) TasksByUser(ctx context.Context, userID string) ([]Task, error) {
	tasks := []Task{}
	err := p.db.SelectContext(ctx, &tasks,
		`SELECT id, user_id, title, done, created_at, updated_at FROM tasks WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	return tasks, err
}

func (p *Postgres) TaskByID(ctx context.Context, userID, taskID string) (Task, error) {
	var t Task
	err := p.db.GetContext(ctx, &t,
		`SELECT id, user_id, title, done, created_at, updated_at FROM tasks WHERE id=$1 AND user_id=$2`,
		taskID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (p *Postgres) UpdateTask(ctx context.Context, t Task) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE tasks SET title=$1, done=$2, updated_at=$3 WHERE id=$4 AND user_id=$5`,
		t.Title, t.Done, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteTask(ctx context.Context, userID, taskID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1 AND user_id=$2`, taskID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
