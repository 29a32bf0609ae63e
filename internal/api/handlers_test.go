package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/graphbus/graphbus-starter-project/internal/agents"
	"github.com/graphbus/graphbus-starter-project/internal/auth"
	"github.com/graphbus/graphbus-starter-project/internal/bus"
	"github.com/graphbus/graphbus-starter-project/internal/store"
)

// newTestRouter wires a fresh bus, memory store and agents behind the
// same route table the server uses.
func newTestRouter(t *testing.T) (*gin.Engine, *agents.Notification) {
	t.Helper()
	os.Setenv("JWT_SECRET", "test_secret")
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	gin.SetMode(gin.TestMode)
	b := bus.New()
	st := store.NewMemory()

	notification := agents.NewNotification(b)
	taskManager := agents.NewTaskManager(b, st)
	registration := agents.NewRegistration(b, st)
	authAgent := agents.NewAuth(b, st, auth.Issuer{})
	Wire(registration, authAgent, taskManager, st)

	r := gin.New()
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", RegisterUser)
		authRoutes.POST("/login", LoginUser)
		authRoutes.GET("/me", AuthMiddleware(), GetMe)
	}
	taskRoutes := r.Group("/tasks")
	taskRoutes.Use(AuthMiddleware())
	{
		taskRoutes.GET("", ListTasks)
		taskRoutes.POST("", CreateTask)
		taskRoutes.PUT("/:taskId", UpdateTask)
		taskRoutes.DELETE("/:taskId", DeleteTask)
	}
	return r, notification
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return m
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
}

func TestRegisterLoginMeFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "a@x.com", "password": "password1", "name": "Alice"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", w.Code, w.Body.String())
	}
	userID, _ := decode(t, w)["user_id"].(string)
	if userID == "" {
		t.Fatal("expected user_id in register response")
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "a@x.com", "password": "password1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatal("expected token in login response")
	}

	w = doJSON(t, r, http.MethodGet, "/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me = %d: %s", w.Code, w.Body.String())
	}
	me := decode(t, w)
	if me["id"] != userID || me["email"] != "a@x.com" || me["name"] != "Alice" {
		t.Fatalf("me = %v", me)
	}
}

func TestRegisterErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	// agent-level validation
	w := doJSON(t, r, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "not-an-email", "password": "password1", "name": "Alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid email = %d", w.Code)
	}

	// duplicate email
	body := map[string]string{"email": "a@x.com", "password": "password1", "name": "Alice"}
	if w := doJSON(t, r, http.MethodPost, "/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first register = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/auth/register", "", body); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register = %d", w.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "a@x.com", "password": "password1", "name": "Alice"})

	w := doJSON(t, r, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "a@x.com", "password": "wrong-password"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password = %d", w.Code)
	}
}

func TestTasksRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := doJSON(t, r, http.MethodGet, "/tasks", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list = %d", w.Code)
	}
}

func TestTaskCRUDFlow(t *testing.T) {
	r, notification := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "a@x.com", "password": "password1", "name": "Alice"})
	w := doJSON(t, r, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "a@x.com", "password": "password1"})
	token, _ := decode(t, w)["token"].(string)

	// registration already created the welcome task
	w = doJSON(t, r, http.MethodGet, "/tasks", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var tasks []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected the welcome task, got %d tasks", len(tasks))
	}

	w = doJSON(t, r, http.MethodPost, "/tasks", token, map[string]string{"title": "Buy milk"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}
	taskID, _ := decode(t, w)["task_id"].(string)
	if taskID == "" {
		t.Fatal("expected task_id")
	}

	w = doJSON(t, r, http.MethodPut, "/tasks/"+taskID, token, map[string]any{"done": true})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["done"]; got != true {
		t.Fatalf("done = %v", got)
	}

	if w := doJSON(t, r, http.MethodPut, "/tasks/nope", token, map[string]any{"done": true}); w.Code != http.StatusNotFound {
		t.Fatalf("update unknown = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/tasks/"+taskID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/tasks/"+taskID, token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d", w.Code)
	}

	// the notification agent saw the whole chain
	var topics []string
	for _, e := range notification.Recent() {
		topics = append(topics, e.Topic)
	}
	want := []string{
		agents.TopicUserRegistered,
		agents.TopicLoginSucceeded,
		agents.TopicTaskCreated,
		agents.TopicTaskUpdated,
		agents.TopicTaskDeleted,
	}
	if fmt.Sprint(topics) != fmt.Sprint(want) {
		t.Fatalf("observed topics %v, want %v", topics, want)
	}
}
