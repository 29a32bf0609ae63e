package api

// RegisterRequest defines the expected JSON body for user registration.
// Field-level validation (email shape, password length) belongs to the
// Registration agent, not the route layer.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TaskCreateRequest struct {
	Title string `json:"title" binding:"required"`
}

// TaskUpdateRequest carries optional fields; nil means "leave as is".
type TaskUpdateRequest struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}
