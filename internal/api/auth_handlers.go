package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graphbus/graphbus-starter-project/internal/agents"
	"github.com/graphbus/graphbus-starter-project/internal/bus"
	"github.com/graphbus/graphbus-starter-project/internal/store"
)

// agentErrStatus maps agent/store errors onto HTTP statuses. Handler
// failures during event delivery reach the client as 500s — the bus
// gives no transactional guarantee, so the caller has to know.
func agentErrStatus(err error) int {
	var he *bus.HandlerError
	switch {
	case errors.Is(err, agents.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, agents.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &he):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// RegisterUser handles POST /auth/register via the Registration agent.
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	userID, err := registrationAgent.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		c.JSON(agentErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_id": userID,
		"email":   req.Email,
	})
}

// LoginUser handles POST /auth/login via the Auth agent.
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	token, err := authAgent.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, agents.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(agentErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetMe handles GET /auth/me. A plain profile read against the user
// store; no agent operation or event involved.
func GetMe(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := userStore.UserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}
