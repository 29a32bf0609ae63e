package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTasks handles GET /tasks for the authenticated user.
func ListTasks(c *gin.Context) {
	userID := c.GetString("userID")
	tasks, err := taskManagerAgent.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(agentErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTask handles POST /tasks via the TaskManager agent.
func CreateTask(c *gin.Context) {
	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	userID := c.GetString("userID")
	task, err := taskManagerAgent.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		c.JSON(agentErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"task_id": task.ID,
		"title":   task.Title,
	})
}

// UpdateTask handles PUT /tasks/:taskId via the TaskManager agent.
func UpdateTask(c *gin.Context) {
	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	userID := c.GetString("userID")
	task, err := taskManagerAgent.Update(c.Request.Context(), userID, c.Param("taskId"), req.Title, req.Done)
	if err != nil {
		c.JSON(agentErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task_id": task.ID,
		"title":   task.Title,
		"done":    task.Done,
	})
}

// DeleteTask handles DELETE /tasks/:taskId via the TaskManager agent.
func DeleteTask(c *gin.Context) {
	userID := c.GetString("userID")
	if err := taskManagerAgent.Delete(c.Request.Context(), userID, c.Param("taskId")); err != nil {
		c.JSON(agentErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
