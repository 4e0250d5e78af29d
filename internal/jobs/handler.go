package jobs

import (
	"net/http"
	"strings"

	"saas-starter-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// InvokeHandler serves the endpoint the durable-execution service calls to
// run a task. Handler failures return 500 so the service retries; success
// acknowledges completion.
type InvokeHandler struct {
	registry *Registry
	eventKey string
}

// NewInvokeHandler creates a new invoke handler. The shared event key
// authenticates the durable-execution service's callbacks.
func NewInvokeHandler(registry *Registry, eventKey string) *InvokeHandler {
	return &InvokeHandler{
		registry: registry,
		eventKey: eventKey,
	}
}

// InvokeRequest is the durable-execution service's callback payload
type InvokeRequest struct {
	Task  string `json:"task" binding:"required"`
	Event Event  `json:"event"`
}

// Invoke handles POST /api/jobs/invoke
// @Summary Invoke a background task
// @Description Called by the durable-execution service to run a registered task; a non-2xx response triggers the service's retry policy
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body InvokeRequest true "Task invocation"
// @Success 200 {object} map[string]interface{} "Task completed"
// @Failure 400 {object} map[string]interface{} "Malformed request"
// @Failure 401 {object} map[string]interface{} "Invalid service credentials"
// @Failure 404 {object} map[string]interface{} "Unknown task"
// @Failure 500 {object} map[string]interface{} "Task failed, retry expected"
// @Router /api/jobs/invoke [post]
func (h *InvokeHandler) Invoke(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if h.eventKey == "" || token == authHeader || token != h.eventKey {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid service credentials"})
		return
	}

	var req InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, ok := h.registry.Get(req.Task)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown task: " + req.Task})
		return
	}

	log := logger.New().WithFields(map[string]interface{}{
		"task":  task.Name,
		"event": req.Event.Name,
	})

	if err := task.Handler(c.Request.Context(), req.Event); err != nil {
		log.WithError(err).Error("task failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info("task completed")
	c.JSON(http.StatusOK, gin.H{"status": "completed", "task": task.Name})
}

// List handles GET /api/jobs/tasks, the discovery endpoint the
// durable-execution service syncs task definitions from.
// @Summary List task definitions
// @Description Returns every registered task with its trigger, for the durable-execution service to sync
// @Tags jobs
// @Produce json
// @Success 200 {object} map[string]interface{} "Registered tasks"
// @Router /api/jobs/tasks [get]
func (h *InvokeHandler) List(c *gin.Context) {
	type taskInfo struct {
		Name  string `json:"name"`
		Event string `json:"event,omitempty"`
		Cron  string `json:"cron,omitempty"`
	}

	tasks := h.registry.Tasks()
	infos := make([]taskInfo, 0, len(tasks))
	for _, t := range tasks {
		infos = append(infos, taskInfo{Name: t.Name, Event: t.Event, Cron: t.Cron})
	}

	c.JSON(http.StatusOK, gin.H{"tasks": infos})
}
