package handler

import (
	"net/http"

	"bizledger/internal/access"
	"bizledger/internal/middleware"
	"bizledger/internal/model"
	"bizledger/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService service.TaskService
	auth        *middleware.Auth
	trail       auditTrail
}

func NewTaskHandler(taskService service.TaskService, auditService service.AuditService, auth *middleware.Auth) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		auth:        auth,
		trail:       auditTrail{audit: auditService},
	}
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/tasks", h.auth.RequireModule(access.Tasks))
	{
		group.GET("", h.ListTasks)
		group.POST("", h.CreateTask)
		group.PUT("/:id/status", h.UpdateStatus)
		group.DELETE("/:id", h.DeleteTask)
	}
}

// ListTasks godoc
// @Summary      List tasks
// @Tags         tasks
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Task}
// @Router       /api/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, tasks)
}

// CreateTask godoc
// @Summary      Create task
// @Tags         tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTaskRequest  true  "Task Payload"
// @Success      201      {object}  response.Response{data=model.Task}
// @Failure      400      {object}  response.Response
// @Router       /api/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req service.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, task, model.ActionCreateTask, "Created task "+task.Title)
}

// UpdateStatus godoc
// @Summary      Move a task to another status
// @Tags         tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Task ID"
// @Param        payload  body      service.UpdateTaskStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=model.Task}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/tasks/{id}/status [put]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.taskService.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, task, model.ActionUpdateTaskStatus, "Task "+task.TaskID+" moved to "+task.Status)
}

// DeleteTask godoc
// @Summary      Delete task
// @Tags         tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := h.taskService.DeleteTask(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Task deleted successfully", model.ActionDeleteTask, "Deleted task "+id)
}
