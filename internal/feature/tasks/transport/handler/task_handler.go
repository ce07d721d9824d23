// Package handler provides HTTP handlers for the tasks feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/feature/tasks/domain"
	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/transport/http/dto"
	jwtmw "todo_backend/internal/platform/jwt"
	"todo_backend/internal/platform/logger"
)

// TaskUsecase is the owner-scoped task API the handler depends on.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type TaskUsecase interface {
	Create(ctx context.Context, ownerID, title string, description *string) (*entity.Task, error)
	ListForOwner(ctx context.Context, ownerID string) ([]*entity.Task, error)
	GetByID(ctx context.Context, taskID, ownerID string) (*entity.Task, error)
	Update(ctx context.Context, taskID, ownerID string, patch entity.Patch) (*entity.Task, error)
	Delete(ctx context.Context, taskID, ownerID string) (bool, error)
}

// TaskHandler handles the /api/todos endpoints. All routes sit behind jwtmw.AuthRequired.
type TaskHandler struct {
	uc TaskUsecase
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(uc TaskUsecase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// Create handles POST /api/todos.
func (h *TaskHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	var req dto.CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.uc.Create(c.Request.Context(), ownerID, req.Title, req.Description)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTaskRes(task))
}

// List handles GET /api/todos. An owner without tasks gets an empty array.
func (h *TaskHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	tasks, err := h.uc.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		internalError(c, err)
		return
	}
	out := make([]dto.TaskRes, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dto.NewTaskRes(t))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/todos/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	task, err := h.uc.GetByID(c.Request.Context(), c.Param("id"), ownerID)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskRes(task))
}

// Update handles PUT /api/todos/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := entity.Patch{Title: req.Title, Description: req.Description, Completed: req.Completed}
	task, err := h.uc.Update(c.Request.Context(), c.Param("id"), ownerID, patch)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskRes(task))
}

// Delete handles DELETE /api/todos/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	removed, err := h.uc.Delete(c.Request.Context(), c.Param("id"), ownerID)
	if err != nil {
		internalError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// owner reads the authenticated account ID. The owner is never taken from the request body.
func owner(c *gin.Context) (string, bool) {
	p, ok := jwtmw.PrincipalFrom(c)
	if !ok || p.ID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return "", false
	}
	return p.ID, true
}

func taskError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	internalError(c, err)
}

func internalError(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("task operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
