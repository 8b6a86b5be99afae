package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"questboard/internal/model"
	"questboard/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request. The XP value is
// derived from the category server-side and cannot be supplied.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	Category    string     `json:"category" validate:"required,oneof=todo habit"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest represents a partial task edit.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category" validate:"omitempty,oneof=todo habit"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in_progress"`
	DueDate     *time.Time `json:"due_date"`
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Create(c.Request().Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    model.TaskCategory(req.Category),
		DueDate:     req.DueDate,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "task created successfully",
		"task":    task,
	})
}

// List godoc
// @Summary List the caller's tasks with tags
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListMine(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tasks": tasks})
}

// Get godoc
// @Summary Get one owned task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), taskID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"task": task})
}

// Update godoc
// @Summary Edit task fields; completion state is not editable here
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Category != nil {
		cat := model.TaskCategory(*req.Category)
		in.Category = &cat
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		in.Status = &status
	}

	task, err := h.taskService.Update(c.Request().Context(), taskID, userID, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "task updated successfully",
		"task":    task,
	})
}

// Delete godoc
// @Summary Delete an owned task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), taskID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "task deleted successfully"})
}

// Complete godoc
// @Summary Toggle completion, awarding or reverting the category XP
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id}/complete [patch]
func (h *TaskHandler) Complete(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	result, err := h.taskService.ToggleCompletion(c.Request().Context(), taskID, userID)
	if err != nil {
		return httpError(err)
	}

	message := "task completed successfully"
	if result.Task.Status != model.StatusCompleted {
		message = "task completion reverted"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   message,
		"xpAward":   result.XPDelta,
		"userStats": result.Stats,
	})
}

func taskIDParam(c echo.Context) (uint, error) {
	return idParam(c, "id", "invalid task ID")
}
