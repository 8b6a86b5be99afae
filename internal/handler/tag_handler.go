package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"questboard/internal/service"
)

// TagHandler handles tag endpoints.
type TagHandler struct {
	tagService service.TagService
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(tagService service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// TagRequest carries a tag name.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// Create godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TagRequest true "Tag data"
// @Success 201 {object} map[string]interface{}
// @Router /tags [post]
func (h *TagHandler) Create(c echo.Context) error {
	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tag, err := h.tagService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"tag": tag})
}

// List godoc
// @Summary List all tags
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /tags [get]
func (h *TagHandler) List(c echo.Context) error {
	tags, err := h.tagService.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tags": tags})
}

// Update godoc
// @Summary Rename a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Param request body TagRequest true "Tag data"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /tags/{id} [patch]
func (h *TagHandler) Update(c echo.Context) error {
	tagID, err := idParam(c, "id", "invalid tag ID")
	if err != nil {
		return err
	}

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tag, err := h.tagService.Rename(c.Request().Context(), tagID, req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tag": tag})
}

// Delete godoc
// @Summary Delete a tag
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /tags/{id} [delete]
func (h *TagHandler) Delete(c echo.Context) error {
	tagID, err := idParam(c, "id", "invalid tag ID")
	if err != nil {
		return err
	}
	if err := h.tagService.Delete(c.Request().Context(), tagID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "tag deleted successfully"})
}

// Attach godoc
// @Summary Attach a tag to an owned task
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Task ID"
// @Param tagId path int true "Tag ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{taskId}/tags/{tagId} [post]
func (h *TagHandler) Attach(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := idParam(c, "taskId", "invalid task ID")
	if err != nil {
		return err
	}
	tagID, err := idParam(c, "tagId", "invalid tag ID")
	if err != nil {
		return err
	}

	if err := h.tagService.AttachToTask(c.Request().Context(), taskID, tagID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "tag attached"})
}

// Detach godoc
// @Summary Detach a tag from an owned task
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Task ID"
// @Param tagId path int true "Tag ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{taskId}/tags/{tagId} [delete]
func (h *TagHandler) Detach(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := idParam(c, "taskId", "invalid task ID")
	if err != nil {
		return err
	}
	tagID, err := idParam(c, "tagId", "invalid tag ID")
	if err != nil {
		return err
	}

	if err := h.tagService.DetachFromTask(c.Request().Context(), taskID, tagID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "tag detached"})
}

func idParam(c echo.Context, name, badMsg string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, badMsg)
	}
	return uint(id), nil
}
