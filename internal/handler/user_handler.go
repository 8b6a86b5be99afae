package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"questboard/internal/service"
)

// UserHandler handles profile, leaderboard and admin user endpoints.
type UserHandler struct {
	userService        service.UserService
	leaderboardService service.LeaderboardService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, leaderboardService service.LeaderboardService) *UserHandler {
	return &UserHandler{
		userService:        userService,
		leaderboardService: leaderboardService,
	}
}

// UpdateUserRequest represents an admin edit of a user.
type UpdateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	IsAdmin *bool   `json:"is_admin"`
}

// Me godoc
// @Summary Get the caller's profile and progression stats
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.Profile(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// Leaderboard godoc
// @Summary Get the top-ranked users; capped at 10 regardless of limit
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Row limit, at most 10"
// @Success 200 {object} map[string]interface{}
// @Router /leaderboard [get]
func (h *UserHandler) Leaderboard(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	rows, err := h.leaderboardService.TopN(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"leaderboard": rows})
}

// List godoc
// @Summary List all users (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

// Update godoc
// @Summary Update a user (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	targetID, err := idParam(c, "id", "invalid user ID")
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Update(c.Request().Context(), targetID, service.UpdateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "user updated successfully",
		"user":    user,
	})
}

// Delete godoc
// @Summary Delete a user and cascade their tasks (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	targetID, err := idParam(c, "id", "invalid user ID")
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), targetID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
