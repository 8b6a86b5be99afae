package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/golang-jwt/jwt/v5"

	"questboard/internal/auth"
	"questboard/internal/config"
	"questboard/internal/handler"
	"questboard/internal/realtime"
	"questboard/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	blacklist auth.TokenBlacklist,
	userService service.UserService,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	tagHandler *handler.TagHandler,
	userHandler *handler.UserHandler,
	gateway *realtime.Gateway,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	// Real-time transport authenticates the access token itself at
	// handshake time, so it sits outside the JWT middleware.
	e.GET("/ws", gateway.Handle)

	// Secured routes (require a non-revoked access token)
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTAccessSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}), handler.BlacklistGuard(blacklist))

	secured.GET("/users/me", userHandler.Me)
	secured.GET("/leaderboard", userHandler.Leaderboard)

	secured.POST("/tasks", taskHandler.Create)
	secured.GET("/tasks", taskHandler.List)
	secured.GET("/tasks/:id", taskHandler.Get)
	secured.PATCH("/tasks/:id", taskHandler.Update)
	secured.DELETE("/tasks/:id", taskHandler.Delete)
	secured.PATCH("/tasks/:id/complete", taskHandler.Complete)

	secured.POST("/tags", tagHandler.Create)
	secured.GET("/tags", tagHandler.List)
	secured.PATCH("/tags/:id", tagHandler.Update)
	secured.DELETE("/tags/:id", tagHandler.Delete)
	secured.POST("/tasks/:taskId/tags/:tagId", tagHandler.Attach)
	secured.DELETE("/tasks/:taskId/tags/:tagId", tagHandler.Detach)

	// Admin routes
	admin := secured.Group("", handler.AdminGuard(userService))
	admin.GET("/users", userHandler.List)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
