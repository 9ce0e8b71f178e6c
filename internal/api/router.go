package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/clubhouse/members-only/docs"
	"github.com/clubhouse/members-only/internal/api/handler"
	"github.com/clubhouse/members-only/internal/api/middleware"
	"github.com/clubhouse/members-only/internal/core/domain"
	"github.com/clubhouse/members-only/internal/core/ports"
	"github.com/clubhouse/members-only/internal/session"
)

// Dependencies is everything NewRouter wires into the HTTP layer.
type Dependencies struct {
	Auth       ports.AuthService
	Membership ports.MembershipService
	Messages   ports.MessageService
	Sessions   *session.Manager
	Renderer   echo.Renderer
	Checks     []handler.DependencyCheck
	Logger     zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics and /metrics. When nil a
	// private registry is used so that several routers can coexist in tests.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = deps.Renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	reg, gatherer := deps.Registerer, deps.Gatherer
	if reg == nil || gatherer == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "clubhouse",
		Subsystem:  "http",
		Registerer: reg,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(middleware.Session(deps.Sessions, deps.Auth, deps.Logger))

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Logger)
	membershipHandler := handler.NewMembershipHandler(deps.Membership, deps.Logger)
	messageHandler := handler.NewMessageHandler(deps.Messages, deps.Logger)

	// --- Public pages ---
	e.GET("/", messageHandler.Index)
	e.GET("/signup", authHandler.SignupForm)
	e.POST("/signup", authHandler.Signup)
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	// --- Signed-in users ---
	requireJoin := middleware.RequireUser("You must be logged in to join the club")
	e.GET("/join", membershipHandler.JoinForm, requireJoin)
	e.POST("/join", membershipHandler.Join, requireJoin)

	requireAdmin := middleware.RequireUser("You must be logged in to request admin access")
	e.GET("/admin", membershipHandler.AdminForm, requireAdmin)
	e.POST("/admin", membershipHandler.Admin, requireAdmin)

	requireCreate := middleware.RequireUser("You must be logged in to create a message")
	e.GET("/new-message", messageHandler.NewForm, requireCreate)
	e.POST("/new-message", messageHandler.Create, requireCreate)

	// --- Admins ---
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	e.GET("/edit/:id", messageHandler.EditForm,
		middleware.RequireUser("You must be logged in to edit a message"), adminOnly)
	e.POST("/edit-message/:id", messageHandler.Update, adminOnly)
	e.POST("/delete-message/:id", messageHandler.Delete, adminOnly)

	// --- Operations ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks...)
	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
