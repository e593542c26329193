package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/gym-class-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/gym-class-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/gym-class-booking/internal/model"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth          *handler.AuthHandler
	Bookings      *handler.BookingHandler
	Subscriptions *handler.SubscriptionHandler
	Admin         *handler.AdminHandler
	Callback      *handler.CallbackHandler
}

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check, the public schedule
// views and the payment provider webhook (which authenticates itself
// with a shared secret rather than a JWT).
func RegisterRoutes(e *echo.Echo, h Handlers) {
	// Used by load balancers and monitoring systems to verify that the
	// service is up and running.
	e.GET("/healthz", handler.Health)

	// Guests may browse the class catalogue and availability calendar
	// before signing up.
	e.GET("/v1/classes", h.Bookings.Classes)
	e.GET("/v1/sessions", h.Bookings.Availability)

	// Provider webhook.  The handler validates the shared secret before
	// touching any invoice.
	e.POST("/v1/payments/callback", h.Callback.Payment)
}

// RegisterAuth registers the authentication routes plus the protected
// member and admin groups.  Unauthenticated operations live under
// /v1/auth; member endpoints under /v1 require a valid access token;
// staff endpoints under /v1/admin additionally require the ADMIN role.
func RegisterAuth(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)

	// Member endpoints.  JWTAuth extracts user_id and role from the
	// bearer token; RequireRole rejects unknown roles.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleMember, model.RoleAdmin))
	auth.GET("/me", h.Auth.Me)

	auth.POST("/bookings", h.Bookings.Book)
	auth.GET("/bookings", h.Bookings.MyBookings)
	auth.DELETE("/bookings/:id", h.Bookings.Cancel)

	auth.POST("/subscriptions", h.Subscriptions.Subscribe)
	auth.GET("/subscriptions/me", h.Subscriptions.My)
	auth.GET("/subscriptions/me/invoices", h.Subscriptions.Invoices)
	auth.DELETE("/subscriptions/me", h.Subscriptions.Cancel)

	// Staff endpoints.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/sessions", h.Admin.CreateSession)
	admin.DELETE("/sessions/:id", h.Admin.CancelSession)
	admin.POST("/schedule/generate", h.Admin.GenerateMonth)
	admin.GET("/policy", h.Admin.GetPolicy)
	admin.PUT("/policy", h.Admin.UpdatePolicy)
	admin.GET("/config", h.Admin.GetConfig)
	admin.PUT("/config", h.Admin.UpdateConfig)
}
