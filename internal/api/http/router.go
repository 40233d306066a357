package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/logistics-console/internal/api/http/handlers"
	"github.com/spec-kit/logistics-console/internal/auth"
	"github.com/spec-kit/logistics-console/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Collaborators  *handlers.CollaboratorsHandler
	Companies      *handlers.CompaniesHandler
	Reviews        *handlers.ReviewsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/invitations/accept", cfg.Auth.AcceptInvitation)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	collaborators := app.Group("/collaborators", cfg.AuthMiddleware.Handle, auth.RequireAdminTier())
	collaborators.Get("/assignable-delivery-points", cfg.Collaborators.AssignableDeliveryPoints)
	collaborators.Post("/invitations", cfg.Collaborators.Invite)
	collaborators.Get("/", cfg.Collaborators.List)
	collaborators.Get("/:id", cfg.Collaborators.Get)
	collaborators.Put("/:id/assignment", cfg.Collaborators.UpdateAssignment)

	companies := app.Group("/companies", cfg.AuthMiddleware.Handle)

	// browsing is open to the whole closed role set; mutations are not
	companyReads := companies.Group("", auth.RequireRole(
		domain.RoleSuperAdmin,
		domain.RoleSuperAdminEmpresa,
		domain.RoleAdministradorEmpresa,
		domain.RoleAdminPdE,
		domain.RoleOperadorPdE,
	))
	companyReads.Get("/", cfg.Companies.List)
	companyReads.Get("/:id", cfg.Companies.Get)
	companyReads.Get("/:id/delivery-points", cfg.Companies.ListDeliveryPoints)

	companyAdmin := companies.Group("", auth.RequireAdminTier())
	companyAdmin.Post("/", cfg.Companies.Create)
	companyAdmin.Put("/:id", cfg.Companies.Update)
	companyAdmin.Post("/:id/delivery-points", cfg.Companies.CreateDeliveryPoint)

	deliveryPoints := app.Group("/delivery-points", cfg.AuthMiddleware.Handle, auth.RequireAdminTier())
	deliveryPoints.Put("/:id", cfg.Companies.UpdateDeliveryPoint)

	reviews := app.Group("/reviews", cfg.AuthMiddleware.Handle, auth.RequireAdminTier())
	reviews.Post("/:kind/:id/transition", cfg.Reviews.Transition)
	reviews.Post("/:kind/:id/toggle-active", cfg.Reviews.ToggleActive)
	reviews.Get("/:kind/:id/audit", cfg.Reviews.AuditTrail)
}
