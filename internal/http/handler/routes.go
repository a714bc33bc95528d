package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"solemate/internal/http/middleware"
	"solemate/internal/service"
)

// Deps holds everything the route tables need.
type Deps struct {
	DB            *sql.DB
	HealthChecks  []Check
	Gatherer      prometheus.Gatherer
	MaxUploadSize int64

	Auth      service.AuthService
	Inventory service.InventoryService
	Sales     service.SaleService
	Dashboard service.DashboardService
	Admin     service.AdminService
}

// RegisterRoutes is the root route table: /admin/ goes to the admin site,
// /api/ to the application routes, plus health and metrics endpoints.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB, d.HealthChecks...))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", Metrics(d.Gatherer))
	}

	RegisterAdminRoutes(app.Group("/admin"), d)
	RegisterAPIRoutes(app.Group("/api"), d)
}

// RegisterAPIRoutes attaches the application routes below r.
func RegisterAPIRoutes(r fiber.Router, d Deps) {
	// Token obtain is POST only.
	r.Post("/token", ObtainToken(d.Auth))
	for _, m := range []string{fiber.MethodGet, fiber.MethodHead, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete} {
		r.Add(m, "/token", MethodNotAllowed(fiber.MethodPost))
	}
	r.Post("/token/refresh", RefreshToken(d.Auth))
	r.Post("/token/verify", VerifyToken(d.Auth))
	r.Post("/token/blacklist", BlacklistToken(d.Auth))
	r.Post("/register", Register(d.Auth))

	authn := middleware.RequireAuth(d.Auth)
	r.Get("/me", authn, Me())

	inv := r.Group("/inventory", authn)
	inv.Get("/", ListInventory(d.Inventory))
	inv.Post("/", CreateInventory(d.Inventory))
	inv.Get("/:id", GetInventory(d.Inventory))
	inv.Put("/:id", UpdateInventory(d.Inventory))
	inv.Delete("/:id", DeleteInventory(d.Inventory))
	inv.Post("/:id/image", UploadInventoryImage(d.Inventory, d.MaxUploadSize))
	inv.Get("/:id/image", InventoryImage(d.Inventory))

	sales := r.Group("/sales", authn)
	sales.Get("/", ListSales(d.Sales))
	sales.Post("/", RecordSale(d.Sales))
	sales.Delete("/:id", DeleteSale(d.Sales))

	r.Get("/dashboard", authn, Dashboard(d.Dashboard))
}

// RegisterAdminRoutes attaches the staff-only admin site below r.
func RegisterAdminRoutes(r fiber.Router, d Deps) {
	r.Use(middleware.RequireAuth(d.Auth), middleware.RequireStaff())

	r.Get("/", AdminIndex())
	r.Get("/users", AdminListUsers(d.Admin))
	r.Get("/users/:id", AdminGetUser(d.Admin))
	r.Patch("/users/:id", AdminPatchUser(d.Admin))
	r.Delete("/users/:id", AdminDeleteUser(d.Admin))
	r.Get("/inventory", AdminListInventory(d.Admin))
	r.Delete("/inventory/:id", AdminDeleteInventory(d.Admin))
	r.Get("/sales", AdminListSales(d.Admin))
	r.Delete("/sales/:id", AdminDeleteSale(d.Admin))
}
