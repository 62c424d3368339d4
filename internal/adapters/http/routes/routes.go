package routes

import (
	"rema-partners/internal/adapters/http/handlers"
	"rema-partners/internal/adapters/http/middleware"
	"rema-partners/internal/adapters/persistence/models"
	"rema-partners/internal/adapters/persistence/repositories"
	"rema-partners/internal/config"
	"rema-partners/internal/core/services"
	"rema-partners/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// PublicPaths enumerates the endpoints reachable without a token. Requests to
// anything else go through the authorizer and at least RequireAuth. Keep this
// list in sync with the public registrations in Setup; it is asserted by the
// route tests.
var PublicPaths = []string{
	"/",
	"/health",
	"/api",
	"/login",
	"/createUser",
	"/vendedor/producto/getAll",
	"/vendedor/producto/getById/:id",
	"/swagger/*",
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Token codec: key material is loaded once here and shared read-only
	codec := jwt.NewCodec(jwt.Config{
		Secret: []byte(cfg.JWT.Secret),
		TTL:    cfg.JWT.TokenTTL(),
	})

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	revokedTokenRepo := repositories.NewRevokedTokenRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	productRepo := repositories.NewProductRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, revokedTokenRepo, subscriptionRepo, codec)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	dashboardService := services.NewDashboardService(userRepo, productRepo, revokedTokenRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService, authService)
	productHandler := handlers.NewProductHandler(productService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Public endpoints (see PublicPaths)
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/api", healthHandler.APIInfo)
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	app.Post("/createUser", middleware.AuthRateLimiter(), authHandler.Register)
	app.Get("/vendedor/producto/getAll", productHandler.GetAll)
	app.Get("/vendedor/producto/getById/:id", productHandler.GetByID)

	// Everything below runs through the request authorizer
	app.Use(middleware.Authenticate(codec, userRepo, revokedTokenRepo))

	// Session endpoints
	app.Get("/log_out", authHandler.Logout)
	app.Get("/isLoggedIn", middleware.RequireAuth(), authHandler.IsLoggedIn)

	// Seller catalog mutations
	producto := app.Group("/vendedor/producto",
		middleware.RequireRoles(models.RoleAdmin, models.RoleVendedor))
	producto.Post("/new", productHandler.Create)

	// Staff dashboards
	dashboard := app.Group("/dashboard", middleware.StaffOnly())
	dashboard.Get("/stats", dashboardHandler.Stats)

	// Admin user management
	admin := app.Group("/admin/users", middleware.AdminOnly())
	admin.Get("/", userHandler.List)
	admin.Get("/:id", userHandler.Get)
	admin.Put("/:id/active", userHandler.SetActive)
	admin.Put("/:id/role", userHandler.ChangeRole)
	admin.Put("/:id/username", userHandler.Rename)
	admin.Delete("/:id", userHandler.Delete)
}
