package http

import (
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/stockflow-api/internal/application/analytics"
	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/orders"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	Orders        *orders.Service
	AuthUC        *auth.AuthUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
	AuthRateLimit string // vacío → sin límite
	Log           *logger.Logger
}

// AppConfig opciones del servidor HTTP.
type AppConfig struct {
	Name        string
	CORSOrigins string
	SwaggerFile string // vacío → sin /docs
}

// NewApp arma la aplicación Fiber con middlewares, health, swagger y rutas.
func NewApp(cfg AppConfig, deps RouterDeps) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Log))
	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		}))
	}

	// Swagger UI: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "StockFlow API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})

	if err := Router(app, deps); err != nil {
		return nil, err
	}
	return app, nil
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) error {
	errs := errorMapper{log: deps.Log.Component("http")}
	api := app.Group("/api")

	writers := RequireRole(entity.RoleAdmin, entity.RoleManager)
	adminOnly := RequireRole(entity.RoleAdmin)
	authn := AuthMiddleware(deps.JWTSecret)

	// Auth (público, con límite de intentos)
	authHandler := NewAuthHandler(deps.AuthUC, errs)
	authGroup := api.Group("/auth")
	public := []fiber.Handler{}
	if deps.AuthRateLimit != "" {
		limit, err := RateLimit(deps.AuthRateLimit)
		if err != nil {
			return err
		}
		public = append(public, limit)
	}
	authGroup.Post("/register", append(public, authHandler.Register)...)
	authGroup.Post("/login", append(public, authHandler.Login)...)
	authGroup.Get("/me", authn, authHandler.Me)
	authGroup.Put("/me", authn, authHandler.UpdateMe)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, errs)
	products := api.Group("/products", authn)
	products.Get("/", productHandler.List)
	products.Post("/", writers, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writers, productHandler.Update)
	products.Patch("/:id/adjust-stock", writers, productHandler.AdjustStock)
	products.Get("/:id/movements", productHandler.Movements)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Orders
	orderHandler := NewOrderHandler(deps.Orders, errs)
	ordersGroup := api.Group("/orders", authn)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", writers, orderHandler.Create)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/pdf", orderHandler.PDF)
	ordersGroup.Patch("/:id/status", writers, orderHandler.UpdateStatus)
	ordersGroup.Delete("/:id", adminOnly, orderHandler.Delete)

	// Dashboard (solo lectura)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, errs)
	dashboard := api.Group("/dashboard", authn)
	dashboard.Get("/stats", dashboardHandler.Stats)
	dashboard.Get("/sales-trend", dashboardHandler.SalesTrend)
	dashboard.Get("/category-breakdown", dashboardHandler.CategoryBreakdown)
	dashboard.Get("/top-products", dashboardHandler.TopProducts)
	dashboard.Get("/low-stock", dashboardHandler.LowStock)
	return nil
}
