package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/luestilo/gestao-api/internal/application/auth"
	"github.com/luestilo/gestao-api/internal/application/notification"
	"github.com/luestilo/gestao-api/internal/application/orders"
	"github.com/luestilo/gestao-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ClientUC      *usecase.ClientUseCase
	ProductUC     *usecase.ProductUseCase
	Orders        *orders.Engine
	Notifications *notification.Service
	Validator     *Validator
	DB            Pinger          // opcional, para /health
	Metrics       nethttp.Handler // opcional, expone /metrics
	Version       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	validate := deps.Validator
	if validate == nil {
		validate = NewValidator()
	}

	// Health (público)
	health := NewHealthHandler(deps.DB, deps.Version)
	app.Get("/", health.Health)
	app.Get("/health", health.Health)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	requireAuth := AuthMiddleware(deps.AuthUC)
	adminOnly := RequireAdmin()

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, validate)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh-token", requireAuth, authHandler.RefreshToken)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)

	// Users
	userHandler := NewUserHandler(deps.UserUC, validate)
	users := app.Group("/users", requireAuth)
	users.Get("/me", userHandler.Me)
	users.Put("/me", userHandler.UpdateMe)
	users.Delete("/me", userHandler.DeleteMe)
	users.Get("/", adminOnly, userHandler.List)

	// Clients
	clientHandler := NewClientHandler(deps.ClientUC, validate)
	clients := app.Group("/clients", requireAuth)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.Get)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", adminOnly, clientHandler.Delete)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, validate)
	products := app.Group("/products", requireAuth)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Post("/:id/images", productHandler.UploadImage)

	// Orders
	orderHandler := NewOrderHandler(deps.Orders, validate)
	ordersGroup := app.Group("/orders", requireAuth)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/:id", orderHandler.Get)
	ordersGroup.Put("/:id", orderHandler.Update)
	ordersGroup.Delete("/:id", adminOnly, orderHandler.Delete)
	ordersGroup.Get("/:id/receipt", orderHandler.Receipt)

	// WhatsApp (solo administradores)
	waHandler := NewWhatsAppHandler(deps.Notifications, validate)
	wa := app.Group("/whatsapp", requireAuth, adminOnly)
	wa.Post("/send-message", waHandler.SendMessage)
	wa.Post("/send-promotional-message", waHandler.SendPromotional)
}
