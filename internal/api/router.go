package api

import (
	"investmate/internal/api/handlers"
	"investmate/pkg/auth"
	"investmate/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	propertyHandler *handlers.PropertyHandler,
	dashboardHandler *handlers.DashboardHandler,
	telegramHandler *handlers.TelegramHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public chat endpoints
	gpt := app.Group("/gpt")
	gpt.Post("/chat", chatHandler.Chat)
	gpt.Get("/cache/stats", chatHandler.CacheStats)
	gpt.Delete("/cache/clear", chatHandler.ClearCache)

	// Telegram webhook
	app.Post("/telegram/webhook", telegramHandler.Webhook)

	// Auth routes (public)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	protected.Get("/agents/telegram-link", telegramHandler.TelegramLink)

	properties := protected.Group("/properties")
	properties.Post("", propertyHandler.CreateProperty)
	properties.Get("", propertyHandler.ListProperties)
	properties.Get("/:id", propertyHandler.GetProperty)
	properties.Put("/:id", propertyHandler.UpdateProperty)
	properties.Delete("/:id", propertyHandler.DeleteProperty)
	properties.Post("/:id/image", propertyHandler.UploadImage)
	properties.Get("/:id/image-url", propertyHandler.GetImageURL)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/faqs", dashboardHandler.FAQs)
	dashboard.Get("/peak-hours", dashboardHandler.PeakHours)
	dashboard.Get("/popular-properties", dashboardHandler.PopularProperties)
	dashboard.Get("/insights", dashboardHandler.Insights)
	dashboard.Get("/stats", dashboardHandler.Stats)

	conversations := protected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Delete("", chatHandler.DeleteConversations)

	return app
}
