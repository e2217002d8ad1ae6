package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Robou/miniloc/internal/accessgate"
	"github.com/Robou/miniloc/internal/cart"
	"github.com/Robou/miniloc/internal/controllers"
	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/internal/security/csrf"
	"github.com/Robou/miniloc/internal/security/ratelimit"
	"github.com/Robou/miniloc/internal/security/seclog"
	"github.com/Robou/miniloc/internal/services"
	"github.com/Robou/miniloc/pkg/config"
	"github.com/Robou/miniloc/pkg/middleware"
	"github.com/Robou/miniloc/pkg/service"
)

// InitRouter assemble les dépôts, services et contrôleurs puis déclare
// toutes les routes sous /api.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService,
	gate *accessgate.Gate, securityLog *seclog.Logger, cfg *config.Config, logger *zap.Logger) {

	api := e.Group("/api", middleware.Session)

	// Dépôts
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	itemRepo := repositories.NewItemRepository(dbConn)
	borrowRepo := repositories.NewBorrowRepository(dbConn)
	userRepo := repositories.NewUserRepository(dbConn, logger)

	// Composants de sécurité et panier
	cartStore := cart.NewStore()
	csrfManager := csrf.NewManager(cacheRepo, cfg.Auth.CSRFTokenTTL)
	limiter := ratelimit.NewLimiter(cacheRepo, cfg.Auth.MaxLoginAttempts, cfg.Auth.LockoutDuration)

	// Services
	catalogService := services.NewCatalogService(itemRepo, cacheRepo, cfg.Club.CatalogCacheTTL, logger)
	borrowService := services.NewBorrowService(borrowRepo, cartStore, catalogService, securityLog, logger)
	authService := services.NewAuthService(userRepo, csrfManager, limiter, jwtSvc, securityLog,
		cfg.Auth.MaxLoginAttempts, logger)
	itemService := services.NewItemService(itemRepo, catalogService, logger)
	importService := services.NewImportService(itemRepo, logger)

	// Contrôleurs
	catalogController := controllers.NewCatalogController(catalogService, logger)
	cartController := controllers.NewCartController(cartStore, itemRepo, logger)
	borrowController := controllers.NewBorrowController(borrowService, logger)
	authController := controllers.NewAuthController(authService, logger)
	itemController := controllers.NewItemController(itemService, logger)
	importController := controllers.NewImportController(importService, logger)
	gateController := controllers.NewGateController(gate, logger)
	seclogController := controllers.NewSecurityLogController(securityLog, logger)

	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	clubGateMW := middleware.NewClubGateMiddleware(gate, securityLog, logger)

	// Surface publique
	api.GET("/items", catalogController.GetItems)
	api.GET("/borrows", borrowController.GetBorrows)
	api.GET("/csrf", authController.GetCSRFToken)
	api.POST("/auth/login", authController.Login)
	api.GET("/gate", gateController.Status)

	// Surface d'emprunt, réservée à l'ordinateur du club
	gated := api.Group("", clubGateMW.Gate)
	gated.GET("/cart", cartController.GetCart)
	gated.DELETE("/cart", cartController.ClearCart)
	gated.POST("/cart/items", cartController.AddItem)
	gated.DELETE("/cart/items/:id", cartController.RemoveItem)
	gated.PUT("/cart/mode", cartController.SetMode)
	gated.POST("/borrow", borrowController.ConfirmBorrow)
	gated.POST("/return", borrowController.ReturnItem)

	// Surface d'administration, sous JWT
	admin := api.Group("/admin", authMW.Auth)
	admin.POST("/items", itemController.CreateItem)
	admin.PUT("/items/:id", itemController.UpdateItem)
	admin.POST("/import", importController.Import)
	admin.GET("/security-logs", seclogController.List)
	admin.GET("/security-logs/summary", seclogController.Summary)
	admin.GET("/security-logs/export", seclogController.Export)
	admin.DELETE("/security-logs", seclogController.Cleanup)

	secureGate := api.Group("/gate", authMW.Auth)
	secureGate.POST("/authorize", gateController.Authorize)
	secureGate.DELETE("", gateController.Deauthorize)

	logger.Info("Routes initialisées")
}
