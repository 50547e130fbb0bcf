package router

import (
	"database/sql"

	"zoe_store_backend/internal/handlers"
	"zoe_store_backend/internal/notifications"
	"zoe_store_backend/internal/repositories"
	"zoe_store_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers onto the engine.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	clientRepo := repositories.NewClientRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// External collaborators
	mailer := notifications.NewEmailNotifier(notifications.ConfigFromEnv())

	// Services
	clientService := services.NewClientService(clientRepo, purchaseRepo, db)
	purchaseService := services.NewPurchaseService(purchaseRepo, clientRepo, db)
	authService := services.NewAuthService(userRepo, db, mailer)

	// Handlers
	clientHandler := handlers.NewClientHandler(clientService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	authHandler := handlers.NewAuthHandler(authService)

	api := engine.Group("/api")

	SetupUserRoutes(api, authHandler)
	SetupClientRoutes(api, clientHandler)
	SetupPurchaseRoutes(api, purchaseHandler)
}
