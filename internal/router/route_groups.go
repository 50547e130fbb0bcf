package router

import (
	"zoe_store_backend/internal/handlers"
	"zoe_store_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes sets up account routes. Registration and login are public;
// the rest of the user CRUD requires a token.
func SetupUserRoutes(api *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	users := api.Group("/users")
	users.POST("", authHandler.CreateUser)
	users.POST("/login", authHandler.Login)

	protected := users.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("", authHandler.GetUsers)
		protected.GET("/:id", authHandler.GetUserByID)
		protected.PUT("/:id", authHandler.UpdateUser)
		protected.DELETE("/:id", authHandler.DeleteUser)
	}
}

// SetupClientRoutes sets up the client routes. Listing stays open; every
// mutating or per-record route requires a token.
func SetupClientRoutes(api *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clients := api.Group("/clients")
	clients.GET("", clientHandler.GetClients)

	protected := clients.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", clientHandler.CreateClient)
		protected.GET("/:id", clientHandler.GetClientByID)
		protected.PUT("/:id", clientHandler.UpdateClient)
		protected.DELETE("/:id", clientHandler.DeleteClient)
		protected.GET("/:id/purchases", clientHandler.GetClientWithPurchases)
		protected.POST("/:id/reconcile", clientHandler.ReconcilePurchaseCount)
	}
}

// SetupPurchaseRoutes sets up the purchase routes.
func SetupPurchaseRoutes(api *gin.RouterGroup, purchaseHandler *handlers.PurchaseHandler) {
	purchases := api.Group("/purchases")
	purchases.POST("", purchaseHandler.CreatePurchase)
	purchases.GET("", purchaseHandler.GetPurchases)
	purchases.GET("/:id", purchaseHandler.GetPurchaseByID)
	purchases.PUT("/:id", purchaseHandler.UpdatePurchase)
	purchases.DELETE("/:id", purchaseHandler.DeletePurchase)
	purchases.GET("/client/:clientId", purchaseHandler.GetPurchasesByClient)
}
