package routes

import (
	"github.com/gin-gonic/gin"

	"vypar_back_end/internal/handlers/admin"
	"vypar_back_end/internal/handlers/catalog"
	"vypar_back_end/internal/handlers/seller"
	"vypar_back_end/internal/handlers/user"
	"vypar_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ---------- Public ----------
	api.POST("/auth/register", middleware.RegisterRateLimit(), user.Register)
	api.POST("/auth/login", middleware.LoginRateLimit(), user.Login)

	api.GET("/products", catalog.ListProducts)
	api.GET("/products/:id", catalog.GetProduct)
	api.GET("/categories", catalog.ListCategories)

	// ---------- Authentifié ----------
	auth := api.Group("", middleware.AuthRequired())

	auth.GET("/profile", user.GetProfile)
	auth.PUT("/profile", user.UpdateProfile)

	// ---------- Client ----------
	customer := auth.Group("", middleware.RequireCustomer)

	customer.GET("/addresses", user.ListAddresses)
	customer.POST("/addresses", user.CreateAddress)
	customer.PUT("/addresses/:id", user.UpdateAddress)
	customer.DELETE("/addresses/:id", user.DeleteAddress)

	customer.GET("/cart", user.GetCart)
	customer.POST("/cart/add", user.AddToCart)
	customer.PUT("/cart/items/:id", user.UpdateCartItem)
	customer.DELETE("/cart/items/:id", user.DeleteCartItem)

	customer.POST("/checkout", user.Checkout)
	customer.GET("/orders", user.GetMyOrders)
	customer.POST("/orders/items/:id/cancel", user.CancelOrderItem)

	// ---------- Vendeur ----------
	sellerGroup := auth.Group("/seller", middleware.RequireSeller)

	sellerGroup.GET("/profile", seller.GetProfile)
	sellerGroup.PUT("/profile", seller.UpdateProfile)
	sellerGroup.GET("/status", seller.GetStatus)

	sellerGroup.GET("/products", seller.ListProducts)
	sellerGroup.POST("/products", seller.CreateProduct)
	sellerGroup.PUT("/products/:id", seller.UpdateProduct)
	sellerGroup.DELETE("/products/:id", seller.DeleteProduct)

	sellerGroup.GET("/orders", seller.ListOrderItems)
	sellerGroup.PUT("/orders/items/:id/status", seller.UpdateOrderItemStatus)

	// ---------- Admin ----------
	adminGroup := auth.Group("/admin", middleware.RequireAdmin)

	adminGroup.GET("/sellers", admin.ListSellers)
	adminGroup.POST("/sellers/:id/verify", admin.VerifySeller)
	adminGroup.GET("/orders", admin.ListOrders)
}
