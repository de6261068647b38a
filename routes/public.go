package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/datle0910/delicious-bakery/auth"
	chatControllers "github.com/datle0910/delicious-bakery/controllers/chat"
	productControllers "github.com/datle0910/delicious-bakery/controllers/product"
	reviewControllers "github.com/datle0910/delicious-bakery/controllers/review"
)

// SetupPublicRoutes registers everything reachable without a token: account
// creation, the catalog, product reviews and the FAQ assistant.
func SetupPublicRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(db))
		authGroup.POST("/login", auth.LoginHandler(db))
		authGroup.POST("/introspect", auth.IntrospectHandler())
		authGroup.GET("/check-email", auth.CheckEmailHandler(db))
	}

	otpGroup := r.Group("/otp")
	{
		otpGroup.POST("/send", auth.SendOTPHandler())
		otpGroup.POST("/verify", auth.VerifyOTPHandler())
	}

	productGroup := r.Group("/products")
	{
		productGroup.GET("", productControllers.GetAllProductsHandler(db))
		productGroup.GET("/search", productControllers.SearchProductsHandler(db))
		productGroup.GET("/:productID", productControllers.GetProductHandler(db))
		productGroup.GET("/:productID/reviews", reviewControllers.GetProductReviewsHandler(db))
	}

	categoryGroup := r.Group("/categories")
	{
		categoryGroup.GET("", productControllers.GetAllCategoriesHandler(db))
		categoryGroup.GET("/:categoryID", productControllers.GetCategoryHandler(db))
		categoryGroup.GET("/:categoryID/products", productControllers.GetProductsByCategoryHandler(db))
	}

	r.GET("/reviews/product/:productID", reviewControllers.GetProductReviewsHandler(db))

	r.POST("/ai/chat", chatControllers.ChatHandler(db))
}
