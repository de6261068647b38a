package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/datle0910/delicious-bakery/controllers/cart"
	orderControllers "github.com/datle0910/delicious-bakery/controllers/order"
	paymentControllers "github.com/datle0910/delicious-bakery/controllers/payment"
	reviewControllers "github.com/datle0910/delicious-bakery/controllers/review"
	uploadControllers "github.com/datle0910/delicious-bakery/controllers/upload"
	userControllers "github.com/datle0910/delicious-bakery/controllers/user"
	"github.com/datle0910/delicious-bakery/middleware"
)

// SetupCustomerRoutes registers the endpoints an authenticated customer
// uses: profile, cart, checkout, own orders, reviews and image uploads.
func SetupCustomerRoutes(r *gin.Engine, db *gorm.DB) {
	group := r.Group("/")
	group.Use(middleware.ValidateToken)
	{
		group.GET("/profile", userControllers.GetProfileHandler(db))
		group.PUT("/profile", userControllers.UpdateProfileHandler(db))

		cartGroup := group.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCartHandler(db))
			cartGroup.DELETE("", cartControllers.ClearCartHandler(db))
			cartGroup.POST("/items", cartControllers.AddItemHandler(db))
			cartGroup.PUT("/items/:itemID", cartControllers.UpdateItemHandler(db))
			cartGroup.DELETE("/items/:itemID", cartControllers.RemoveItemHandler(db))
		}

		orderGroup := group.Group("/orders")
		{
			orderGroup.POST("/checkout", orderControllers.CheckoutHandler(db))
			orderGroup.GET("/my", orderControllers.GetMyOrdersHandler(db))
			orderGroup.GET("/:orderID", orderControllers.GetOrderHandler(db))
			orderGroup.PUT("/:orderID/cancel", orderControllers.CancelHandler(db))
		}

		group.POST("/payments/stripe/create-intent", paymentControllers.CreateStripeIntentHandler(db))

		reviewGroup := group.Group("/reviews")
		{
			reviewGroup.POST("", reviewControllers.CreateReviewHandler(db))
			reviewGroup.GET("/my", reviewControllers.GetMyReviewsHandler(db))
			reviewGroup.PUT("/:reviewID", reviewControllers.UpdateReviewHandler(db))
			reviewGroup.DELETE("/:reviewID", reviewControllers.DeleteReviewHandler(db))
		}

		group.POST("/uploads", uploadControllers.UploadImageHandler())
	}
}
