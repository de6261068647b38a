package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/datle0910/delicious-bakery/controllers/cart"
	orderControllers "github.com/datle0910/delicious-bakery/controllers/order"
	paymentControllers "github.com/datle0910/delicious-bakery/controllers/payment"
	productControllers "github.com/datle0910/delicious-bakery/controllers/product"
	statisticsControllers "github.com/datle0910/delicious-bakery/controllers/statistics"
	userControllers "github.com/datle0910/delicious-bakery/controllers/user"
	"github.com/datle0910/delicious-bakery/middleware"
)

// SetupAdminRoutes registers the back-office endpoints. Everything here
// requires a valid token carrying the ADMIN role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		// Catalog management
		admin.POST("/products", productControllers.CreateProductHandler(db))
		admin.PUT("/products/:productID", productControllers.UpdateProductHandler(db))
		admin.DELETE("/products/:productID", productControllers.DeleteProductHandler(db))
		admin.POST("/categories", productControllers.CreateCategoryHandler(db))
		admin.PUT("/categories/:categoryID", productControllers.UpdateCategoryHandler(db))
		admin.DELETE("/categories/:categoryID", productControllers.DeleteCategoryHandler(db))

		// Users and roles
		admin.GET("/users", userControllers.GetAllUsersHandler(db))
		admin.GET("/users/:userID", userControllers.GetUserHandler(db))
		admin.PUT("/users/:userID/enabled", userControllers.SetUserEnabledHandler(db))
		admin.PUT("/users/:userID/role", userControllers.SetUserRoleHandler(db))
		admin.GET("/user-cart/:userID", cartControllers.AdminGetCartHandler(db))
		admin.GET("/roles", userControllers.GetAllRolesHandler(db))
		admin.POST("/roles", userControllers.CreateRoleHandler(db))
		admin.PUT("/roles/:roleID", userControllers.UpdateRoleHandler(db))
		admin.DELETE("/roles/:roleID", userControllers.DeleteRoleHandler(db))

		// Orders and payments
		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		admin.GET("/orders/user/:userID", orderControllers.GetUserOrdersHandler(db))
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateStatusHandler(db))
		admin.GET("/payments", paymentControllers.GetAllPaymentsHandler(db))
		admin.GET("/payments/:paymentID", paymentControllers.GetPaymentHandler(db))
		admin.PUT("/payments/:paymentID/status", paymentControllers.UpdateStatusHandler(db))
		admin.POST("/payments/:paymentID/refund", paymentControllers.RefundHandler(db))

		// Live order feed for the dashboard
		admin.GET("/orders/ws", orderControllers.OrderWebSocketHandler)

		// Statistics and exports
		stats := admin.Group("/statistics")
		{
			stats.GET("/products", statisticsControllers.ProductStatsHandler(db))
			stats.GET("/revenue", statisticsControllers.RevenueStatsHandler(db))
			stats.GET("/customers", statisticsControllers.CustomerStatsHandler(db))
			stats.GET("/products/export/excel", statisticsControllers.ExportProductStatsExcelHandler(db))
			stats.GET("/revenue/export/excel", statisticsControllers.ExportRevenueStatsExcelHandler(db))
			stats.GET("/customers/export/excel", statisticsControllers.ExportCustomerStatsExcelHandler(db))
			stats.GET("/products/export/pdf", statisticsControllers.ExportProductStatsPDFHandler(db))
			stats.GET("/revenue/export/pdf", statisticsControllers.ExportRevenueStatsPDFHandler(db))
			stats.GET("/customers/export/pdf", statisticsControllers.ExportCustomerStatsPDFHandler(db))
		}
	}
}
