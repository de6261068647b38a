package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the public, customer
// and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public routes (no middleware)
	SetupPublicRoutes(r, db)

	// Customer routes (JWT-protected)
	SetupCustomerRoutes(r, db)

	// Admin routes (JWT + ADMIN role)
	SetupAdminRoutes(r, db)
}
