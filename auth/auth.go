package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/datle0910/delicious-bakery/email"
	"github.com/datle0910/delicious-bakery/models"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=20"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	OTP      string `json:"otp" binding:"required,len=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type IntrospectInput struct {
	Token string `json:"token" binding:"required"`
}

// POST /auth/register
//
// Registration is OTP-gated: the caller must have requested a code via
// /otp/send for the same email. The OTP is consumed here.
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !otps.verify(input.Email, input.OTP, true) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}

		var count int64
		db.Model(&models.User{}).Where("email = ?", input.Email).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}

		var role models.Role
		if err := db.Where("name = ?", models.RoleCustomer).First(&role).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Default role not found"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			Email:    input.Email,
			Password: string(hash),
			FullName: input.FullName,
			Phone:    input.Phone,
			Address:  input.Address,
			RoleID:   role.ID,
			Role:     role,
			Enabled:  true,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		if err := email.SendWelcomeEmail(&user); err != nil {
			log.Printf("failed to send welcome email to %s: %v", user.Email, err)
		}

		c.JSON(http.StatusCreated, user)
	}
}

// POST /auth/login
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Preload("Role").Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email or password is incorrect"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email or password is incorrect"})
			return
		}
		if !user.Enabled {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled. Please contact support."})
			return
		}

		token, err := GenerateToken(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":     token,
			"user_id":   user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.Role.Name,
			"enabled":   user.Enabled,
		})
	}
}

// POST /auth/introspect
func IntrospectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input IntrospectInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": VerifyToken(input.Token)})
	}
}

// GET /auth/check-email — true when the address is still available.
func CheckEmailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		emailAddr := c.Query("email")
		if emailAddr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}
		var count int64
		db.Model(&models.User{}).Where("email = ?", emailAddr).Count(&count)
		c.JSON(http.StatusOK, count == 0)
	}
}
