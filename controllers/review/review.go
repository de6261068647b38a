package reviewControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/datle0910/delicious-bakery/models"
)

type ReviewInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type UpdateReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// -------- Core Logic --------

// CreateReview enforces one review per user per product.
func CreateReview(db *gorm.DB, userID uint, input ReviewInput) (*models.Review, error) {
	var product models.Product
	if err := db.First(&product, input.ProductID).Error; err != nil {
		return nil, errors.New("product not found")
	}

	var count int64
	db.Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", userID, input.ProductID).
		Count(&count)
	if count > 0 {
		return nil, errors.New("you have already reviewed this product")
	}

	review := models.Review{
		UserID:    userID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := db.Create(&review).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("User").Preload("Product").First(&review, review.ID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview lets a user edit only their own review.
func UpdateReview(db *gorm.DB, userID, reviewID uint, input UpdateReviewInput) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, reviewID).Error; err != nil {
		return nil, errors.New("review not found")
	}
	if review.UserID != userID {
		return nil, errors.New("you can only edit your own review")
	}

	review.Rating = input.Rating
	review.Comment = input.Comment
	if err := db.Save(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview allows the owner, or an admin, to remove a review.
func DeleteReview(db *gorm.DB, userID uint, isAdmin bool, reviewID uint) error {
	var review models.Review
	if err := db.First(&review, reviewID).Error; err != nil {
		return errors.New("review not found")
	}
	if !isAdmin && review.UserID != userID {
		return errors.New("you can only delete your own review")
	}
	return db.Delete(&review).Error
}

// -------- Handlers --------

func currentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	id, ok := val.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return id, true
}

// POST /reviews
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		review, err := CreateReview(db, userID, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// PUT /reviews/:reviewID
func UpdateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		reviewID, err := strconv.ParseUint(c.Param("reviewID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
			return
		}
		var input UpdateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		review, err := UpdateReview(db, userID, uint(reviewID), input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// DELETE /reviews/:reviewID
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		reviewID, err := strconv.ParseUint(c.Param("reviewID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
			return
		}
		role, _ := c.Get("role")
		isAdmin := role == models.RoleAdmin
		if err := DeleteReview(db, userID, isAdmin, uint(reviewID)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}

// GET /products/:productID/reviews
func GetProductReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("productID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		var reviews []models.Review
		if err := db.Preload("User").
			Where("product_id = ?", productID).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// GET /reviews/my — optionally filtered by ?product_id=
func GetMyReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		query := db.Preload("Product").Where("user_id = ?", userID)
		if productID := c.Query("product_id"); productID != "" {
			query = query.Where("product_id = ?", productID)
		}
		var reviews []models.Review
		if err := query.Order("created_at DESC").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}
