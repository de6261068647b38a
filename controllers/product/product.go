package productControllers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/datle0910/delicious-bakery/models"
)

type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	CategoryID  uint    `json:"category_id" binding:"required"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// -------- Core Logic --------

func CreateProduct(db *gorm.DB, input ProductInput) (*models.Product, error) {
	var category models.Category
	if err := db.First(&category, input.CategoryID).Error; err != nil {
		return nil, errors.New("category not found")
	}

	product := models.Product{
		Name:        input.Name,
		Slug:        slugify(input.Name),
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
		Description: input.Description,
		CategoryID:  input.CategoryID,
	}

	var count int64
	db.Model(&models.Product{}).Where("slug = ?", product.Slug).Count(&count)
	if count > 0 {
		return nil, errors.New("a product with this name already exists")
	}

	if err := db.Create(&product).Error; err != nil {
		return nil, err
	}
	product.Category = category
	return &product, nil
}

func UpdateProduct(db *gorm.DB, id uint, input ProductInput) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		return nil, errors.New("product not found")
	}

	if input.CategoryID != product.CategoryID {
		var category models.Category
		if err := db.First(&category, input.CategoryID).Error; err != nil {
			return nil, errors.New("category not found")
		}
	}

	product.Name = input.Name
	product.Slug = slugify(input.Name)
	product.Price = input.Price
	product.Stock = input.Stock
	product.Image = input.Image
	product.Description = input.Description
	product.CategoryID = input.CategoryID

	if err := db.Save(&product).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Category").First(&product, product.ID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// -------- Handlers --------

// GET /products
func GetAllProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Category").Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:productID — accepts a numeric id or a slug.
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("productID")
		var product models.Product
		query := db.Preload("Category")
		var err error
		if id, convErr := strconv.ParseUint(key, 10, 32); convErr == nil {
			err = query.First(&product, id).Error
		} else {
			err = query.Where("slug = ?", key).First(&product).Error
		}
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GET /products/search?q=croissant
func SearchProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyword := strings.TrimSpace(c.Query("q"))
		if keyword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing search keyword"})
			return
		}
		var products []models.Product
		if err := db.Preload("Category").
			Where("LOWER(name) LIKE ?", "%"+strings.ToLower(keyword)+"%").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /categories/:categoryID/products
func GetProductsByCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := strconv.ParseUint(c.Param("categoryID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		var products []models.Product
		if err := db.Preload("Category").
			Where("category_id = ?", categoryID).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// POST /products (admin)
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product, err := CreateProduct(db, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /products/:productID (admin)
func UpdateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("productID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product, err := UpdateProduct(db, uint(id), input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /products/:productID (admin)
func DeleteProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("productID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		result := db.Delete(&models.Product{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
