package orderControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datle0910/delicious-bakery/email"
	"github.com/datle0910/delicious-bakery/models"
)

type CheckoutInput struct {
	PaymentMethod   string `json:"payment_method" binding:"required"` // CASH, STRIPE
	ShippingAddress string `json:"shipping_address"`
	Note            string `json:"note"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// Free shipping above this many pastries; below it the fee is 10% of subtotal.
const (
	freeShippingQuantity = 5
	shippingFeeRate      = 0.1
)

func generateOrderCode() string {
	return "ORD-" + time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}

// -------- Core Logic --------

// Checkout snapshots the user's cart into an order with a pending payment.
//
// The whole operation runs in one transaction with the product rows locked
// FOR UPDATE, so two concurrent checkouts cannot oversell the same product.
// Any failure (empty cart, insufficient stock) rolls everything back and
// leaves cart and stock untouched.
func Checkout(db *gorm.DB, userID uint, input CheckoutInput) (*models.Order, error) {
	method := strings.ToUpper(input.PaymentMethod)
	if method != models.PaymentMethodCash && method != models.PaymentMethodStripe {
		return nil, errors.New("invalid payment method")
	}

	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, errors.New("cart not found")
	}
	if len(cart.Items) == 0 {
		return nil, errors.New("your cart is empty")
	}

	var customer models.User
	if err := db.Preload("Role").First(&customer, userID).Error; err != nil {
		return nil, errors.New("customer not found")
	}

	shippingAddress := strings.TrimSpace(input.ShippingAddress)
	if shippingAddress == "" {
		shippingAddress = customer.Address
	}

	isStripe := method == models.PaymentMethodStripe

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var (
			subtotal      float64
			totalQuantity int
			orderItems    []models.OrderItem
		)

		for _, item := range cart.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, item.ProductID).Error; err != nil {
				return fmt.Errorf("product %d not found", item.ProductID)
			}

			// Stock exactly equal to the requested quantity is fine.
			if product.Stock < item.Quantity {
				return fmt.Errorf("product %q does not have enough stock", product.Name)
			}

			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			lineTotal := item.UnitPrice * float64(item.Quantity)
			subtotal += lineTotal
			totalQuantity += item.Quantity

			orderItems = append(orderItems, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.Image,
				UnitPrice:    item.UnitPrice, // cart snapshot, not live price
				Quantity:     item.Quantity,
				TotalPrice:   lineTotal,
			})
		}

		shippingFee := subtotal * shippingFeeRate
		if totalQuantity > freeShippingQuantity {
			shippingFee = 0
		}
		totalAmount := subtotal + shippingFee

		order = models.Order{
			Code:            generateOrderCode(),
			CustomerID:      customer.ID,
			Items:           orderItems,
			Status:          models.OrderStatusPendingConfirmation,
			TotalAmount:     totalAmount,
			ShippingFee:     shippingFee,
			ShippingAddress: shippingAddress,
			Note:            input.Note,
			Payment: &models.Payment{
				Amount: totalAmount,
				Method: method,
				Status: models.PaymentStatusPending,
			},
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Stripe orders keep the cart until the payment is confirmed.
		if !isStripe {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			// Touch by id: updating through the loaded struct would re-save
			// its preloaded Items and undo the delete above.
			if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).
				Update("updated_at", time.Now()).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Customer = customer

	if !isStripe {
		if err := email.SendOrderConfirmation(&order); err != nil {
			log.Printf("failed to send order confirmation for %s: %v", order.Code, err)
		}
	}
	broadcastOrderUpdate(&order)

	return &order, nil
}

// UpdateStatus moves an order along the transition table; illegal moves are
// rejected centrally.
func UpdateStatus(db *gorm.DB, orderID uint, statusStr string) (*models.Order, error) {
	status, ok := models.ParseOrderStatus(statusStr)
	if !ok {
		return nil, errors.New("invalid order status")
	}

	var order models.Order
	if err := db.Preload("Items").Preload("Payment").Preload("Customer").First(&order, orderID).Error; err != nil {
		return nil, errors.New("order not found")
	}

	if status == models.OrderStatusCancelled {
		if err := Cancel(db, orderID); err != nil {
			return nil, err
		}
		if err := db.Preload("Items").Preload("Payment").Preload("Customer").First(&order, orderID).Error; err != nil {
			return nil, err
		}
		return &order, nil
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("cannot move order from %s to %s", order.Status, status)
	}

	order.Status = status
	if err := db.Save(&order).Error; err != nil {
		return nil, err
	}
	broadcastOrderUpdate(&order)
	return &order, nil
}

// Cancel aborts an order that has not left the kitchen, restoring stock for
// every frozen line inside one transaction.
func Cancel(db *gorm.DB, orderID uint) error {
	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return errors.New("order not found")
	}

	if !order.Status.Cancellable() {
		return errors.New("order can only be cancelled before delivery is prepared")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, item.ProductID).Error; err != nil {
				// Product removed from catalog; nothing to restock.
				continue
			}
			product.Stock += item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
		}
		order.Status = models.OrderStatusCancelled
		return tx.Save(&order).Error
	})
	if err != nil {
		return err
	}
	broadcastOrderUpdate(&order)
	return nil
}

// -------- Handlers --------

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").Preload("Payment").Preload("Customer").Preload("Customer.Role")
}

// POST /orders/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userVal.(uint)

		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := Checkout(db, userID, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders (admin)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := preloadOrder(db).Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID — accepts an id or an order code. Customers can only
// see their own orders; admins see everything.
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		var order models.Order
		if err := preloadOrder(db).Where("id = ? OR code = ?", id, id).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !canAccessOrder(c, &order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "this is not your order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func canAccessOrder(c *gin.Context, order *models.Order) bool {
	if role, _ := c.Get("role"); role == models.RoleAdmin {
		return true
	}
	userVal, exists := c.Get("user_id")
	if !exists {
		return false
	}
	userID, ok := userVal.(uint)
	return ok && order.CustomerID == userID
}

// GET /orders/my — the authenticated customer's own orders.
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var orders []models.Order
		if err := preloadOrder(db).
			Where("customer_id = ?", userVal).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/user/:userID (admin)
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		var orders []models.Order
		if err := preloadOrder(db).
			Where("customer_id = ?", userID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /orders/:orderID/status (admin)
func UpdateStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}
		var input UpdateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := UpdateStatus(db, uint(orderID), input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:orderID/cancel — owner or admin only.
func CancelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}
		var order models.Order
		if err := db.First(&order, orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !canAccessOrder(c, &order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "this is not your order"})
			return
		}
		if err := Cancel(db, uint(orderID)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
	}
}
