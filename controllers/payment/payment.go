package paymentControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/datle0910/delicious-bakery/email"
	"github.com/datle0910/delicious-bakery/models"
)

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// -------- Core Logic --------

// UpdateStatus drives the payment state machine.
//
// PENDING -> PAID marks paidAt, advances a still-unconfirmed order to
// PREPARING, clears the customer's cart (Stripe flows leave it intact at
// checkout) and sends the confirmation email. Email failures are logged,
// never returned: the transition itself always wins.
func UpdateStatus(db *gorm.DB, paymentID uint, statusStr string) (*models.Payment, error) {
	status, ok := models.ParsePaymentStatus(statusStr)
	if !ok {
		return nil, errors.New("invalid payment status")
	}

	var payment models.Payment
	if err := db.First(&payment, paymentID).Error; err != nil {
		return nil, errors.New("payment not found")
	}

	if status != models.PaymentStatusPaid {
		payment.Status = status
		if err := db.Save(&payment).Error; err != nil {
			return nil, err
		}
		return &payment, nil
	}

	now := time.Now()
	payment.Status = models.PaymentStatusPaid
	payment.PaidAt = &now
	if err := db.Save(&payment).Error; err != nil {
		return nil, err
	}

	var order models.Order
	if err := db.Preload("Items").Preload("Customer").First(&order, payment.OrderID).Error; err != nil {
		return &payment, nil
	}
	order.Payment = &payment

	if order.Status == models.OrderStatusPendingConfirmation {
		order.Status = models.OrderStatusPreparing
		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", order.Status).Error; err != nil {
			return nil, err
		}
	}

	// Defensive clear: the gateway flow keeps the cart until this point.
	var cart models.Cart
	if err := db.Where("user_id = ?", order.CustomerID).First(&cart).Error; err == nil {
		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			log.Printf("failed to clear cart after payment %d: %v", payment.ID, err)
		}
		if err := db.Model(&models.Cart{}).Where("id = ?", cart.ID).
			Update("updated_at", time.Now()).Error; err != nil {
			log.Printf("failed to touch cart after payment %d: %v", payment.ID, err)
		}
	}

	if err := email.SendOrderConfirmation(&order); err != nil {
		log.Printf("failed to send payment confirmation for order %s: %v", order.Code, err)
	}

	return &payment, nil
}

// Refund is allowed only from PAID and cascades the order to CANCELLED.
func Refund(db *gorm.DB, paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := db.First(&payment, paymentID).Error; err != nil {
		return nil, errors.New("payment not found")
	}

	if payment.Status != models.PaymentStatusPaid {
		return nil, errors.New("only paid payments can be refunded")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		payment.Status = models.PaymentStatusRefunded
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).
			Update("status", models.OrderStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// -------- Handlers --------

// GET /payments (admin)
func GetAllPaymentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payments []models.Payment
		if err := db.Order("created_at DESC").Find(&payments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

// GET /payments/:paymentID
func GetPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("paymentID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
			return
		}
		var payment models.Payment
		if err := db.First(&payment, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

// PUT /payments/:paymentID/status
func UpdateStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("paymentID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
			return
		}
		var input UpdateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		payment, err := UpdateStatus(db, uint(id), input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

// POST /payments/:paymentID/refund (admin)
func RefundHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("paymentID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
			return
		}
		payment, err := Refund(db, uint(id))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}
