package paymentControllers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"gorm.io/gorm"

	"github.com/datle0910/delicious-bakery/models"
)

type CreateIntentInput struct {
	OrderID  uint    `json:"order_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency"`
}

// POST /payments/stripe/create-intent
//
// Creates a Stripe payment intent for an order and stores the intent id as
// the payment's transaction id. The client confirms with the returned
// client secret; the payment status endpoint is hit once Stripe settles.
func CreateStripeIntentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateIntentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.Preload("Payment").First(&order, input.OrderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.Payment == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order has no payment record"})
			return
		}

		currency := input.Currency
		if currency == "" {
			currency = "vnd"
		}

		stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(int64(input.Amount * 100)),
			Currency: stripe.String(currency),
			AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
				Enabled: stripe.Bool(true),
			},
		}
		params.AddMetadata("order_id", fmt.Sprintf("%d", order.ID))

		pi, err := paymentintent.New(params)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create payment intent: " + err.Error()})
			return
		}

		if err := db.Model(order.Payment).Update("transaction_id", pi.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store transaction id"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"client_secret":     pi.ClientSecret,
			"payment_intent_id": pi.ID,
		})
	}
}
