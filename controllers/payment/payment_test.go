package paymentControllers

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/datle0910/delicious-bakery/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// seedPendingOrder creates a customer with a pending stripe order and a cart
// that still holds the purchased item, mirroring the state right after a
// stripe checkout.
func seedPendingOrder(t *testing.T, db *gorm.DB) (models.Order, models.Payment, models.Cart) {
	t.Helper()

	role := models.Role{Name: models.RoleCustomer}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	user := models.User{Email: "lan@example.com", Password: "x", FullName: "Lan", RoleID: role.ID, Enabled: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	cart := models.Cart{UserID: user.ID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	item := models.CartItem{CartID: cart.ID, ProductID: 1, Quantity: 2, UnitPrice: 45000}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}

	order := models.Order{
		Code:        "ORD-TEST-1",
		CustomerID:  user.ID,
		Status:      models.OrderStatusPendingConfirmation,
		TotalAmount: 99000,
		Payment: &models.Payment{
			Amount: 99000,
			Method: models.PaymentMethodStripe,
			Status: models.PaymentStatusPending,
		},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order, *order.Payment, cart
}

func TestMarkPaidAdvancesOrderAndClearsCart(t *testing.T) {
	db := newTestDB(t)
	order, payment, cart := seedPendingOrder(t, db)

	updated, err := UpdateStatus(db, payment.ID, "PAID")
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if updated.Status != models.PaymentStatusPaid {
		t.Errorf("payment status = %s, want PAID", updated.Status)
	}
	if updated.PaidAt == nil {
		t.Error("paidAt not stamped")
	}

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	if reloaded.Status != models.OrderStatusPreparing {
		t.Errorf("order status = %s, want PREPARING", reloaded.Status)
	}

	var itemCount int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("cart items after payment = %d, want 0", itemCount)
	}
}

func TestMarkPaidLeavesAdvancedOrderAlone(t *testing.T) {
	db := newTestDB(t)
	order, payment, _ := seedPendingOrder(t, db)
	db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderStatusShipping)

	if _, err := UpdateStatus(db, payment.ID, "PAID"); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	var reloaded models.Order
	db.First(&reloaded, order.ID)
	if reloaded.Status != models.OrderStatusShipping {
		t.Errorf("order status = %s, want SHIPPING untouched", reloaded.Status)
	}
}

func TestMarkFailedIsPlainWrite(t *testing.T) {
	db := newTestDB(t)
	order, payment, cart := seedPendingOrder(t, db)

	updated, err := UpdateStatus(db, payment.ID, "FAILED")
	if err != nil {
		t.Fatalf("mark failed errored: %v", err)
	}
	if updated.Status != models.PaymentStatusFailed {
		t.Errorf("payment status = %s, want FAILED", updated.Status)
	}
	if updated.PaidAt != nil {
		t.Error("paidAt stamped on FAILED")
	}

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	if reloaded.Status != models.OrderStatusPendingConfirmation {
		t.Errorf("order status = %s, want unchanged", reloaded.Status)
	}
	var itemCount int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount)
	if itemCount != 1 {
		t.Errorf("cart items = %d, want untouched", itemCount)
	}
}

func TestRefundedNotReachableViaStatusUpdate(t *testing.T) {
	db := newTestDB(t)
	_, payment, _ := seedPendingOrder(t, db)

	if _, err := UpdateStatus(db, payment.ID, "REFUNDED"); err == nil {
		t.Fatal("expected REFUNDED to be rejected as a direct status")
	}
}

func TestRefundRequiresPaid(t *testing.T) {
	db := newTestDB(t)
	_, payment, _ := seedPendingOrder(t, db)

	if _, err := Refund(db, payment.ID); err == nil {
		t.Fatal("expected refund of PENDING payment to be rejected")
	}
}

func TestRefundCascadesOrderCancellation(t *testing.T) {
	db := newTestDB(t)
	order, payment, _ := seedPendingOrder(t, db)

	if _, err := UpdateStatus(db, payment.ID, "PAID"); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	refunded, err := Refund(db, payment.ID)
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refunded.Status != models.PaymentStatusRefunded {
		t.Errorf("payment status = %s, want REFUNDED", refunded.Status)
	}

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	if reloaded.Status != models.OrderStatusCancelled {
		t.Errorf("order status = %s, want CANCELLED", reloaded.Status)
	}
}
