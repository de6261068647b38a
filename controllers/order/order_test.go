package orderControllers

import (
	"math"
	"strings"
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

type fixture struct {
	user    models.User
	cart    models.Cart
	product models.Product
}

// seedCheckout creates a customer with one product in the cart.
func seedCheckout(t *testing.T, db *gorm.DB, stock, quantity int, price float64) fixture {
	t.Helper()

	role := models.Role{Name: models.RoleCustomer}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	user := models.User{Email: "mai@example.com", Password: "x", FullName: "Mai", Address: "12 Nguyen Trai", RoleID: role.ID, Enabled: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	category := models.Category{Name: "Cakes"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	product := models.Product{Name: "Tiramisu", Slug: "tiramisu", Price: price, Stock: stock, CategoryID: category.ID}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	cart := models.Cart{UserID: user.ID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	item := models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: quantity, UnitPrice: price}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
	return fixture{user: user, cart: cart, product: product}
}

func TestCheckoutCreatesOrderWithPendingPayment(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 3, 100000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if !strings.HasPrefix(order.Code, "ORD-") {
		t.Errorf("order code = %q, want ORD- prefix", order.Code)
	}
	if order.Status != models.OrderStatusPendingConfirmation {
		t.Errorf("status = %s, want PENDING_CONFIRMATION", order.Status)
	}
	if math.Abs(order.ShippingFee-30000) > 0.01 {
		t.Errorf("shipping fee = %v, want 30000", order.ShippingFee)
	}
	if math.Abs(order.TotalAmount-330000) > 0.01 {
		t.Errorf("total = %v, want 330000", order.TotalAmount)
	}
	if order.Payment == nil || order.Payment.Status != models.PaymentStatusPending {
		t.Fatalf("payment = %+v, want PENDING", order.Payment)
	}
	if order.Payment.Amount != order.TotalAmount {
		t.Errorf("payment amount = %v, want %v", order.Payment.Amount, order.TotalAmount)
	}
	if order.ShippingAddress != "12 Nguyen Trai" {
		t.Errorf("shipping address = %q, want profile fallback", order.ShippingAddress)
	}

	var product models.Product
	db.First(&product, fx.product.ID)
	if product.Stock != 7 {
		t.Errorf("stock = %d, want 7", product.Stock)
	}

	var itemCount int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", fx.cart.ID).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("cart items after cash checkout = %d, want 0", itemCount)
	}
}

func TestCheckoutInsufficientStockRejectsWholeOrder(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 2, 3, 50000)

	if _, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"}); err == nil {
		t.Fatal("expected insufficient stock error")
	}

	var product models.Product
	db.First(&product, fx.product.ID)
	if product.Stock != 2 {
		t.Errorf("stock after failed checkout = %d, want 2", product.Stock)
	}
	var itemCount int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", fx.cart.ID).Count(&itemCount)
	if itemCount != 1 {
		t.Errorf("cart items after failed checkout = %d, want 1", itemCount)
	}
	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	if orderCount != 0 {
		t.Errorf("orders after failed checkout = %d, want 0", orderCount)
	}
}

func TestCheckoutAllowsExactStock(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 3, 3, 50000)

	if _, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"}); err != nil {
		t.Fatalf("checkout with stock == quantity failed: %v", err)
	}
	var product models.Product
	db.First(&product, fx.product.ID)
	if product.Stock != 0 {
		t.Errorf("stock = %d, want 0", product.Stock)
	}
}

func TestCheckoutFreeShippingAboveThreshold(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 6, 50000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.ShippingFee != 0 {
		t.Errorf("shipping fee = %v, want 0 for %d items", order.ShippingFee, 6)
	}
	if order.TotalAmount != 300000 {
		t.Errorf("total = %v, want 300000", order.TotalAmount)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 1, 50000)
	db.Where("cart_id = ?", fx.cart.ID).Delete(&models.CartItem{})

	if _, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"}); err == nil {
		t.Fatal("expected empty cart error")
	}
}

func TestCheckoutInvalidMethod(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 1, 50000)

	if _, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "PAYPAL"}); err == nil {
		t.Fatal("expected invalid payment method error")
	}
}

func TestCheckoutStripeKeepsCart(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 2, 50000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "STRIPE"})
	if err != nil {
		t.Fatalf("stripe checkout failed: %v", err)
	}
	if order.Payment.Method != models.PaymentMethodStripe {
		t.Errorf("method = %s, want STRIPE", order.Payment.Method)
	}

	var itemCount int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", fx.cart.ID).Count(&itemCount)
	if itemCount != 1 {
		t.Errorf("cart items after stripe checkout = %d, want 1 (cleared on payment)", itemCount)
	}
}

func TestCheckoutUsesCartSnapshotPrice(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 2, 80000)

	// Catalog price rises after the item was added.
	db.Model(&models.Product{}).Where("id = ?", fx.product.ID).Update("price", 120000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(order.Items))
	}
	if order.Items[0].UnitPrice != 80000 {
		t.Errorf("unit price = %v, want cart snapshot 80000", order.Items[0].UnitPrice)
	}
	if order.Items[0].TotalPrice != 160000 {
		t.Errorf("line total = %v, want 160000", order.Items[0].TotalPrice)
	}
}

func TestCheckoutExplicitShippingAddressWins(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 1, 50000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH", ShippingAddress: "99 Le Loi"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.ShippingAddress != "99 Le Loi" {
		t.Errorf("shipping address = %q, want request value", order.ShippingAddress)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 4, 50000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if err := Cancel(db, order.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	var product models.Product
	db.First(&product, fx.product.ID)
	if product.Stock != 10 {
		t.Errorf("stock after cancel = %d, want 10", product.Stock)
	}
	var reloaded models.Order
	db.First(&reloaded, order.ID)
	if reloaded.Status != models.OrderStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", reloaded.Status)
	}
}

func TestCancelRejectedAfterShipping(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 1, 50000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderStatusShipping)

	if err := Cancel(db, order.ID); err == nil {
		t.Fatal("expected cancel to be rejected for SHIPPING order")
	}
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 1, 50000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// Skipping straight to DELIVERED is illegal.
	if _, err := UpdateStatus(db, order.ID, "DELIVERED"); err == nil {
		t.Fatal("expected PENDING_CONFIRMATION -> DELIVERED to be rejected")
	}

	for _, status := range []string{"PREPARING", "SHIPPING", "DELIVERED"} {
		updated, err := UpdateStatus(db, order.ID, status)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
		if string(updated.Status) != status {
			t.Errorf("status = %s, want %s", updated.Status, status)
		}
	}

	// DELIVERED is terminal.
	if _, err := UpdateStatus(db, order.ID, "PREPARING"); err == nil {
		t.Fatal("expected DELIVERED to be terminal")
	}
}

func TestUpdateStatusCancelledRestocks(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 2, 50000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	updated, err := UpdateStatus(db, order.ID, "CANCELLED")
	if err != nil {
		t.Fatalf("cancel via status update failed: %v", err)
	}
	if updated.Status != models.OrderStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", updated.Status)
	}
	var product models.Product
	db.First(&product, fx.product.ID)
	if product.Stock != 10 {
		t.Errorf("stock = %d, want 10 after restock", product.Stock)
	}
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	db := newTestDB(t)
	fx := seedCheckout(t, db, 10, 1, 50000)

	order, err := Checkout(db, fx.user.ID, CheckoutInput{PaymentMethod: "CASH"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if _, err := UpdateStatus(db, order.ID, "EATEN"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}
