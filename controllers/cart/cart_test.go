package cartControllers

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
		&models.Cart{}, &models.CartItem{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, slug string, price float64) models.Product {
	t.Helper()
	category := models.Category{Name: "Pastries"}
	db.FirstOrCreate(&category, models.Category{Name: "Pastries"})
	product := models.Product{Name: name, Slug: slug, Price: price, Stock: 50, CategoryID: category.ID}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestGetOrCreateCartCreatesOnce(t *testing.T) {
	db := newTestDB(t)

	first, err := GetOrCreateCart(db, 7)
	if err != nil {
		t.Fatalf("first access failed: %v", err)
	}
	second, err := GetOrCreateCart(db, 7)
	if err != nil {
		t.Fatalf("second access failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("got two carts (%d, %d) for the same user", first.ID, second.ID)
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Croissant", "croissant", 25000)

	if _, err := AddItem(db, 1, product.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	cart, err := AddItem(db, 1, product.ID, 3)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("lines = %d, want 1 merged line", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", cart.Items[0].Quantity)
	}
}

// A cart loaded with Preload("Items") must be touched by id only. Saving the
// struct would write its Items association back and restore deleted lines.
func TestTouchCartDoesNotRestoreDeletedItems(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Madeleine", "madeleine", 15000)

	if _, err := AddItem(db, 1, product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := GetOrCreateCart(db, 1)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("lines = %d, want 1", len(cart.Items))
	}

	if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := touchCart(db, cart.ID); err != nil {
		t.Fatalf("touch failed: %v", err)
	}

	var count int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count)
	if count != 0 {
		t.Errorf("lines after delete+touch = %d, want 0", count)
	}
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Eclair", "eclair", 30000)

	cart, err := AddItem(db, 1, product.ID, 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if cart.Items[0].UnitPrice != 30000 {
		t.Fatalf("unit price = %v, want 30000", cart.Items[0].UnitPrice)
	}

	// Price change after the add must not touch the existing line.
	db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 45000)
	cart, err = GetOrCreateCart(db, 1)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if cart.Items[0].UnitPrice != 30000 {
		t.Errorf("unit price after catalog change = %v, want snapshot 30000", cart.Items[0].UnitPrice)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	if _, err := AddItem(db, 1, 999, 1); err == nil {
		t.Fatal("expected unknown product error")
	}
}

func TestUpdateItemQuantityRejectsBelowOne(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Macaron", "macaron", 15000)

	cart, err := AddItem(db, 1, product.ID, 2)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := UpdateItemQuantity(db, 1, cart.Items[0].ID, 0); err == nil {
		t.Fatal("expected quantity 0 to be rejected")
	}
	updated, err := UpdateItemQuantity(db, 1, cart.Items[0].ID, 4)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Items[0].Quantity != 4 {
		t.Errorf("quantity = %d, want 4", updated.Items[0].Quantity)
	}
}

func TestRemoveItemNotFound(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Tart", "tart", 40000)

	if _, err := AddItem(db, 1, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := RemoveItem(db, 1, 424242); err == nil {
		t.Fatal("expected missing item error")
	}
}

func TestRemoveItemDeletesLine(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Brownie", "brownie", 20000)

	cart, err := AddItem(db, 1, product.ID, 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	after, err := RemoveItem(db, 1, cart.Items[0].ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(after.Items) != 0 {
		t.Errorf("lines = %d, want 0", len(after.Items))
	}
}

func TestClearCartKeepsCartRow(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Donut", "donut", 12000)

	cart, err := AddItem(db, 1, product.ID, 3)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cleared, err := ClearCart(db, 1)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(cleared.Items) != 0 {
		t.Errorf("lines after clear = %d, want 0", len(cleared.Items))
	}
	if cleared.ID != cart.ID {
		t.Errorf("cart row changed: %d -> %d", cart.ID, cleared.ID)
	}
}

func TestSubtotalUsesSnapshotPrices(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{Quantity: 2, UnitPrice: 25000},
		{Quantity: 1, UnitPrice: 40000},
	}}
	if got := cart.Subtotal(); got != 90000 {
		t.Errorf("subtotal = %v, want 90000", got)
	}
}
