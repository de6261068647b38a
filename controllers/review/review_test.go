package reviewControllers

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
		&models.Role{}, &models.User{}, &models.Category{}, &models.Product{}, &models.Review{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB) (models.User, models.User, models.Product) {
	t.Helper()
	role := models.Role{Name: models.RoleCustomer}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	alice := models.User{Email: "alice@example.com", Password: "x", RoleID: role.ID, Enabled: true}
	bob := models.User{Email: "bob@example.com", Password: "x", RoleID: role.ID, Enabled: true}
	if err := db.Create(&alice).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&bob).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	category := models.Category{Name: "Cakes"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	product := models.Product{Name: "Opera", Slug: "opera", Price: 90000, Stock: 5, CategoryID: category.ID}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return alice, bob, product
}

func TestCreateReviewOnePerUserPerProduct(t *testing.T) {
	db := newTestDB(t)
	alice, bob, product := seed(t, db)

	if _, err := CreateReview(db, alice.ID, ReviewInput{ProductID: product.ID, Rating: 5, Comment: "perfect"}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if _, err := CreateReview(db, alice.ID, ReviewInput{ProductID: product.ID, Rating: 1}); err == nil {
		t.Fatal("expected duplicate review to be rejected")
	}
	// A different user may still review the same product.
	if _, err := CreateReview(db, bob.ID, ReviewInput{ProductID: product.ID, Rating: 4}); err != nil {
		t.Fatalf("second user review failed: %v", err)
	}
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	alice, _, _ := seed(t, db)

	if _, err := CreateReview(db, alice.ID, ReviewInput{ProductID: 999, Rating: 3}); err == nil {
		t.Fatal("expected unknown product error")
	}
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	alice, bob, product := seed(t, db)

	review, err := CreateReview(db, alice.ID, ReviewInput{ProductID: product.ID, Rating: 3, Comment: "ok"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := UpdateReview(db, bob.ID, review.ID, UpdateReviewInput{Rating: 1, Comment: "hijack"}); err == nil {
		t.Fatal("expected non-owner update to be rejected")
	}
	updated, err := UpdateReview(db, alice.ID, review.ID, UpdateReviewInput{Rating: 5, Comment: "grew on me"})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Rating != 5 || updated.Comment != "grew on me" {
		t.Errorf("review = %d/%q, want 5/\"grew on me\"", updated.Rating, updated.Comment)
	}
}

func TestDeleteReviewOwnerOrAdmin(t *testing.T) {
	db := newTestDB(t)
	alice, bob, product := seed(t, db)

	review, err := CreateReview(db, alice.ID, ReviewInput{ProductID: product.ID, Rating: 2})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := DeleteReview(db, bob.ID, false, review.ID); err == nil {
		t.Fatal("expected non-owner delete to be rejected")
	}
	if err := DeleteReview(db, bob.ID, true, review.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}

	var count int64
	db.Model(&models.Review{}).Count(&count)
	if count != 0 {
		t.Errorf("reviews left = %d, want 0", count)
	}
}
