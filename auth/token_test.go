package auth

import (
	"testing"

	"github.com/datle0910/delicious-bakery/models"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := models.User{
		ID:    42,
		Email: "mai@example.com",
		Role:  models.Role{Name: models.RoleCustomer},
	}
	token, err := GenerateToken(&user)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if !VerifyToken(token) {
		t.Error("freshly issued token rejected")
	}
	if VerifyToken(token + "x") {
		t.Error("tampered token accepted")
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	user := models.User{ID: 1, Email: "a@example.com", Role: models.Role{Name: models.RoleCustomer}}
	token, err := GenerateToken(&user)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	if VerifyToken(token) {
		t.Error("token signed with another secret accepted")
	}
}
