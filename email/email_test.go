package email

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/datle0910/delicious-bakery/models"
)

func TestFormatVND(t *testing.T) {
	cases := map[float64]string{
		0:        "0 ₫",
		500:      "500 ₫",
		45000:    "45.000 ₫",
		1250000:  "1.250.000 ₫",
		-99000:   "-99.000 ₫",
		330000.4: "330.000 ₫",
	}
	for amount, want := range cases {
		if got := FormatVND(amount); got != want {
			t.Errorf("FormatVND(%v) = %q, want %q", amount, got, want)
		}
	}
}

func TestSendFailsWithoutSMTPConfig(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "")
	if err := send("someone@example.com", "s", "b"); err == nil {
		t.Fatal("expected error when smtp is not configured")
	}
}

func TestSendOrderConfirmationContent(t *testing.T) {
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_FROM", "shop@example.com")

	var captured []byte
	var capturedTo []string
	orig := sendMail
	sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		captured = msg
		capturedTo = to
		return nil
	}
	defer func() { sendMail = orig }()

	order := &models.Order{
		Code:            "ORD-20260101-abc",
		Customer:        models.User{Email: "mai@example.com", FullName: "Mai"},
		Items:           []models.OrderItem{{ProductName: "Tiramisu", Quantity: 2, TotalPrice: 180000}},
		ShippingFee:     18000,
		TotalAmount:     198000,
		ShippingAddress: "12 Nguyen Trai",
		Payment:         &models.Payment{Method: models.PaymentMethodCash},
	}
	if err := SendOrderConfirmation(order); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if len(capturedTo) != 1 || capturedTo[0] != "mai@example.com" {
		t.Errorf("to = %v, want customer address", capturedTo)
	}
	body := string(captured)
	for _, want := range []string{"ORD-20260101-abc", "Tiramisu", "198.000", "12 Nguyen Trai", "CASH"} {
		if !strings.Contains(body, want) {
			t.Errorf("email missing %q", want)
		}
	}
}

func TestSendOrderConfirmationSkipsMissingEmail(t *testing.T) {
	if err := SendOrderConfirmation(&models.Order{}); err != nil {
		t.Errorf("order without customer email should be a no-op, got %v", err)
	}
	if err := SendOrderConfirmation(nil); err != nil {
		t.Errorf("nil order should be a no-op, got %v", err)
	}
}
