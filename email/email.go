package email

import (
	"fmt"
	"math"
	"net/smtp"
	"os"
	"strings"

	"github.com/datle0910/delicious-bakery/models"
)

// sendMail is swappable in tests.
var sendMail = smtp.SendMail

// send delivers one HTML email. Callers treat every error as non-fatal: they
// log it and carry on, so a broken mail server never fails an order.
func send(to, subject, htmlBody string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_FROM")
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")

	if host == "" || from == "" {
		return fmt.Errorf("smtp not configured")
	}
	if port == "" {
		port = "587"
	}

	msg := strings.Join([]string{
		"From: DeliciousBakery <" + from + ">",
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return sendMail(host+":"+port, auth, from, []string{to}, []byte(msg))
}

// SendOrderConfirmation emails the customer a summary of a placed order.
func SendOrderConfirmation(order *models.Order) error {
	if order == nil || order.Customer.Email == "" {
		return nil
	}

	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows,
			"<tr><td style=\"padding:8px 0;\">%s</td><td style=\"text-align:center;\">%d</td><td style=\"text-align:right;\">%s</td></tr>",
			item.ProductName, item.Quantity, FormatVND(item.TotalPrice))
	}

	method := models.PaymentMethodCash
	if order.Payment != nil {
		method = order.Payment.Method
	}

	body := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:640px;margin:0 auto;">
  <h2 style="color:#f97316;">Order %s confirmed</h2>
  <p>Hi %s, thank you for ordering from <strong>DeliciousBakery</strong>. We are preparing your order.</p>
  <table style="width:100%%;border-collapse:collapse;">
    <thead><tr><th style="text-align:left;">Item</th><th>Qty</th><th style="text-align:right;">Total</th></tr></thead>
    <tbody>%s</tbody>
  </table>
  <p>Shipping fee: <strong>%s</strong><br>
     Total: <strong>%s</strong><br>
     Payment: <strong>%s</strong></p>
  <p>Delivery address: %s</p>
  <p style="color:#64748b;">Need help? Reply to this email.<br>DeliciousBakery</p>
</div>`,
		order.Code, order.Customer.FullName, rows.String(),
		FormatVND(order.ShippingFee), FormatVND(order.TotalAmount), method,
		order.ShippingAddress)

	return send(order.Customer.Email, "Order confirmation "+order.Code, body)
}

// SendWelcomeEmail greets a freshly registered account.
func SendWelcomeEmail(user *models.User) error {
	if user == nil || user.Email == "" {
		return nil
	}
	body := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:640px;margin:0 auto;">
  <h2 style="color:#16a34a;">Welcome, %s!</h2>
  <p>Your DeliciousBakery account is ready. Browse fresh pastries, fill your cart and check out in seconds.</p>
  <p style="color:#64748b;">DeliciousBakery</p>
</div>`, user.FullName)
	return send(user.Email, "Welcome to DeliciousBakery", body)
}

// SendOTP delivers a registration code. The code is only valid for a few
// minutes; the message says so.
func SendOTP(to, code string, minutes int) error {
	body := fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;max-width:640px;margin:0 auto;">
  <p>Hello,</p>
  <p>Your DeliciousBakery verification code is: <strong style="font-size:20px;">%s</strong></p>
  <p>The code expires in %d minutes.</p>
</div>`, code, minutes)
	return send(to, "DeliciousBakery verification code", body)
}

// FormatVND renders an amount as Vietnamese dong with thousand separators.
func FormatVND(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return sign + strings.Join(parts, ".") + " ₫"
}
