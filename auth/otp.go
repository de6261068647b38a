package auth

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/datle0910/delicious-bakery/email"
)

const otpTTL = 5 * time.Minute

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// otpStore keeps pending registration codes in memory. Codes are single use
// and expire after otpTTL; a lost code is re-requested, never recovered.
type otpStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	now     func() time.Time
}

func newOTPStore() *otpStore {
	return &otpStore{entries: make(map[string]otpEntry), now: time.Now}
}

var otps = newOTPStore()

func (s *otpStore) issue(emailAddr string) string {
	code := generateOTP()
	s.mu.Lock()
	s.entries[emailAddr] = otpEntry{code: code, expiresAt: s.now().Add(otpTTL)}
	s.mu.Unlock()
	return code
}

// verify checks a code; when consume is true a match burns the entry so the
// code cannot be replayed. The check endpoint peeks, registration consumes.
func (s *otpStore) verify(emailAddr, code string, consume bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[emailAddr]
	if !ok {
		return false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, emailAddr)
		return false
	}
	if entry.code != code {
		return false
	}
	if consume {
		delete(s.entries, emailAddr)
	}
	return true
}

func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the process is in a bad state anyway
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// POST /otp/send
func SendOTPHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		emailAddr := c.Query("email")
		if emailAddr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		code := otps.issue(emailAddr)
		if err := email.SendOTP(emailAddr, code, int(otpTTL.Minutes())); err != nil {
			log.Printf("failed to send OTP to %s: %v", emailAddr, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send OTP email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
	}
}

// POST /otp/verify
func VerifyOTPHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		emailAddr := c.Query("email")
		code := c.Query("otp")
		if emailAddr == "" || code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and otp are required"})
			return
		}
		c.JSON(http.StatusOK, otps.verify(emailAddr, code, false))
	}
}
