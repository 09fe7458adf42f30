package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dangol/internal/adapters/email"
	"dangol/internal/adapters/http/middleware"
	memberStore "dangol/internal/adapters/storage/member"
	orderStore "dangol/internal/adapters/storage/order"
	submissionStore "dangol/internal/adapters/storage/submission"
)

// Stores holds all storage dependencies.
type Stores struct {
	MemberStore     memberStore.Store
	OrderStore      orderStore.Store
	SubmissionStore submissionStore.Store
}

// loadCSRFKey reads the CSRF secret from DANGOL_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("DANGOL_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("DANGOL_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("DANGOL_ENV") == "production" {
		log.Fatal("DANGOL_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set DANGOL_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// adminPasswordHash is the bcrypt hash of the single admin password.
var adminPasswordHash []byte

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var shopEmailAddress string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, shopEmail string) {
	emailSender = sender
	emailFromAddress = from
	shopEmailAddress = shopEmail
}

// SetAdminPassword hashes and stores the admin view password.
// PRE: password is non-empty
func SetAdminPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	adminPasswordHash = hash
	return nil
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("DANGOL_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Chain wraps first-listed innermost; requests pass Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
