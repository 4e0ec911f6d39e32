package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"weighin/internal/adapters/email"
	"weighin/internal/adapters/http/middleware"
	"weighin/internal/adapters/http/perf"
	challengeStore "weighin/internal/adapters/storage/challenge"
	participantStore "weighin/internal/adapters/storage/participant"
	weightStore "weighin/internal/adapters/storage/weight"
)

// Stores holds all storage dependencies.
type Stores struct {
	ParticipantStore participantStore.Store
	WeightStore      weightStore.Store
	ConfigStore      challengeStore.Store
}

// loadCSRFKey reads the CSRF secret from WEIGHIN_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("WEIGHIN_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("WEIGHIN_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("WEIGHIN_ENV") == "production" {
		log.Fatal("WEIGHIN_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set WEIGHIN_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var resultRecipients []string

// Bcrypt hash of the shared admin password (set by SetAdminPasswordHash)
var adminPasswordHash []byte

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from string, recipients []string) {
	emailSender = sender
	emailFromAddress = from
	resultRecipients = recipients
}

// SetAdminPasswordHash sets the bcrypt hash the admin login checks against.
func SetAdminPasswordHash(hash []byte) {
	adminPasswordHash = hash
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("WEIGHIN_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

// registerRoutes attaches every application route to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/dashboard", handleGetDashboard)
	mux.HandleFunc("/api/stats", handleGetStats)
	mux.HandleFunc("/api/participants", handleParticipants)
	mux.HandleFunc("/api/entry-day", handleGetEntryDay)
	mux.HandleFunc("/api/series", handleGetSeries)
	mux.HandleFunc("/api/export.csv", handleExportResults)
	mux.HandleFunc("/api/announcement", handleGetAnnouncement)

	// Mutations go through the shared admin session; registration stays
	// open so newcomers can sign themselves up during the window.
	mux.Handle("/api/participants/edit", middleware.RequireAdmin(http.HandlerFunc(handleEditParticipant)))
	mux.Handle("/api/participants/delete", middleware.RequireAdmin(http.HandlerFunc(handleDeleteParticipant)))
	mux.Handle("/api/weights", middleware.RequireAdmin(http.HandlerFunc(handleRecordWeight)))
	mux.Handle("/api/weights/final", middleware.RequireAdmin(http.HandlerFunc(handleRecordFinalWeight)))
	mux.Handle("/api/weights/start", middleware.RequireAdmin(http.HandlerFunc(handleSetStartWeight)))

	mux.HandleFunc("/api/admin/login", handleAdminLogin)
	mux.HandleFunc("/api/admin/logout", handleAdminLogout)
	mux.Handle("/api/admin/config", middleware.RequireAdmin(http.HandlerFunc(handleUpdateConfig)))
	mux.Handle("/api/admin/email-results", middleware.RequireAdmin(http.HandlerFunc(handleEmailResults)))
	mux.Handle("/api/admin/reset", middleware.RequireAdmin(http.HandlerFunc(handleResetChallenge)))
	mux.Handle("/api/admin/perf", middleware.RequireAdmin(http.HandlerFunc(handleGetPerf)))
}
