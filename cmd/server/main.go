package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"golang.org/x/crypto/bcrypt"

	emailPkg "weighin/internal/adapters/email"
	web "weighin/internal/adapters/http"
	"weighin/internal/adapters/http/perf"
	"weighin/internal/adapters/storage"
	challengeStore "weighin/internal/adapters/storage/challenge"
	participantStore "weighin/internal/adapters/storage/participant"
	weightStore "weighin/internal/adapters/storage/weight"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("WEIGHIN_DB", "weighin.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	stores := &web.Stores{
		ParticipantStore: participantStore.NewSQLiteStore(timedDB),
		WeightStore:      weightStore.NewSQLiteStore(timedDB),
		ConfigStore:      challengeStore.NewSQLiteStore(timedDB),
	}

	// Admin password: a single shared credential for the group organizer.
	adminPassword := envOrDefault("WEIGHIN_ADMIN_PASSWORD", "admin123")
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	web.SetAdminPasswordHash(hash)
	if adminPassword == "admin123" && os.Getenv("WEIGHIN_ENV") == "production" {
		log.Println("WARNING: running in production with the default admin password. Set WEIGHIN_ADMIN_PASSWORD.")
	}

	// Configure email sender
	resendKey := os.Getenv("WEIGHIN_RESEND_KEY")
	emailFrom := envOrDefault("WEIGHIN_RESEND_FROM", "Челлендж <noreply@example.com>")
	var recipients []string
	for _, addr := range strings.Split(os.Getenv("WEIGHIN_RESULT_RECIPIENTS"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, recipients)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, recipients)
		if os.Getenv("WEIGHIN_ENV") == "production" {
			log.Println("WARNING: WEIGHIN_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set WEIGHIN_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing + admin perf view)
	mux := web.NewMux(envOrDefault("WEIGHIN_STATIC_DIR", "static"), stores, collector)

	// Start server
	addr := envOrDefault("WEIGHIN_ADDR", ":8080")
	log.Printf("Weighin %s starting on %s (env=%s)", version, addr, envOrDefault("WEIGHIN_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
