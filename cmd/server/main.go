package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "dangol/internal/adapters/email"
	web "dangol/internal/adapters/http"
	"dangol/internal/adapters/sheets"
	"dangol/internal/adapters/storage"
	memberStore "dangol/internal/adapters/storage/member"
	orderStore "dangol/internal/adapters/storage/order"
	submissionStore "dangol/internal/adapters/storage/submission"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Spreadsheet: the shared workbook is created on first run.
	workbookPath := envOrDefault("DANGOL_WORKBOOK_PATH", "dangol.xlsx")
	wb, err := sheets.Open(workbookPath)
	if err != nil {
		log.Fatalf("failed to open workbook: %v", err)
	}
	defer wb.Close()

	// Local submission log with WAL mode and busy timeout
	dbPath := envOrDefault("DANGOL_DB_PATH", "dangol.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to init database: %v", err)
	}

	timedDB := storage.NewTimedDB(db)

	stores := &web.Stores{
		MemberStore:     memberStore.NewSheetStore(wb),
		OrderStore:      orderStore.NewSheetStore(wb),
		SubmissionStore: submissionStore.NewSQLiteStore(timedDB),
	}

	// Admin view password gate
	adminPassword := os.Getenv("DANGOL_ADMIN_PASSWORD")
	if adminPassword == "" {
		if os.Getenv("DANGOL_ENV") == "production" {
			log.Fatal("DANGOL_ADMIN_PASSWORD is required in production")
		}
		adminPassword = "yogurt"
		log.Println("WARNING: using default admin password (dev only). Set DANGOL_ADMIN_PASSWORD.")
	}
	if err := web.SetAdminPassword(adminPassword); err != nil {
		log.Fatalf("failed to set admin password: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("DANGOL_RESEND_KEY")
	emailFrom := envOrDefault("DANGOL_RESEND_FROM", "단골요거트 <noreply@dangol.example>")
	shopEmail := os.Getenv("DANGOL_SHOP_EMAIL")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, shopEmail)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, shopEmail)
		if os.Getenv("DANGOL_ENV") == "production" {
			log.Println("WARNING: DANGOL_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set DANGOL_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux("static", stores)

	addr := envOrDefault("DANGOL_ADDR", ":8080")
	log.Printf("dangol %s starting on %s (env=%s, workbook=%s)", version, addr, envOrDefault("DANGOL_ENV", "development"), workbookPath)

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
