// The seeder creates the tables if missing and populates the source tables
// with sample rows. Test and local-dev flows only.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"time"

	"github.com/innosearch/contact-sync/internal/config"
	"github.com/innosearch/contact-sync/internal/store"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	reset := flag.Bool("reset", false, "clear the mailing-list table before seeding")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatalf("Config invalid: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := store.New(db)
	ctx := context.Background()

	for _, def := range []store.TableDef{
		store.AccountTable(),
		store.FeedbackTable(),
		store.EntryTable(cfg.Reconcile.MarketingTable),
	} {
		if err := s.EnsureTable(ctx, def); err != nil {
			log.Fatalf("Ensure table: %v", err)
		}
	}

	if *reset {
		if err := s.DeleteEntries(ctx, cfg.Reconcile.MarketingTable); err != nil {
			log.Fatalf("Reset %s: %v", cfg.Reconcile.MarketingTable, err)
		}
		log.Printf("Cleared %s", cfg.Reconcile.MarketingTable)
	}

	// Only seed empty tables, so reruns stay idempotent.
	if n, err := s.CountAccounts(ctx); err != nil {
		log.Fatalf("Count accounts: %v", err)
	} else if n == 0 {
		if err := s.InsertAccounts(ctx, sampleAccounts()); err != nil {
			log.Fatalf("Seed accounts: %v", err)
		}
		log.Println("Seeded account table")
	}

	if n, err := s.CountFeedbacks(ctx); err != nil {
		log.Fatalf("Count feedback: %v", err)
	} else if n == 0 {
		if err := s.InsertFeedbacks(ctx, sampleFeedbacks()); err != nil {
			log.Fatalf("Seed feedback: %v", err)
		}
		log.Println("Seeded user_feedback table")
	}

	log.Println("Done")
}

func sampleAccounts() []*store.Account {
	return []*store.Account{
		{
			ID: "1", Email: "example@example.com", AuthType: "password", Password: "example_password",
			AccountName: sql.NullString{String: "Example Name", Valid: true}, Status: "active",
			MoreInfo: json.RawMessage(`{"info": "more details"}`), CreatedBy: "creator", UpdatedBy: "updater", Version: 1,
		},
		{
			ID: "2", Email: "user1@example.com", AuthType: "password", Password: "password1",
			AccountName: sql.NullString{String: "User One", Valid: true}, Status: "active",
			MoreInfo: json.RawMessage(`{"info": "details 1"}`), CreatedBy: "creator", UpdatedBy: "updater", Version: 1,
		},
		{
			ID: "3", Email: "user2@example.com", AuthType: "password", Password: "password2",
			AccountName: sql.NullString{String: "User Two", Valid: true}, Status: "active",
			MoreInfo: json.RawMessage(`{"info": "details 2"}`), CreatedBy: "creator", UpdatedBy: "updater", Version: 1,
		},
	}
}

func sampleFeedbacks() []*store.Feedback {
	base := time.Date(2024, 8, 1, 12, 34, 56, 0, time.UTC)
	return []*store.Feedback{
		{
			ID: "1", FeedbackType: "bug", CreationTime: base, Username: "user1",
			Email: "user1@example.com", FullName: "User One", Content: "There is a bug.",
			UserIP: "192.168.1.1", UserAgent: "Mozilla/5.0",
		},
		{
			ID: "2", FeedbackType: "feature", CreationTime: base.Add(time.Hour), Username: "user2",
			Email: "user2@example.com", FullName: "User Two", Content: "Please add this feature.",
			UserIP: "192.168.1.2", UserAgent: "Mozilla/5.0",
		},
		{
			ID: "3", FeedbackType: "feedback", CreationTime: base.Add(2 * time.Hour), Username: "user3",
			Email: "user3@example.com", FullName: "User Three", Content: "Great job!",
			UserIP: "192.168.1.3", UserAgent: "Mozilla/5.0",
		},
	}
}
