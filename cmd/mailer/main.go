// The mailer reads the mailing-list table and streams a templated
// transactional email to every entry through Mailtrap. It runs out of band
// from the reconciliation endpoint, typically after a sync completes.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	"github.com/innosearch/contact-sync/internal/config"
	"github.com/innosearch/contact-sync/internal/delivery"
	"github.com/innosearch/contact-sync/internal/mailtrap"
	"github.com/innosearch/contact-sync/internal/store"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	table := flag.String("table", "", "mailing-list table to read (default: configured marketing table)")
	batch := flag.Bool("batch", false, "send one multi-recipient message instead of per-recipient sends")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatalf("Config invalid: %v", err)
	}
	if err := cfg.ValidateMailtrap(); err != nil {
		log.Fatalf("Config invalid: %v", err)
	}

	if *table == "" {
		*table = cfg.Reconcile.MarketingTable
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	entries, err := store.New(db).GetEntries(ctx, *table)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *table, err)
	}
	if len(entries) == 0 {
		log.Println("No entries to send to")
		return
	}

	streamer := delivery.NewStreamer(mailtrap.NewClient(cfg.Mailtrap), cfg.Mailtrap)

	if *batch {
		if err := streamer.SendBatch(ctx, entries); err != nil {
			log.Fatalf("Batch send failed: %v", err)
		}
		log.Printf("Batch sent to %d recipients", len(entries))
		return
	}

	statuses := streamer.SendIndividual(ctx, entries)
	sent := 0
	for _, st := range statuses {
		if st.Sent {
			sent++
		}
	}
	log.Printf("Sent %d/%d emails", sent, len(statuses))
}
