package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/innosearch/contact-sync/internal/api"
	"github.com/innosearch/contact-sync/internal/config"
	"github.com/innosearch/contact-sync/internal/reconcile"
	"github.com/innosearch/contact-sync/internal/store"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func main() {
	configPath := "config/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatalf("Config invalid: %v", err)
	}

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check failed: %v", err)
	}

	primaryDB, err := openDB(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer primaryDB.Close()
	primary := store.New(primaryDB)

	// The email_record deployment keeps accounts in a separate auth
	// database; everywhere else they share the primary handle.
	accounts := primary
	if cfg.Database.AuthURL != "" {
		authDB, err := openDB(cfg.Database.AuthURL)
		if err != nil {
			log.Fatalf("Failed to connect to auth database: %v", err)
		}
		defer authDB.Close()
		accounts = store.New(authDB)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := bootstrap(ctx, cfg, primary, accounts); err != nil {
		cancel()
		log.Fatalf("Table bootstrap failed: %v", err)
	}
	cancel()
	log.Println("Tables verified")

	marketing := reconcile.New(cfg.Reconcile.MarketingTable, primary, accounts)
	var records *reconcile.Reconciler
	if cfg.Reconcile.RecordsEnabled {
		records = reconcile.New(cfg.Reconcile.RecordsTable, primary, accounts)
	}

	server := api.NewServer(cfg.Server, api.NewHandlers(marketing, records))

	addr := fmt.Sprintf("%s:%d", host, port)
	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func bootstrap(ctx context.Context, cfg *config.Config, primary, accounts *store.Store) error {
	if err := accounts.EnsureTable(ctx, store.AccountTable()); err != nil {
		return err
	}
	if err := primary.EnsureTable(ctx, store.FeedbackTable()); err != nil {
		return err
	}
	if err := primary.EnsureTable(ctx, store.EntryTable(cfg.Reconcile.MarketingTable)); err != nil {
		return err
	}
	if cfg.Reconcile.RecordsEnabled {
		if err := primary.EnsureTable(ctx, store.EntryTable(cfg.Reconcile.RecordsTable)); err != nil {
			return err
		}
	}
	return nil
}
