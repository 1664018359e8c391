// Package store provides typed read/write operations against the account,
// user_feedback, and mailing-list tables. Connectivity and query failures
// propagate to the caller unmodified; there is no retry at this layer.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrNotFound is returned by point operations that match no row.
var ErrNotFound = errors.New("store: row not found")

// ErrDuplicateEmail is returned when a bulk insert trips a unique index on
// the email column. The deployed schema carries no such index, but the
// classification lets one be added without touching callers.
var ErrDuplicateEmail = errors.New("store: duplicate email")

// Store provides database operations for contact-sync entities
type Store struct {
	db *sql.DB
}

// New creates a store over an open database handle
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureTable checks the schema catalog for the table and issues its DDL
// when absent. Safe to call repeatedly; DDL errors surface to the caller.
func (s *Store) EnsureTable(ctx context.Context, def TableDef) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
		def.Name,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking table %s: %w", def.Name, err)
	}
	if exists {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, def.DDL); err != nil {
		return fmt.Errorf("creating table %s: %w", def.Name, err)
	}
	return nil
}

// InsertEntry appends one mailing-list row.
func (s *Store) InsertEntry(ctx context.Context, table string, entry *Entry) error {
	return s.InsertEntries(ctx, table, []*Entry{entry})
}

// InsertEntries appends mailing-list rows in a single transaction. IDs are
// generated here; created_at/updated_at come from the database server, not
// the client. No uniqueness check is performed; callers pre-check.
func (s *Store) InsertEntries(ctx context.Context, table string, entries []*Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, email, first_name, last_name, source_table, source_id, opt_in_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`, pq.QuoteIdentifier(table)))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Email, e.FirstName, e.LastName,
			e.SourceTable, e.SourceID, e.OptInStatus); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return fmt.Errorf("%w: %s", ErrDuplicateEmail, pqErr.Constraint)
			}
			return err
		}
	}
	return tx.Commit()
}

// GetEntries returns every mailing-list row. No pagination; callers
// need the full set.
func (s *Store) GetEntries(ctx context.Context, table string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, email, first_name, last_name, source_table, source_id, opt_in_status, created_at, updated_at
		FROM %s`, pq.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Email, &e.FirstName, &e.LastName,
			&e.SourceTable, &e.SourceID, &e.OptInStatus, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetEntryEmails returns the set of addresses already present in the
// mailing list, compared as stored (no case normalization).
func (s *Store) GetEntryEmails(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT email FROM %s`, pq.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		seen[email] = struct{}{}
	}
	return seen, rows.Err()
}

// GetFeedbackContacts returns feedback rows eligible for reconciliation.
// The name column is username, matching what the entry names derive from.
func (s *Store) GetFeedbackContacts(ctx context.Context) ([]*Contact, error) {
	return s.queryContacts(ctx,
		`SELECT id, email, username FROM user_feedback WHERE email IS NOT NULL`)
}

// GetAccountContacts returns account rows eligible for reconciliation.
func (s *Store) GetAccountContacts(ctx context.Context) ([]*Contact, error) {
	return s.queryContacts(ctx,
		`SELECT id, email, account_name FROM account WHERE email IS NOT NULL`)
}

func (s *Store) queryContacts(ctx context.Context, query string) ([]*Contact, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		c := &Contact{}
		if err := rows.Scan(&c.ID, &c.Email, &c.Name); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// UpdateOptInStatus sets the opt-in flag of one entry and refreshes
// updated_at from the database clock. Unknown ids return ErrNotFound.
func (s *Store) UpdateOptInStatus(ctx context.Context, table, id string, optIn bool) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET opt_in_status = $1, updated_at = NOW() WHERE id = $2`,
		pq.QuoteIdentifier(table)), optIn, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEntries unconditionally clears a mailing-list table. Reset flows only.
func (s *Store) DeleteEntries(ctx context.Context, table string) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s`, pq.QuoteIdentifier(table)))
	return err
}
