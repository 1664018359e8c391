// Package reconcile computes the set of mailing-list entries that should
// exist but do not yet, given the current contents of the source tables,
// and persists them in one bulk write.
package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/innosearch/contact-sync/internal/pkg/logger"
	"github.com/innosearch/contact-sync/internal/store"
)

// Reconciler merges feedback and account contacts into one mailing-list
// table. A single component serves both deployments: the destination table
// name and the database owning the account table are injected. In the
// single-database deployment Primary and Accounts are the same store.
type Reconciler struct {
	table    string
	primary  *store.Store // mailing list + user_feedback
	accounts *store.Store // account
}

// New creates a reconciler writing to the named mailing-list table.
func New(table string, primary, accounts *store.Store) *Reconciler {
	return &Reconciler{table: table, primary: primary, accounts: accounts}
}

// Table returns the destination table name.
func (r *Reconciler) Table() string { return r.table }

// Result reports the outcome of one reconciliation pass.
type Result struct {
	Added int
}

// Status renders the plain status string returned to the HTTP trigger.
func (res Result) Status() string {
	if res.Added == 0 {
		return "No new entries to add."
	}
	return fmt.Sprintf("%d new entries added.", res.Added)
}

// Run scans the source tables in fixed order (feedback, then accounts) and
// inserts an entry for every address not already present. The order is a
// contract: when the same address appears in both sources, the first one
// scanned owns the provenance tag.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	seen, err := r.primary.GetEntryEmails(ctx, r.table)
	if err != nil {
		return Result{}, fmt.Errorf("reading existing %s emails: %w", r.table, err)
	}

	var newEntries []*store.Entry

	feedback, err := r.primary.GetFeedbackContacts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reading feedback contacts: %w", err)
	}
	newEntries = collect(newEntries, feedback, store.SourceFeedback, seen)

	accounts, err := r.accounts.GetAccountContacts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reading account contacts: %w", err)
	}
	newEntries = collect(newEntries, accounts, store.SourceAccount, seen)

	if len(newEntries) == 0 {
		logger.Info("reconcile: no new entries", "table", r.table)
		return Result{Added: 0}, nil
	}

	if err := r.primary.InsertEntries(ctx, r.table, newEntries); err != nil {
		return Result{}, fmt.Errorf("inserting %d entries into %s: %w", len(newEntries), r.table, err)
	}
	logger.Info("reconcile: entries added", "table", r.table, "count", len(newEntries))
	return Result{Added: len(newEntries)}, nil
}

// collect appends an entry for each contact whose email is unseen, marking
// the address seen immediately so a later source cannot re-add it.
func collect(entries []*store.Entry, contacts []*store.Contact, sourceTable string, seen map[string]struct{}) []*store.Entry {
	for _, c := range contacts {
		if _, ok := seen[c.Email]; ok {
			continue
		}
		first, last := SplitName(c.Name)
		entries = append(entries, &store.Entry{
			Email:       c.Email,
			FirstName:   first,
			LastName:    last,
			SourceTable: sourceTable,
			SourceID:    c.ID,
			OptInStatus: true,
		})
		seen[c.Email] = struct{}{}
	}
	return entries
}

// SplitName derives first/last name from a raw name column by whitespace:
// first token and last token, identical for a single token, both NULL when
// the column is NULL or blank.
func SplitName(name sql.NullString) (first, last sql.NullString) {
	if !name.Valid {
		return sql.NullString{}, sql.NullString{}
	}
	tokens := strings.Fields(name.String)
	if len(tokens) == 0 {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: tokens[0], Valid: true},
		sql.NullString{String: tokens[len(tokens)-1], Valid: true}
}
