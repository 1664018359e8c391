package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Provenance tags recorded on mailing-list entries. Downstream reporting
// distinguishes these, so the values must match the source table names.
const (
	SourceAccount  = "account"
	SourceFeedback = "user_feedback"
)

// Account is an identity + credential row provisioned by external systems.
// This service only ever reads it; version bumps belong to the provisioner.
type Account struct {
	ID          string
	Email       string
	AuthType    string
	Password    string
	AccountName sql.NullString
	Status      string
	MoreInfo    json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
	UpdatedBy   string
	Version     int64
}

// Feedback is a user-submitted feedback row. Read-only here.
type Feedback struct {
	ID           string
	FeedbackType string
	CreationTime time.Time
	Username     string
	Email        string
	FullName     string
	Content      string
	UserIP       string
	UserAgent    string
}

// Entry is a deduplicated mailing-list row. Created exclusively by the
// reconciler; only opt_in_status is ever updated afterwards.
type Entry struct {
	ID          string
	Email       string
	FirstName   sql.NullString
	LastName    sql.NullString
	SourceTable string
	SourceID    string
	OptInStatus bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Contact is a candidate source row for reconciliation: the provenance id,
// the address, and the raw name column the entry's first/last name is
// derived from (username for feedback rows, account_name for accounts).
type Contact struct {
	ID    string
	Email string
	Name  sql.NullString
}
