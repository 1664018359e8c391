package store

import "fmt"

// TableDef pairs a table name with the DDL that creates it.
type TableDef struct {
	Name string
	DDL  string
}

// AccountTable returns the definition of the account table.
func AccountTable() TableDef {
	return TableDef{
		Name: "account",
		DDL: `CREATE TABLE account (
			id text PRIMARY KEY,
			email text NOT NULL,
			auth_type text NOT NULL,
			password text NOT NULL,
			account_name text,
			status text NOT NULL,
			more_info jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT NOW(),
			updated_at timestamptz NOT NULL DEFAULT NOW(),
			created_by text NOT NULL,
			updated_by text NOT NULL,
			version bigint NOT NULL
		)`,
	}
}

// FeedbackTable returns the definition of the user_feedback table.
func FeedbackTable() TableDef {
	return TableDef{
		Name: "user_feedback",
		DDL: `CREATE TABLE user_feedback (
			id text PRIMARY KEY,
			feedback_type text NOT NULL,
			creation_time timestamptz NOT NULL DEFAULT NOW(),
			username text NOT NULL,
			email text NOT NULL,
			full_name text NOT NULL,
			content text NOT NULL,
			user_ip text NOT NULL,
			user_agent text NOT NULL
		)`,
	}
}

// EntryTable returns the definition of a mailing-list table. The name is
// deployment-specific (email_marketing or email_record); the shape is shared.
// Email uniqueness is deliberately not a constraint here; the reconciler
// dedupes before writing.
func EntryTable(name string) TableDef {
	return TableDef{
		Name: name,
		DDL: fmt.Sprintf(`CREATE TABLE %s (
			id text PRIMARY KEY,
			email text NOT NULL,
			first_name text,
			last_name text,
			source_table text NOT NULL,
			source_id text NOT NULL,
			opt_in_status boolean NOT NULL,
			created_at timestamptz NOT NULL DEFAULT NOW(),
			updated_at timestamptz NOT NULL DEFAULT NOW()
		)`, name),
	}
}
