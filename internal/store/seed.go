package store

import (
	"context"
	"fmt"
)

// Seeding reads and writes for the source tables. Production traffic never
// inserts into account or user_feedback (those rows arrive from other
// systems) but the seed binary and reset flows do.

// InsertAccount appends one account row.
func (s *Store) InsertAccount(ctx context.Context, account *Account) error {
	return s.InsertAccounts(ctx, []*Account{account})
}

// InsertAccounts appends account rows in a single transaction.
func (s *Store) InsertAccounts(ctx context.Context, accounts []*Account) error {
	if len(accounts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO account (id, email, auth_type, password, account_name, status, more_info, created_at, updated_at, created_by, updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW(), $8, $9, $10)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range accounts {
		if _, err := stmt.ExecContext(ctx, a.ID, a.Email, a.AuthType, a.Password,
			a.AccountName, a.Status, []byte(a.MoreInfo), a.CreatedBy, a.UpdatedBy, a.Version); err != nil {
			return fmt.Errorf("inserting account %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// InsertFeedback appends one feedback row.
func (s *Store) InsertFeedback(ctx context.Context, feedback *Feedback) error {
	return s.InsertFeedbacks(ctx, []*Feedback{feedback})
}

// InsertFeedbacks appends feedback rows in a single transaction.
func (s *Store) InsertFeedbacks(ctx context.Context, feedbacks []*Feedback) error {
	if len(feedbacks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO user_feedback (id, feedback_type, creation_time, username, email, full_name, content, user_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range feedbacks {
		if _, err := stmt.ExecContext(ctx, f.ID, f.FeedbackType, f.CreationTime,
			f.Username, f.Email, f.FullName, f.Content, f.UserIP, f.UserAgent); err != nil {
			return fmt.Errorf("inserting feedback %s: %w", f.ID, err)
		}
	}
	return tx.Commit()
}

// CountAccounts reports how many account rows exist.
func (s *Store) CountAccounts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&n)
	return n, err
}

// CountFeedbacks reports how many feedback rows exist.
func (s *Store) CountFeedbacks(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_feedback`).Scan(&n)
	return n, err
}

// GetAccounts returns every account row with an explicit column list.
func (s *Store) GetAccounts(ctx context.Context) ([]*Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, auth_type, password, account_name, status, more_info, created_at, updated_at, created_by, updated_by, version
		FROM account`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a := &Account{}
		var moreInfo []byte
		if err := rows.Scan(&a.ID, &a.Email, &a.AuthType, &a.Password, &a.AccountName,
			&a.Status, &moreInfo, &a.CreatedAt, &a.UpdatedAt, &a.CreatedBy, &a.UpdatedBy, &a.Version); err != nil {
			return nil, err
		}
		a.MoreInfo = moreInfo
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetFeedbacks returns every feedback row with an explicit column list.
func (s *Store) GetFeedbacks(ctx context.Context) ([]*Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, feedback_type, creation_time, username, email, full_name, content, user_ip, user_agent
		FROM user_feedback`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedbacks []*Feedback
	for rows.Next() {
		f := &Feedback{}
		if err := rows.Scan(&f.ID, &f.FeedbackType, &f.CreationTime, &f.Username,
			&f.Email, &f.FullName, &f.Content, &f.UserIP, &f.UserAgent); err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, f)
	}
	return feedbacks, rows.Err()
}
