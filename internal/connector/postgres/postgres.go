// Package postgres loads the reference question bank from the analytics
// warehouse and uploads finished export tables back to it.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/altum-analytics/uidmatch/internal/model"
)

// bankQuery aggregates the historical responses table into one row per
// distinct (heading, uid) pair. The observation count becomes the entry's
// authority for tie-breaking.
const bankQuery = `
SELECT heading, uid, COUNT(*) AS authority_count
FROM survey_details_responses_combined
WHERE uid IS NOT NULL AND heading IS NOT NULL AND TRIM(heading) <> ''
GROUP BY heading, uid
ORDER BY uid, authority_count DESC`

var errNoDSN = errors.New("postgres: warehouse DSN not configured")

// Store is a reference bank source and export sink backed by one database
// handle. Safe for concurrent use; *sql.DB pools connections internally.
type Store struct {
	db *sql.DB
}

// Open connects to the warehouse at the given DSN.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errNoDSN
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an existing database handle.
func NewFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load returns the reference bank with per-pair authority counts.
func (s *Store) Load(ctx context.Context) ([]model.ReferenceEntry, error) {
	rows, err := s.db.QueryContext(ctx, bankQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres: load reference bank: %w", err)
	}
	defer rows.Close()

	var entries []model.ReferenceEntry
	for rows.Next() {
		var e model.ReferenceEntry
		if err := rows.Scan(&e.Heading, &e.UID, &e.AuthorityCount); err != nil {
			return nil, fmt.Errorf("postgres: scan reference row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read reference bank: %w", err)
	}
	return entries, nil
}

// Check pings the warehouse.
func (s *Store) Check(ctx context.Context) (string, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("postgres: check connection: %w", err)
	}
	return "warehouse reachable", nil
}

// Upload replaces the named table's rows with the given export records
// inside one transaction. The table name must be a known export target; it
// is interpolated into SQL and cannot come from user input.
func (s *Store) Upload(ctx context.Context, table string, rows []model.MatchRecord) error {
	if !validTableName(table) {
		return fmt.Errorf("postgres: invalid export table name %q", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin upload: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("postgres: clear %s: %w", table, err)
	}

	const insert = `
INSERT INTO ` + "%s" + ` (question_id, survey_id, survey_title, question_text, is_choice,
	final_uid, confidence_tier, matched_heading, stage, respondent_type, programme,
	is_identity, identity_type)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(insert, table))
	if err != nil {
		return fmt.Errorf("postgres: prepare upload: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.Question.ID, row.Question.SurveyID, row.Question.SurveyTitle,
			row.Question.Text, row.Question.IsChoice,
			row.Match.FinalUID, string(row.Match.Tier), row.Match.MatchedHeading,
			row.Category.Stage, row.Category.RespondentType, row.Category.Programme,
			row.Identity.IsIdentity, row.Identity.Type)
		if err != nil {
			return fmt.Errorf("postgres: insert into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit upload: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// validTableName allows lower-case identifiers with underscores only.
func validTableName(table string) bool {
	if table == "" {
		return false
	}
	for _, r := range table {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return !strings.ContainsRune("0123456789", rune(table[0]))
}
