package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrwolf/mentor-server/internal/models"
)

// CreateJournal stores an entry. A guided journal also records the
// guided-reflection discovery flag.
func (db *DB) CreateJournal(actor string, req models.CreateJournalRequest, at time.Time) (*models.JournalEntry, error) {
	j := models.JournalEntry{
		ID:         uuid.NewString(),
		CreatedAt:  at.UTC().Truncate(time.Second),
		Type:       req.Type,
		Content:    req.Content,
		QAPairs:    req.QAPairs,
		TemplateID: req.TemplateID,
	}
	if j.Type == "" {
		j.Type = models.JournalQuickNote
	}

	var qa sql.NullString
	if len(j.QAPairs) > 0 {
		b, err := json.Marshal(j.QAPairs)
		if err != nil {
			return nil, fmt.Errorf("encoding qa pairs: %w", err)
		}
		qa = sql.NullString{String: string(b), Valid: true}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO journal_entries (journal_id, actor, type, content, qa_pairs, template_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, j.ID, actor, j.Type, j.Content, qa, j.TemplateID, formatTime(j.CreatedAt)); err != nil {
		return nil, fmt.Errorf("inserting journal: %w", err)
	}

	if j.Type == models.JournalGuided {
		if err := setFlag(tx, actor, models.FlagGuidedReflection, at); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing journal: %w", err)
	}
	return &j, nil
}

// ListJournals returns an actor's entries newest first. limit <= 0 means all.
func (db *DB) ListJournals(actor string, limit int) ([]models.JournalEntry, error) {
	query := `
		SELECT journal_id, type, content, qa_pairs, template_id, created_at
		FROM journal_entries
		WHERE actor = ?
		ORDER BY created_at DESC, rowid DESC
	`
	args := []any{actor}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	journals := []models.JournalEntry{}
	for rows.Next() {
		var j models.JournalEntry
		var qa, template sql.NullString
		var createdStr string
		if err := rows.Scan(&j.ID, &j.Type, &j.Content, &qa, &template, &createdStr); err != nil {
			return nil, err
		}
		if qa.Valid && qa.String != "" {
			if err := json.Unmarshal([]byte(qa.String), &j.QAPairs); err != nil {
				return nil, fmt.Errorf("decoding qa pairs for %s: %w", j.ID, err)
			}
		}
		j.TemplateID = template.String
		j.CreatedAt = parseTime(createdStr)
		journals = append(journals, j)
	}
	return journals, rows.Err()
}

// CountJournals returns how many entries an actor has
func (db *DB) CountJournals(actor string) (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM journal_entries WHERE actor = ?`, actor).Scan(&n)
	return n, err
}
