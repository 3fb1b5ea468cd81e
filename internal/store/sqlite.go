package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradevision/internal/models"
)

// ActivityArchive is the long-term sqlite archive for day-activity
// audit records. The in-memory log stays small; archived entries move
// here and remain queryable.
type ActivityArchive struct {
	db *sql.DB
}

// OpenActivityArchive opens (and initializes) the archive database.
func OpenActivityArchive(dbPath string) (*ActivityArchive, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	archive := &ActivityArchive{db: db}
	if err := archive.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}

	return archive, nil
}

func (a *ActivityArchive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		event TEXT NOT NULL,
		category TEXT NOT NULL,
		details TEXT,
		cancellation TEXT,
		is_edited INTEGER DEFAULT 0,
		original_state TEXT,
		archived_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_activities_mode ON activities(mode);
	CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities(timestamp);
	CREATE INDEX IF NOT EXISTS idx_activities_category ON activities(category);
	`

	_, err := a.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (a *ActivityArchive) Close() error {
	return a.db.Close()
}

// Archive writes activities into the archive. Re-archiving an id
// replaces the previous row.
func (a *ActivityArchive) Archive(ctx context.Context, mode models.ExecutionMode, activities []models.DayActivity) error {
	if len(activities) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO activities (id, mode, timestamp, event, category, details, cancellation, is_edited, original_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, act := range activities {
		var cancellation string
		if act.CancellationData != nil {
			raw, _ := json.Marshal(act.CancellationData)
			cancellation = string(raw)
		}
		isEdited := 0
		if act.IsEdited {
			isEdited = 1
		}

		_, err := stmt.ExecContext(ctx, act.ID, string(mode), act.Timestamp, act.Event, string(act.Category), act.Details, cancellation, isEdited, act.OriginalState)
		if err != nil {
			return fmt.Errorf("failed to insert activity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ActivityFilter represents filters for querying archived activities.
type ActivityFilter struct {
	Mode      models.ExecutionMode
	Category  models.ActivityCategory
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

// ArchivedActivity is one archived record together with its archive
// metadata.
type ArchivedActivity struct {
	models.DayActivity
	Mode       models.ExecutionMode
	ArchivedAt time.Time
}

// Query retrieves archived activities, newest first.
func (a *ActivityArchive) Query(ctx context.Context, filter ActivityFilter) ([]ArchivedActivity, error) {
	query := "SELECT id, mode, timestamp, event, category, details, cancellation, is_edited, original_state, archived_at FROM activities WHERE 1=1"
	args := []interface{}{}

	if filter.Mode != "" {
		query += " AND mode = ?"
		args = append(args, string(filter.Mode))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []ArchivedActivity
	for rows.Next() {
		var act ArchivedActivity
		var mode, category, cancellation string
		var isEdited int

		if err := rows.Scan(&act.ID, &mode, &act.Timestamp, &act.Event, &category, &act.Details, &cancellation, &isEdited, &act.OriginalState, &act.ArchivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		act.Mode = models.ExecutionMode(mode)
		act.Category = models.ActivityCategory(category)
		act.IsEdited = isEdited == 1
		act.IsArchived = true
		if cancellation != "" {
			var data models.CancellationData
			if err := json.Unmarshal([]byte(cancellation), &data); err == nil {
				act.CancellationData = &data
			}
		}

		activities = append(activities, act)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}
