package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

// Dependents reference friends without ON DELETE CASCADE: DeleteFriend removes
// them explicitly inside its transaction, and the foreign key catches any path
// that forgets to.
var migrations = []migration{
	{
		Version:     1,
		Description: "friends",
		SQL: `
CREATE TABLE friends (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL CHECK (length(name) > 0),
    birthday   TEXT,
    phone      TEXT,
    email      TEXT,
    photo_url  TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX idx_friends_name ON friends(name);
`,
	},
	{
		Version:     2,
		Description: "events: dated occasions per friend",
		SQL: `
CREATE TABLE events (
    id                   INTEGER PRIMARY KEY,
    friend_id            INTEGER NOT NULL,
    title                TEXT NOT NULL CHECK (length(title) > 0),
    date                 TEXT NOT NULL,
    event_type           TEXT NOT NULL DEFAULT 'custom' CHECK (event_type IN ('birthday', 'anniversary', 'custom')),
    recurrence           TEXT NOT NULL DEFAULT 'none' CHECK (recurrence IN ('yearly', 'once', 'none')),
    reminder_days_before INTEGER NOT NULL DEFAULT 7,
    created_at           INTEGER NOT NULL,

    FOREIGN KEY (friend_id) REFERENCES friends(id)
);

CREATE INDEX idx_events_friend ON events(friend_id);
CREATE INDEX idx_events_date   ON events(date);
`,
	},
	{
		Version:     3,
		Description: "notes: free text per friend",
		SQL: `
CREATE TABLE notes (
    id         INTEGER PRIMARY KEY,
    friend_id  INTEGER NOT NULL,
    category   TEXT NOT NULL DEFAULT 'general' CHECK (category IN ('favorites', 'gift_ideas', 'general')),
    content    TEXT NOT NULL CHECK (length(content) > 0),
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,

    FOREIGN KEY (friend_id) REFERENCES friends(id)
);

CREATE INDEX idx_notes_friend_category ON notes(friend_id, category);
`,
	},
	{
		Version:     4,
		Description: "reciprocity_logs: social exchange ledger",
		SQL: `
CREATE TABLE reciprocity_logs (
    id         INTEGER PRIMARY KEY,
    friend_id  INTEGER NOT NULL,
    action     TEXT NOT NULL CHECK (action IN ('sent_birthday', 'received_birthday', 'sent_gift', 'received_gift', 'sent_message', 'received_message', 'hung_out')),
    date       TEXT NOT NULL,
    notes      TEXT,
    created_at INTEGER NOT NULL,

    FOREIGN KEY (friend_id) REFERENCES friends(id)
);

CREATE INDEX idx_reciprocity_friend ON reciprocity_logs(friend_id);
`,
	},
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
