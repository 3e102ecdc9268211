package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Note is a free-text note about a friend.
type Note struct {
	ID        int64
	FriendID  int64
	Category  NoteCategory
	Content   string
	CreatedAt int64
	UpdatedAt int64
}

// NotePatch carries a partial update. Nil fields are left untouched.
type NotePatch struct {
	Category *NoteCategory
	Content  *string
}

const noteColumns = `id, friend_id, category, content, created_at, updated_at`

func scanNote(s rowScanner, n *Note) error {
	return s.Scan(&n.ID, &n.FriendID, &n.Category, &n.Content, &n.CreatedAt, &n.UpdatedAt)
}

func (n *Note) validate() error {
	if strings.TrimSpace(n.Content) == "" {
		return ErrInvalidInput.WithMessage("content is required")
	}
	if !n.Category.Valid() {
		return ErrInvalidInput.WithMessage(fmt.Sprintf("unknown category %q", n.Category))
	}
	return nil
}

// CreateNote inserts n for an existing friend. An empty category means general.
func (db *DB) CreateNote(ctx context.Context, n *Note) error {
	if n.Category == "" {
		n.Category = NoteGeneral
	}
	if err := n.validate(); err != nil {
		return err
	}
	if err := db.requireFriend(ctx, n.FriendID); err != nil {
		return err
	}

	now := db.nowMillis()
	result, err := db.ExecContext(ctx, `
		INSERT INTO notes (friend_id, category, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, n.FriendID, n.Category, n.Content, now, now)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	id, _ := result.LastInsertId()
	n.ID = id
	n.CreatedAt = now
	n.UpdatedAt = now
	return nil
}

// GetNote returns the note with the given id, or nil if there is none.
func (db *DB) GetNote(ctx context.Context, id int64) (*Note, error) {
	var n Note
	err := scanNote(db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id), &n)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &n, nil
}

// ListNotes returns a friend's notes, most recent first. An empty category
// returns all of them.
func (db *DB) ListNotes(ctx context.Context, friendID int64, category NoteCategory) ([]Note, error) {
	q := `SELECT ` + noteColumns + ` FROM notes WHERE friend_id = ?`
	args := []any{friendID}
	if category != "" {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := scanNote(rows, &n); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// UpdateNote applies p to the note with the given id and returns the result.
func (db *DB) UpdateNote(ctx context.Context, id int64, p NotePatch) (*Note, error) {
	n, err := db.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound.WithMessage("Note not found")
	}

	if p.Category != nil {
		n.Category = *p.Category
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if err := n.validate(); err != nil {
		return nil, err
	}

	n.UpdatedAt = db.nowMillis()
	_, err = db.ExecContext(ctx, `
		UPDATE notes SET category = ?, content = ?, updated_at = ? WHERE id = ?
	`, n.Category, n.Content, n.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return n, nil
}

// DeleteNote removes the note with the given id.
func (db *DB) DeleteNote(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound.WithMessage("Note not found")
	}
	return nil
}
