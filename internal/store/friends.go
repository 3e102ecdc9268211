package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Friend is a person being tracked. Optional string fields are empty when unset.
type Friend struct {
	ID        int64
	Name      string
	Birthday  *time.Time
	Phone     string
	Email     string
	PhotoURL  string
	CreatedAt int64
	UpdatedAt int64
}

// FriendPatch carries a partial update. Nil fields are left untouched; an
// empty string clears an optional field.
type FriendPatch struct {
	Name     *string
	Birthday *time.Time
	Phone    *string
	Email    *string
	PhotoURL *string
}

const friendColumns = `id, name, birthday, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(photo_url, ''), created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFriend(s rowScanner, f *Friend) error {
	var birthday sql.NullString
	if err := s.Scan(&f.ID, &f.Name, &birthday, &f.Phone, &f.Email, &f.PhotoURL, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return err
	}
	f.Birthday = nil
	if birthday.Valid && birthday.String != "" {
		t, err := ParseDate(birthday.String)
		if err != nil {
			return err
		}
		f.Birthday = &t
	}
	return nil
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatDate(*t)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateFriend inserts f and fills in its ID and timestamps.
func (db *DB) CreateFriend(ctx context.Context, f *Friend) error {
	return db.insertFriend(ctx, db.DB, f)
}

// CreateFriends inserts all friends in one transaction. Either every friend
// is created and has its ID set, or none is.
func (db *DB) CreateFriends(ctx context.Context, friends []Friend) error {
	for i := range friends {
		if strings.TrimSpace(friends[i].Name) == "" {
			return ErrInvalidInput.WithMessage(fmt.Sprintf("friend %d: name is required", i))
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create friends: %w", err)
	}
	defer tx.Rollback()

	created := make([]Friend, len(friends))
	copy(created, friends)
	for i := range created {
		if err := db.insertFriend(ctx, tx, &created[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create friends: %w", err)
	}
	copy(friends, created)
	return nil
}

func (db *DB) insertFriend(ctx context.Context, ex execer, f *Friend) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrInvalidInput.WithMessage("name is required")
	}

	now := db.nowMillis()
	result, err := ex.ExecContext(ctx, `
		INSERT INTO friends (name, birthday, phone, email, photo_url, created_at, updated_at)
		VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, ?)
	`, f.Name, nullDate(f.Birthday), f.Phone, f.Email, f.PhotoURL, now, now)
	if err != nil {
		return fmt.Errorf("create friend: %w", err)
	}

	id, _ := result.LastInsertId()
	f.ID = id
	f.CreatedAt = now
	f.UpdatedAt = now
	return nil
}

// GetFriend returns the friend with the given id, or nil if there is none.
func (db *DB) GetFriend(ctx context.Context, id int64) (*Friend, error) {
	var f Friend
	row := db.QueryRowContext(ctx, `SELECT `+friendColumns+` FROM friends WHERE id = ?`, id)
	err := scanFriend(row, &f)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get friend: %w", err)
	}
	return &f, nil
}

// ListFriends returns friends ordered by name. A non-empty query filters to
// names containing it, case-insensitively.
func (db *DB) ListFriends(ctx context.Context, query string) ([]Friend, error) {
	q := `SELECT ` + friendColumns + ` FROM friends`
	var args []any
	if query != "" {
		q += ` WHERE name LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(query)+"%")
	}
	q += ` ORDER BY name, id`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	friends := []Friend{}
	for rows.Next() {
		var f Friend
		if err := scanFriend(rows, &f); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// UpdateFriend applies p to the friend with the given id and returns the result.
func (db *DB) UpdateFriend(ctx context.Context, id int64, p FriendPatch) (*Friend, error) {
	f, err := db.GetFriend(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, friendNotFound()
	}

	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, ErrInvalidInput.WithMessage("name is required")
		}
		f.Name = *p.Name
	}
	if p.Birthday != nil {
		b := *p.Birthday
		f.Birthday = &b
	}
	if p.Phone != nil {
		f.Phone = *p.Phone
	}
	if p.Email != nil {
		f.Email = *p.Email
	}
	if p.PhotoURL != nil {
		f.PhotoURL = *p.PhotoURL
	}

	f.UpdatedAt = db.nowMillis()
	_, err = db.ExecContext(ctx, `
		UPDATE friends
		SET name = ?, birthday = ?, phone = NULLIF(?, ''), email = NULLIF(?, ''), photo_url = NULLIF(?, ''), updated_at = ?
		WHERE id = ?
	`, f.Name, nullDate(f.Birthday), f.Phone, f.Email, f.PhotoURL, f.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update friend: %w", err)
	}
	return f, nil
}

// DeleteFriend removes a friend together with its events, notes and
// reciprocity logs in a single transaction.
func (db *DB) DeleteFriend(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete friend: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM friends WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return friendNotFound()
	}
	if err != nil {
		return fmt.Errorf("check friend: %w", err)
	}

	for _, table := range []string{"events", "notes", "reciprocity_logs"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE friend_id = ?`, id); err != nil {
			return fmt.Errorf("delete %s for friend %d: %w", table, id, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM friends WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete friend: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete friend: %w", err)
	}
	return nil
}

// requireFriend returns ErrNotFound when no friend with id exists.
func (db *DB) requireFriend(ctx context.Context, id int64) error {
	var exists int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM friends WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return friendNotFound()
	}
	if err != nil {
		return fmt.Errorf("check friend: %w", err)
	}
	return nil
}
