package store

import (
	"context"
	"fmt"
	"time"
)

// ReciprocityLog records one social exchange with a friend.
type ReciprocityLog struct {
	ID        int64
	FriendID  int64
	Action    Action
	Date      time.Time
	Notes     string
	CreatedAt int64
}

// ReciprocitySummary counts a friend's logged actions.
type ReciprocitySummary struct {
	FriendID int64
	Name     string
	Actions  map[Action]int
}

const reciprocityColumns = `id, friend_id, action, date, COALESCE(notes, ''), created_at`

func scanReciprocity(s rowScanner, l *ReciprocityLog) error {
	var date string
	if err := s.Scan(&l.ID, &l.FriendID, &l.Action, &date, &l.Notes, &l.CreatedAt); err != nil {
		return err
	}
	t, err := ParseDate(date)
	if err != nil {
		return err
	}
	l.Date = t
	return nil
}

// CreateReciprocity inserts l for an existing friend.
func (db *DB) CreateReciprocity(ctx context.Context, l *ReciprocityLog) error {
	if !l.Action.Valid() {
		return ErrInvalidInput.WithMessage(fmt.Sprintf("unknown action %q", l.Action))
	}
	if l.Date.IsZero() {
		return ErrInvalidInput.WithMessage("date is required")
	}
	if err := db.requireFriend(ctx, l.FriendID); err != nil {
		return err
	}

	now := db.nowMillis()
	result, err := db.ExecContext(ctx, `
		INSERT INTO reciprocity_logs (friend_id, action, date, notes, created_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?)
	`, l.FriendID, l.Action, FormatDate(l.Date), l.Notes, now)
	if err != nil {
		return fmt.Errorf("create reciprocity log: %w", err)
	}

	id, _ := result.LastInsertId()
	l.ID = id
	l.CreatedAt = now
	return nil
}

// ListReciprocity returns a friend's log entries, latest date first.
func (db *DB) ListReciprocity(ctx context.Context, friendID int64) ([]ReciprocityLog, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+reciprocityColumns+` FROM reciprocity_logs
		WHERE friend_id = ? ORDER BY date DESC, id DESC
	`, friendID)
	if err != nil {
		return nil, fmt.Errorf("list reciprocity logs: %w", err)
	}
	defer rows.Close()

	logs := []ReciprocityLog{}
	for rows.Next() {
		var l ReciprocityLog
		if err := scanReciprocity(rows, &l); err != nil {
			return nil, fmt.Errorf("scan reciprocity log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// SummarizeReciprocity counts actions per friend. Friends with no entries are
// omitted; the result is ordered by friend id.
func (db *DB) SummarizeReciprocity(ctx context.Context) ([]ReciprocitySummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT r.friend_id, f.name, r.action, COUNT(r.id)
		FROM reciprocity_logs r JOIN friends f ON f.id = r.friend_id
		GROUP BY r.friend_id, f.name, r.action
		ORDER BY r.friend_id, r.action
	`)
	if err != nil {
		return nil, fmt.Errorf("summarize reciprocity: %w", err)
	}
	defer rows.Close()

	summaries := []ReciprocitySummary{}
	for rows.Next() {
		var (
			friendID int64
			name     string
			action   Action
			count    int
		)
		if err := rows.Scan(&friendID, &name, &action, &count); err != nil {
			return nil, fmt.Errorf("scan reciprocity summary: %w", err)
		}
		if n := len(summaries); n == 0 || summaries[n-1].FriendID != friendID {
			summaries = append(summaries, ReciprocitySummary{
				FriendID: friendID,
				Name:     name,
				Actions:  map[Action]int{},
			})
		}
		summaries[len(summaries)-1].Actions[action] = count
	}
	return summaries, rows.Err()
}
