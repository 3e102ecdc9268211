package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DefaultReminderDays is stored on events created without an explicit value.
// Nothing reads it back to schedule anything.
const DefaultReminderDays = 7

// Event is a dated occasion attached to a friend.
type Event struct {
	ID                 int64
	FriendID           int64
	Title              string
	Date               time.Time
	EventType          EventType
	Recurrence         Recurrence
	ReminderDaysBefore int
	CreatedAt          int64
}

// EventWithFriend is an event joined with its owning friend.
type EventWithFriend struct {
	Event
	Friend Friend
}

// EventPatch carries a partial update. Nil fields are left untouched.
type EventPatch struct {
	Title              *string
	Date               *time.Time
	EventType          *EventType
	Recurrence         *Recurrence
	ReminderDaysBefore *int
}

const eventColumns = `e.id, e.friend_id, e.title, e.date, e.event_type, e.recurrence, e.reminder_days_before, e.created_at`

func scanEvent(s rowScanner, e *Event, extra ...any) error {
	var date string
	dest := append([]any{&e.ID, &e.FriendID, &e.Title, &date, &e.EventType, &e.Recurrence, &e.ReminderDaysBefore, &e.CreatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return err
	}
	t, err := ParseDate(date)
	if err != nil {
		return err
	}
	e.Date = t
	return nil
}

func (e *Event) applyDefaults() {
	if e.EventType == "" {
		e.EventType = EventCustom
	}
	if e.Recurrence == "" {
		e.Recurrence = RecurNone
	}
}

func (e *Event) validate() error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return ErrInvalidInput.WithMessage("title is required")
	case e.Date.IsZero():
		return ErrInvalidInput.WithMessage("date is required")
	case !e.EventType.Valid():
		return ErrInvalidInput.WithMessage(fmt.Sprintf("unknown event_type %q", e.EventType))
	case !e.Recurrence.Valid():
		return ErrInvalidInput.WithMessage(fmt.Sprintf("unknown recurrence %q", e.Recurrence))
	case e.ReminderDaysBefore < 0:
		return ErrInvalidInput.WithMessage("reminder_days_before must not be negative")
	}
	return nil
}

// CreateEvent inserts e for an existing friend. Empty EventType and Recurrence
// take their defaults; the caller sets ReminderDaysBefore (see DefaultReminderDays).
func (db *DB) CreateEvent(ctx context.Context, e *Event) error {
	e.applyDefaults()
	if err := e.validate(); err != nil {
		return err
	}
	if err := db.requireFriend(ctx, e.FriendID); err != nil {
		return err
	}

	now := db.nowMillis()
	result, err := db.ExecContext(ctx, `
		INSERT INTO events (friend_id, title, date, event_type, recurrence, reminder_days_before, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.FriendID, e.Title, FormatDate(e.Date), e.EventType, e.Recurrence, e.ReminderDaysBefore, now)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	id, _ := result.LastInsertId()
	e.ID = id
	e.CreatedAt = now
	return nil
}

// GetEvent returns the event with the given id, or nil if there is none.
func (db *DB) GetEvent(ctx context.Context, id int64) (*Event, error) {
	var e Event
	row := db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = ?`, id)
	err := scanEvent(row, &e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// ListEventsByFriend returns a friend's events ordered by stored date.
func (db *DB) ListEventsByFriend(ctx context.Context, friendID int64) ([]Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events e
		WHERE e.friend_id = ? ORDER BY e.date, e.id
	`, friendID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListEventsWithFriend returns every event joined with its friend, in id order.
func (db *DB) ListEventsWithFriend(ctx context.Context) ([]EventWithFriend, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+`,
			f.id, f.name, f.birthday, COALESCE(f.phone, ''), COALESCE(f.email, ''), COALESCE(f.photo_url, ''), f.created_at, f.updated_at
		FROM events e JOIN friends f ON f.id = e.friend_id
		ORDER BY e.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list events with friend: %w", err)
	}
	defer rows.Close()

	var out []EventWithFriend
	for rows.Next() {
		var ef EventWithFriend
		var birthday sql.NullString
		f := &ef.Friend
		if err := scanEvent(rows, &ef.Event,
			&f.ID, &f.Name, &birthday, &f.Phone, &f.Email, &f.PhotoURL, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event with friend: %w", err)
		}
		if birthday.Valid && birthday.String != "" {
			t, err := ParseDate(birthday.String)
			if err != nil {
				return nil, fmt.Errorf("scan event with friend: %w", err)
			}
			f.Birthday = &t
		}
		out = append(out, ef)
	}
	return out, rows.Err()
}

// UpdateEvent applies p to the event with the given id and returns the result.
func (db *DB) UpdateEvent(ctx context.Context, id int64, p EventPatch) (*Event, error) {
	e, err := db.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound.WithMessage("Event not found")
	}

	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.EventType != nil {
		e.EventType = *p.EventType
	}
	if p.Recurrence != nil {
		e.Recurrence = *p.Recurrence
	}
	if p.ReminderDaysBefore != nil {
		e.ReminderDaysBefore = *p.ReminderDaysBefore
	}
	if err := e.validate(); err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx, `
		UPDATE events SET title = ?, date = ?, event_type = ?, recurrence = ?, reminder_days_before = ?
		WHERE id = ?
	`, e.Title, FormatDate(e.Date), e.EventType, e.Recurrence, e.ReminderDaysBefore, id)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

// DeleteEvent removes the event with the given id.
func (db *DB) DeleteEvent(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound.WithMessage("Event not found")
	}
	return nil
}
