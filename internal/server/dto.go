package server

import (
	"time"

	"github.com/lazypower/bestfriend/internal/store"
)

type friendJSON struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Birthday  *string `json:"birthday"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	PhotoURL  *string `json:"photo_url"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type eventJSON struct {
	ID                 int64       `json:"id"`
	FriendID           int64       `json:"friend_id"`
	Title              string      `json:"title"`
	Date               string      `json:"date"`
	EventType          string      `json:"event_type"`
	Recurrence         string      `json:"recurrence"`
	ReminderDaysBefore int         `json:"reminder_days_before"`
	CreatedAt          string      `json:"created_at"`
	Friend             *friendJSON `json:"friend,omitempty"`
}

type noteJSON struct {
	ID        int64  `json:"id"`
	FriendID  int64  `json:"friend_id"`
	Category  string `json:"category"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type reciprocityJSON struct {
	ID        int64   `json:"id"`
	FriendID  int64   `json:"friend_id"`
	Action    string  `json:"action"`
	Date      string  `json:"date"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

type summaryJSON struct {
	FriendID int64          `json:"friend_id"`
	Name     string         `json:"name"`
	Actions  map[string]int `json:"actions"`
}

func timestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toFriendJSON(f *store.Friend) friendJSON {
	out := friendJSON{
		ID:        f.ID,
		Name:      f.Name,
		Phone:     optional(f.Phone),
		Email:     optional(f.Email),
		PhotoURL:  optional(f.PhotoURL),
		CreatedAt: timestamp(f.CreatedAt),
		UpdatedAt: timestamp(f.UpdatedAt),
	}
	if f.Birthday != nil {
		b := store.FormatDate(*f.Birthday)
		out.Birthday = &b
	}
	return out
}

func toEventJSON(e *store.Event) eventJSON {
	return eventJSON{
		ID:                 e.ID,
		FriendID:           e.FriendID,
		Title:              e.Title,
		Date:               store.FormatDate(e.Date),
		EventType:          string(e.EventType),
		Recurrence:         string(e.Recurrence),
		ReminderDaysBefore: e.ReminderDaysBefore,
		CreatedAt:          timestamp(e.CreatedAt),
	}
}

func toEventWithFriendJSON(e *store.EventWithFriend) eventJSON {
	out := toEventJSON(&e.Event)
	f := toFriendJSON(&e.Friend)
	out.Friend = &f
	return out
}

func toNoteJSON(n *store.Note) noteJSON {
	return noteJSON{
		ID:        n.ID,
		FriendID:  n.FriendID,
		Category:  string(n.Category),
		Content:   n.Content,
		CreatedAt: timestamp(n.CreatedAt),
		UpdatedAt: timestamp(n.UpdatedAt),
	}
}

func toReciprocityJSON(l *store.ReciprocityLog) reciprocityJSON {
	return reciprocityJSON{
		ID:        l.ID,
		FriendID:  l.FriendID,
		Action:    string(l.Action),
		Date:      store.FormatDate(l.Date),
		Notes:     optional(l.Notes),
		CreatedAt: timestamp(l.CreatedAt),
	}
}

// mapSlice converts each element of in with fn. The result is never nil so
// empty lists encode as [].
func mapSlice[T, U any](in []T, fn func(*T) U) []U {
	out := make([]U, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
