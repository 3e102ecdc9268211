package store

import (
	"fmt"
	"time"
)

// DateLayout is the storage and wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// EventType tags what kind of date an event marks.
type EventType string

const (
	EventBirthday    EventType = "birthday"
	EventAnniversary EventType = "anniversary"
	EventCustom      EventType = "custom"
)

func (t EventType) Valid() bool {
	switch t {
	case EventBirthday, EventAnniversary, EventCustom:
		return true
	}
	return false
}

// Recurrence controls how the upcoming-events window treats an event's date.
type Recurrence string

const (
	RecurYearly Recurrence = "yearly"
	RecurOnce   Recurrence = "once"
	RecurNone   Recurrence = "none"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurYearly, RecurOnce, RecurNone:
		return true
	}
	return false
}

// NoteCategory groups notes about a friend.
type NoteCategory string

const (
	NoteFavorites NoteCategory = "favorites"
	NoteGiftIdeas NoteCategory = "gift_ideas"
	NoteGeneral   NoteCategory = "general"
)

func (c NoteCategory) Valid() bool {
	switch c {
	case NoteFavorites, NoteGiftIdeas, NoteGeneral:
		return true
	}
	return false
}

// Action is a reciprocity log entry kind.
type Action string

const (
	ActionSentBirthday     Action = "sent_birthday"
	ActionReceivedBirthday Action = "received_birthday"
	ActionSentGift         Action = "sent_gift"
	ActionReceivedGift     Action = "received_gift"
	ActionSentMessage      Action = "sent_message"
	ActionReceivedMessage  Action = "received_message"
	ActionHungOut          Action = "hung_out"
)

// Actions lists every reciprocity action in display order.
var Actions = []Action{
	ActionSentBirthday,
	ActionReceivedBirthday,
	ActionSentGift,
	ActionReceivedGift,
	ActionSentMessage,
	ActionReceivedMessage,
	ActionHungOut,
}

func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}
