// Package calendar renders upcoming events as an iCalendar feed.
package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/lazypower/bestfriend/internal/engine"
	"github.com/lazypower/bestfriend/internal/store"
)

const (
	ContentType = "text/calendar; charset=utf-8"
	ProductID   = "-//bestfriend//upcoming events//EN"
	uidDomain   = "bestfriend"
)

// emptyCalendar is returned when there is nothing to encode; go-ical refuses
// a VCALENDAR without children.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ProductID + "\r\nEND:VCALENDAR\r\n"

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(uidDomain))

// UID is stable for a given event and occurrence date across renders.
func UID(eventID int64, on time.Time) string {
	name := fmt.Sprintf("event:%d:%s", eventID, store.FormatDate(on))
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@" + uidDomain
}

// Render encodes one all-day VEVENT per occurrence. stamp becomes DTSTAMP.
func Render(occ []engine.Occurrence, stamp time.Time) ([]byte, error) {
	if len(occ) == 0 {
		return []byte(emptyCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	for _, o := range occ {
		cal.Children = append(cal.Children, vevent(o, stamp.UTC()))
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func vevent(o engine.Occurrence, stamp time.Time) *ical.Component {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, UID(o.Event.ID, o.On))
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ev.Props.SetText(ical.PropSummary, fmt.Sprintf("%s (%s)", o.Event.Title, o.Event.Friend.Name))
	ev.Props.SetText(ical.PropCategories, string(o.Event.EventType))

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(o.On)
	ev.Props.Set(start)

	end := ical.NewProp(ical.PropDateTimeEnd)
	end.SetDate(o.On.AddDate(0, 0, 1))
	ev.Props.Set(end)

	return ev.Component
}
