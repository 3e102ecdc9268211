package server

import (
	"net/http"

	"github.com/lazypower/bestfriend/internal/calendar"
	"github.com/lazypower/bestfriend/internal/engine"
	"github.com/lazypower/bestfriend/internal/store"
)

type createEventRequest struct {
	Title              string  `json:"title" validate:"notblank,max=200"`
	Date               string  `json:"date" validate:"required,datetime=2006-01-02"`
	EventType          *string `json:"event_type" validate:"omitnil,oneof=birthday anniversary custom"`
	Recurrence         *string `json:"recurrence" validate:"omitnil,oneof=yearly once none"`
	ReminderDaysBefore *int    `json:"reminder_days_before" validate:"omitnil,gte=0"`
}

type updateEventRequest struct {
	Title              *string `json:"title" validate:"omitnil,notblank,max=200"`
	Date               *string `json:"date" validate:"omitnil,datetime=2006-01-02"`
	EventType          *string `json:"event_type" validate:"omitnil,oneof=birthday anniversary custom"`
	Recurrence         *string `json:"recurrence" validate:"omitnil,oneof=yearly once none"`
	ReminderDaysBefore *int    `json:"reminder_days_before" validate:"omitnil,gte=0"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	f, ok := s.friendFromURL(w, r)
	if !ok {
		return
	}
	events, err := s.db.ListEventsByFriend(r.Context(), f.ID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(events, toEventJSON))
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	friendID, err := urlID(r, "friendID")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req createEventRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	date, err := parseOptionalDate(&req.Date)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	e := &store.Event{
		FriendID:           friendID,
		Title:              req.Title,
		Date:               *date,
		ReminderDaysBefore: store.DefaultReminderDays,
	}
	if req.EventType != nil {
		e.EventType = store.EventType(*req.EventType)
	}
	if req.Recurrence != nil {
		e.Recurrence = store.Recurrence(*req.Recurrence)
	}
	if req.ReminderDaysBefore != nil {
		e.ReminderDaysBefore = *req.ReminderDaysBefore
	}
	if err := s.db.CreateEvent(r.Context(), e); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventJSON(e))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "eventID")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req updateEventRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	patch := store.EventPatch{
		Title:              req.Title,
		Date:               date,
		ReminderDaysBefore: req.ReminderDaysBefore,
	}
	if req.EventType != nil {
		t := store.EventType(*req.EventType)
		patch.EventType = &t
	}
	if req.Recurrence != nil {
		rec := store.Recurrence(*req.Recurrence)
		patch.Recurrence = &rec
	}

	e, err := s.db.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventJSON(e))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "eventID")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.db.DeleteEvent(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// upcoming resolves the request's window against every stored event.
func (s *Server) upcoming(r *http.Request) ([]engine.Occurrence, error) {
	days, err := s.queryDays(r)
	if err != nil {
		return nil, err
	}
	events, err := s.db.ListEventsWithFriend(r.Context())
	if err != nil {
		return nil, err
	}
	return engine.UpcomingOccurrences(events, engine.Today(s.clock), days), nil
}

func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	occ, err := s.upcoming(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	out := make([]eventJSON, 0, len(occ))
	for i := range occ {
		out = append(out, toEventWithFriendJSON(&occ[i].Event))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCalendarFeed(w http.ResponseWriter, r *http.Request) {
	occ, err := s.upcoming(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	data, err := calendar.Render(occ, s.clock.Now())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", calendar.ContentType)
	w.Header().Set("Content-Disposition", `inline; filename="bestfriend.ics"`)
	w.Write(data)
}
