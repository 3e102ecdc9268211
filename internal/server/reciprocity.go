package server

import (
	"net/http"

	"github.com/lazypower/bestfriend/internal/store"
)

type createReciprocityRequest struct {
	Action string `json:"action" validate:"required,oneof=sent_birthday received_birthday sent_gift received_gift sent_message received_message hung_out"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Notes  string `json:"notes" validate:"max=2000"`
}

func (s *Server) handleListReciprocity(w http.ResponseWriter, r *http.Request) {
	f, ok := s.friendFromURL(w, r)
	if !ok {
		return
	}
	logs, err := s.db.ListReciprocity(r.Context(), f.ID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(logs, toReciprocityJSON))
}

func (s *Server) handleCreateReciprocity(w http.ResponseWriter, r *http.Request) {
	friendID, err := urlID(r, "friendID")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req createReciprocityRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	date, err := parseOptionalDate(&req.Date)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	l := &store.ReciprocityLog{
		FriendID: friendID,
		Action:   store.Action(req.Action),
		Date:     *date,
		Notes:    req.Notes,
	}
	if err := s.db.CreateReciprocity(r.Context(), l); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReciprocityJSON(l))
}

func (s *Server) handleReciprocitySummary(w http.ResponseWriter, r *http.Request) {
	sums, err := s.db.SummarizeReciprocity(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	out := make([]summaryJSON, 0, len(sums))
	for _, sum := range sums {
		actions := make(map[string]int, len(sum.Actions))
		for a, n := range sum.Actions {
			actions[string(a)] = n
		}
		out = append(out, summaryJSON{FriendID: sum.FriendID, Name: sum.Name, Actions: actions})
	}
	writeJSON(w, http.StatusOK, out)
}
