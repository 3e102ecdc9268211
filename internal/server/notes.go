package server

import (
	"net/http"

	"github.com/lazypower/bestfriend/internal/store"
)

type createNoteRequest struct {
	Category *string `json:"category" validate:"omitnil,oneof=favorites gift_ideas general"`
	Content  string  `json:"content" validate:"notblank,max=10000"`
}

type updateNoteRequest struct {
	Category *string `json:"category" validate:"omitnil,oneof=favorites gift_ideas general"`
	Content  *string `json:"content" validate:"omitnil,notblank,max=10000"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	f, ok := s.friendFromURL(w, r)
	if !ok {
		return
	}

	category := store.NoteCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		s.handleError(w, r, store.ErrInvalidInput.
			WithMessage("validation failed").
			WithDetails(map[string]string{"category": "must be one of: favorites gift_ideas general"}))
		return
	}

	notes, err := s.db.ListNotes(r.Context(), f.ID, category)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(notes, toNoteJSON))
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	friendID, err := urlID(r, "friendID")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req createNoteRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	n := &store.Note{FriendID: friendID, Content: req.Content}
	if req.Category != nil {
		n.Category = store.NoteCategory(*req.Category)
	}
	if err := s.db.CreateNote(r.Context(), n); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteJSON(n))
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "noteID")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req updateNoteRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	patch := store.NotePatch{Content: req.Content}
	if req.Category != nil {
		c := store.NoteCategory(*req.Category)
		patch.Category = &c
	}
	n, err := s.db.UpdateNote(r.Context(), id, patch)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteJSON(n))
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "noteID")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.db.DeleteNote(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
