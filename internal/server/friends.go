package server

import (
	"net/http"
	"time"

	"github.com/lazypower/bestfriend/internal/store"
)

type createFriendRequest struct {
	Name     string  `json:"name" validate:"notblank,max=200"`
	Birthday *string `json:"birthday" validate:"omitnil,datetime=2006-01-02"`
	Phone    string  `json:"phone" validate:"max=50"`
	Email    string  `json:"email" validate:"omitempty,email"`
	PhotoURL string  `json:"photo_url" validate:"max=2048"`
}

type updateFriendRequest struct {
	Name     *string `json:"name" validate:"omitnil,notblank,max=200"`
	Birthday *string `json:"birthday" validate:"omitnil,datetime=2006-01-02"`
	Phone    *string `json:"phone" validate:"omitnil,max=50"`
	Email    *string `json:"email" validate:"omitnil,max=254"`
	PhotoURL *string `json:"photo_url" validate:"omitnil,max=2048"`
}

// parseOptionalDate parses a validated date pointer.
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	d, err := store.ParseDate(*s)
	if err != nil {
		return nil, store.ErrInvalidInput.WithMessage(err.Error())
	}
	return &d, nil
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.db.ListFriends(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(friends, toFriendJSON))
}

func (s *Server) handleCreateFriend(w http.ResponseWriter, r *http.Request) {
	var req createFriendRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	birthday, err := parseOptionalDate(req.Birthday)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	f := &store.Friend{
		Name:     req.Name,
		Birthday: birthday,
		Phone:    req.Phone,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
	}
	if err := s.db.CreateFriend(r.Context(), f); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFriendJSON(f))
}

func (s *Server) handleGetFriend(w http.ResponseWriter, r *http.Request) {
	f, ok := s.friendFromURL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toFriendJSON(f))
}

func (s *Server) handleUpdateFriend(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "friendID")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req updateFriendRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	// An empty email clears the field; anything else must be an address.
	if req.Email != nil && *req.Email != "" {
		if err := s.validate.Field("email", *req.Email, "email"); err != nil {
			s.handleError(w, r, err)
			return
		}
	}
	birthday, err := parseOptionalDate(req.Birthday)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	f, err := s.db.UpdateFriend(r.Context(), id, store.FriendPatch{
		Name:     req.Name,
		Birthday: birthday,
		Phone:    req.Phone,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFriendJSON(f))
}

func (s *Server) handleDeleteFriend(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "friendID")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.db.DeleteFriend(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// friendFromURL loads the friend named by the {friendID} path parameter,
// answering 400 or 404 itself when it cannot.
func (s *Server) friendFromURL(w http.ResponseWriter, r *http.Request) (*store.Friend, bool) {
	id, err := urlID(r, "friendID")
	if err != nil {
		s.handleError(w, r, err)
		return nil, false
	}
	f, err := s.db.GetFriend(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return nil, false
	}
	if f == nil {
		s.handleError(w, r, store.ErrNotFound.WithMessage("Friend not found"))
		return nil, false
	}
	return f, true
}
