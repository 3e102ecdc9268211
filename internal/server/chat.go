package server

import (
	"net/http"

	"github.com/lazypower/bestfriend/internal/engine"
	"github.com/lazypower/bestfriend/internal/store"
)

type chatRequest struct {
	Message  *string `json:"message" validate:"required"`
	FriendID *int64  `json:"friend_id"`
}

type chatResponse struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions"`
}

// handleChat runs the suggestion engine. An unknown friend_id is treated as
// no friend at all.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	var (
		friend    *store.Friend
		favorites []store.Note
	)
	if req.FriendID != nil {
		f, err := s.db.GetFriend(r.Context(), *req.FriendID)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		if f != nil {
			friend = f
			favorites, err = s.db.ListNotes(r.Context(), f.ID, store.NoteFavorites)
			if err != nil {
				s.handleError(w, r, err)
				return
			}
		}
	}

	res := engine.Suggest(*req.Message, friend, favorites, s.newRand())
	writeJSON(w, http.StatusOK, chatResponse{Reply: res.Reply, Suggestions: res.Suggestions})
}
