package server

import (
	"net/http"

	"github.com/lazypower/bestfriend/internal/contacts"
)

type importResponse struct {
	Imported []friendJSON `json:"imported"`
	Skipped  int          `json:"skipped"`
}

// handleImportFriends creates one friend per card in a vCard request body.
// The import is all or nothing.
func (s *Server) handleImportFriends(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	res, err := contacts.Decode(r.Context(), body, s.log)
	if err != nil {
		s.handleError(w, r, bodyError(err))
		return
	}

	if err := s.db.CreateFriends(r.Context(), res.Friends); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.log.Info("imported contacts", "created", len(res.Friends), "skipped", res.Skipped)
	writeJSON(w, http.StatusCreated, importResponse{
		Imported: mapSlice(res.Friends, toFriendJSON),
		Skipped:  res.Skipped,
	})
}

func (s *Server) handleExportFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.db.ListFriends(r.Context(), "")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contacts.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="friends.vcf"`)
	if err := contacts.Encode(w, friends); err != nil {
		s.log.Error("export contacts", "error", err)
	}
}
