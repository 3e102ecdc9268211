package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lazypower/bestfriend/internal/store"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidJSON = store.ErrInvalidInput.WithMessage("invalid json")
	errInvalidID   = store.ErrInvalidInput.WithMessage("invalid id")

	errBodyTooLarge = &store.Error{
		Code:    http.StatusRequestEntityTooLarge,
		Message: fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes),
	}
)

// bodyError turns a failure reading the request body into a client error.
// Errors that are already *store.Error pass through.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	var se *store.Error
	if errors.As(err, &se) || errors.Is(err, context.Canceled) {
		return err
	}
	return store.ErrInvalidInput.WithMessage("could not read request body")
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleError answers with the status carried by a *store.Error, or 500 for
// anything else.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var se *store.Error
	if errors.As(err, &se) {
		writeJSON(w, se.HTTPCode(), errorBody{Error: se.Message, Details: se.Details})
		return
	}
	s.log.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return errInvalidJSON.WithMessage("request body is empty")
		}
		return errInvalidJSON
	}
	return s.validate.Validate(dst)
}

func urlID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// queryDays reads the lookahead window, falling back to the server default.
func (s *Server) queryDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return s.window, nil
	}
	days, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		// Larger than any window the resolver can tell apart.
		days, err = math.MaxInt, nil
	}
	if err != nil || days < 0 {
		return 0, store.ErrInvalidInput.
			WithMessage("validation failed").
			WithDetails(map[string]string{"days": fmt.Sprintf("must be a non-negative integer, got %q", raw)})
	}
	return days, nil
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
