package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazypower/bestfriend/internal/store"
	"github.com/lazypower/bestfriend/internal/validation"
)

type eventRequest struct {
	Title     string  `json:"title" validate:"notblank,max=200"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	EventType *string `json:"event_type,omitempty" validate:"omitnil,oneof=birthday anniversary custom"`
	Reminder  *int    `json:"reminder_days_before" validate:"omitnil,gte=0"`
	Email     string  `json:"email" validate:"omitempty,email"`
}

func ptr[T any](v T) *T { return &v }

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(eventRequest{Title: "Birthday", Date: "2024-02-29", EventType: ptr("birthday"), Reminder: ptr(0)})
	assert.NoError(t, err)

	err = v.Validate(eventRequest{Title: "Coffee", Date: "2025-06-01"})
	assert.NoError(t, err, "nil optional fields are skipped")
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       eventRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "blank title",
			req:       eventRequest{Title: "   ", Date: "2025-01-01"},
			wantField: "title",
			wantMsg:   "is required",
		},
		{
			name:      "missing date",
			req:       eventRequest{Title: "x"},
			wantField: "date",
			wantMsg:   "is required",
		},
		{
			name:      "impossible date",
			req:       eventRequest{Title: "x", Date: "2023-02-29"},
			wantField: "date",
			wantMsg:   "must be a date in YYYY-MM-DD form",
		},
		{
			name:      "unknown event type",
			req:       eventRequest{Title: "x", Date: "2025-01-01", EventType: ptr("party")},
			wantField: "event_type",
			wantMsg:   "must be one of: birthday anniversary custom",
		},
		{
			name:      "negative reminder",
			req:       eventRequest{Title: "x", Date: "2025-01-01", Reminder: ptr(-1)},
			wantField: "reminder_days_before",
			wantMsg:   "must be greater than or equal to 0",
		},
		{
			name:      "bad email",
			req:       eventRequest{Title: "x", Date: "2025-01-01", Email: "nope"},
			wantField: "email",
			wantMsg:   "must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, store.ErrInvalidInput))

			var storeErr *store.Error
			require.True(t, errors.As(err, &storeErr))
			assert.Equal(t, http.StatusBadRequest, storeErr.HTTPCode())

			details, ok := storeErr.Details.(map[string]string)
			require.True(t, ok, "details should be a field map")
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_NonStruct(t *testing.T) {
	v := validation.New()

	err := v.Validate("not a struct")
	require.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrInvalidInput))
}

func TestValidator_Field(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Field("email", "ada@example.com", "email"))

	err := v.Field("email", "nope", "email")
	require.Error(t, err)
	var storeErr *store.Error
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, map[string]string{"email": "must be a valid email address"}, storeErr.Details)
}
