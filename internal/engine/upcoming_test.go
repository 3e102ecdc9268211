package engine

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazypower/bestfriend/internal/store"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := store.ParseDate(s)
	require.NoError(t, err)
	return d
}

func ev(t *testing.T, id int64, date string, rec store.Recurrence) store.EventWithFriend {
	t.Helper()
	return store.EventWithFriend{
		Event: store.Event{
			ID:         id,
			FriendID:   1,
			Title:      "event",
			Date:       day(t, date),
			Recurrence: rec,
		},
		Friend: store.Friend{ID: 1, Name: "Ada"},
	}
}

func ids(events []store.EventWithFriend) []int64 {
	out := make([]int64, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestUpcomingLeapDay(t *testing.T) {
	leap := []store.EventWithFriend{ev(t, 1, "2020-02-29", store.RecurYearly)}

	tests := []struct {
		name  string
		today string
		want  string
	}{
		{"non-leap year falls back to Feb 28", "2025-02-27", "2025-02-28"},
		{"leap year keeps Feb 29", "2024-02-26", "2024-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpcomingOccurrences(leap, day(t, tt.today), 3)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, store.FormatDate(got[0].On))
		})
	}
}

func TestUpcomingBoundsInclusive(t *testing.T) {
	today := day(t, "2025-06-10")
	events := []store.EventWithFriend{
		ev(t, 1, "2025-06-10", store.RecurOnce),
		ev(t, 2, "2025-06-20", store.RecurNone),
		ev(t, 3, "2025-06-21", store.RecurOnce),
		ev(t, 4, "2025-06-09", store.RecurNone),
	}

	got := UpcomingEvents(events, today, 10)
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestUpcomingZeroWindow(t *testing.T) {
	today := day(t, "2025-06-10")
	events := []store.EventWithFriend{
		ev(t, 1, "1990-06-10", store.RecurYearly),
		ev(t, 2, "2025-06-11", store.RecurOnce),
		ev(t, 3, "2025-06-10", store.RecurNone),
	}

	got := UpcomingEvents(events, today, 0)
	assert.Equal(t, []int64{1, 3}, ids(got))
}

func TestUpcomingHugeWindow(t *testing.T) {
	today := day(t, "2025-06-10")
	events := []store.EventWithFriend{
		ev(t, 1, "1990-06-09", store.RecurYearly),
		ev(t, 2, "9999-12-31", store.RecurOnce),
		ev(t, 3, "2025-06-09", store.RecurNone),
	}

	for _, window := range []int{3_000_000, math.MaxInt32, math.MaxInt} {
		got := UpcomingOccurrences(events, today, window)
		require.Len(t, got, 2, "window %d", window)
		assert.Equal(t, "2026-06-09", store.FormatDate(got[0].On))
		assert.Equal(t, "9999-12-31", store.FormatDate(got[1].On))
	}
}

func TestUpcomingOneOffIgnoresYear(t *testing.T) {
	today := day(t, "2025-06-10")
	events := []store.EventWithFriend{
		ev(t, 1, "2024-06-12", store.RecurOnce),
		ev(t, 2, "2026-06-12", store.RecurNone),
	}

	assert.Empty(t, UpcomingEvents(events, today, 30))
}

func TestUpcomingYearWrap(t *testing.T) {
	today := day(t, "2025-12-30")
	events := []store.EventWithFriend{
		ev(t, 1, "1988-01-02", store.RecurYearly),
		ev(t, 2, "1990-12-31", store.RecurYearly),
	}

	got := UpcomingOccurrences(events, today, 5)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Event.ID)
	assert.Equal(t, "2025-12-31", store.FormatDate(got[0].On))
	assert.Equal(t, int64(1), got[1].Event.ID)
	assert.Equal(t, "2026-01-02", store.FormatDate(got[1].On))
}

func TestUpcomingSortsByProjectedDate(t *testing.T) {
	today := day(t, "2025-03-01")
	events := []store.EventWithFriend{
		ev(t, 1, "2025-03-20", store.RecurOnce),
		ev(t, 2, "1970-03-05", store.RecurYearly),
		ev(t, 3, "2025-03-05", store.RecurNone),
		ev(t, 4, "2001-03-02", store.RecurYearly),
	}

	got := UpcomingEvents(events, today, 30)
	assert.Equal(t, []int64{4, 2, 3, 1}, ids(got), "ties keep input order")
}

func TestUpcomingIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	events := []store.EventWithFriend{ev(t, 1, "2025-06-10", store.RecurOnce)}

	assert.Len(t, UpcomingEvents(events, today, 0), 1)
}

func TestUpcomingEmptyInput(t *testing.T) {
	got := UpcomingEvents(nil, day(t, "2025-01-01"), 30)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// matchesWindow checks membership day by day, independently of the resolver.
func matchesWindow(e store.EventWithFriend, today time.Time, window int) bool {
	for i := 0; i <= window; i++ {
		d := today.AddDate(0, 0, i)
		if e.Recurrence != store.RecurYearly {
			if d.Equal(e.Date) {
				return true
			}
			continue
		}
		if d.Year() > today.Year()+1 {
			return false
		}
		if anniversary(e.Date, d.Year()).Equal(d) {
			return true
		}
	}
	return false
}

func TestUpcomingMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	recurrences := []store.Recurrence{store.RecurYearly, store.RecurOnce, store.RecurNone}
	base := day(t, "2023-01-01")

	for round := 0; round < 50; round++ {
		today := base.AddDate(0, 0, rng.IntN(3*365))
		window := rng.IntN(120)

		var events []store.EventWithFriend
		for i := range 40 {
			date := base.AddDate(0, 0, rng.IntN(4*365)-365)
			rec := recurrences[rng.IntN(len(recurrences))]
			events = append(events, ev(t, int64(i+1), store.FormatDate(date), rec))
		}

		got := UpcomingOccurrences(events, today, window)
		end := today.AddDate(0, 0, window)

		included := map[int64]bool{}
		for i, o := range got {
			included[o.Event.ID] = true
			assert.False(t, o.On.Before(today) || o.On.After(end), "occurrence %s outside window", store.FormatDate(o.On))
			if i > 0 {
				assert.False(t, o.On.Before(got[i-1].On), "results out of order")
			}
		}
		for _, e := range events {
			assert.Equal(t, matchesWindow(e, today, window), included[e.ID],
				"event %d (%s, %s) today=%s window=%d", e.ID, store.FormatDate(e.Date), e.Recurrence, store.FormatDate(today), window)
		}
	}
}
