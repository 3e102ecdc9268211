// Package contacts converts between friends and vCard address books.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/lazypower/bestfriend/internal/store"
)

const ContentType = "text/vcard; charset=utf-8"

// YearlessYear anchors birthdays given without a year (--MM-DD). It is a
// leap year so --02-29 survives.
const YearlessYear = 2000

var (
	datedLayouts    = []string{"2006-01-02", "20060102", time.RFC3339}
	yearlessLayouts = []string{"--01-02", "--0102"}
)

// ImportResult holds the friends read from a vCard stream. Skipped counts
// cards that could not be parsed or carried no usable name.
type ImportResult struct {
	Friends []store.Friend
	Skipped int
}

// ParseBirthday reads a vCard BDAY value. The bool reports whether the value
// carried a year; --MM-DD forms are placed in YearlessYear.
func ParseBirthday(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	for _, layout := range datedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true, nil
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(YearlessYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized birthday %q", value)
}

// Decode reads every card from r. Malformed cards are skipped and counted;
// a bad BDAY only drops the birthday. An error from r itself ends the import
// and is returned wrapped, so callers can inspect it with errors.As.
func Decode(ctx context.Context, r io.Reader, log *slog.Logger) (ImportResult, error) {
	var res ImportResult
	src := &readErrRecorder{r: r}
	dec := vcard.NewDecoder(src)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		card, err := dec.Decode()
		if src.err != nil {
			return res, fmt.Errorf("read vcard: %w", src.err)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Skipped++
			log.Warn("skipping unreadable vcard", "error", err)
			if errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			continue
		}

		f, ok := friendFromCard(card, log)
		if !ok {
			res.Skipped++
			continue
		}
		res.Friends = append(res.Friends, f)
	}
	return res, nil
}

// readErrRecorder keeps the first non-EOF error from r. The vCard decoder
// hands such errors back unchanged on every call, which is indistinguishable
// from a malformed card without this.
type readErrRecorder struct {
	r   io.Reader
	err error
}

func (e *readErrRecorder) Read(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		e.err = err
	}
	return n, err
}

func friendFromCard(card vcard.Card, log *slog.Logger) (store.Friend, bool) {
	name := strings.TrimSpace(card.Value(vcard.FieldFormattedName))
	if name == "" {
		if n := card.Name(); n != nil {
			parts := []string{n.HonorificPrefix, n.GivenName, n.AdditionalName, n.FamilyName, n.HonorificSuffix}
			name = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		}
	}
	if name == "" {
		return store.Friend{}, false
	}

	f := store.Friend{
		Name:  name,
		Phone: card.PreferredValue(vcard.FieldTelephone),
		Email: card.PreferredValue(vcard.FieldEmail),
	}
	if photo := card.PreferredValue(vcard.FieldPhoto); isURL(photo) {
		f.PhotoURL = photo
	}
	if bday := card.Value(vcard.FieldBirthday); bday != "" {
		t, _, err := ParseBirthday(bday)
		if err != nil {
			log.Debug("ignoring birthday", "name", name, "value", bday)
		} else {
			f.Birthday = &t
		}
	}
	return f, true
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// Encode writes friends as vCard 4.0 cards.
func Encode(w io.Writer, friends []store.Friend) error {
	enc := vcard.NewEncoder(w)
	for i := range friends {
		if err := enc.Encode(cardFromFriend(&friends[i])); err != nil {
			return fmt.Errorf("encode vcard for friend %d: %w", friends[i].ID, err)
		}
	}
	return nil
}

func cardFromFriend(f *store.Friend) vcard.Card {
	card := vcard.Card{}
	card.SetValue(vcard.FieldVersion, "4.0")
	card.SetValue(vcard.FieldUID, "friend-"+strconv.FormatInt(f.ID, 10))
	card.SetValue(vcard.FieldFormattedName, f.Name)

	given, family := f.Name, ""
	if i := strings.LastIndex(f.Name, " "); i > 0 {
		given, family = f.Name[:i], f.Name[i+1:]
	}
	card.SetName(&vcard.Name{GivenName: given, FamilyName: family})

	if f.Birthday != nil {
		card.SetValue(vcard.FieldBirthday, f.Birthday.Format("20060102"))
	}
	if f.Phone != "" {
		card.SetValue(vcard.FieldTelephone, f.Phone)
	}
	if f.Email != "" {
		card.SetValue(vcard.FieldEmail, f.Email)
	}
	if f.PhotoURL != "" {
		card.SetValue(vcard.FieldPhoto, f.PhotoURL)
	}
	return card
}
