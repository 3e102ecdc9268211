package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestListNotesOrderAndFilter(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	f := mustFriend(t, db, "Ada")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	add := func(offset time.Duration, cat NoteCategory, content string) *Note {
		t.Helper()
		db.SetClock(func() time.Time { return base.Add(offset) })
		n := &Note{FriendID: f.ID, Category: cat, Content: content}
		if err := db.CreateNote(ctx, n); err != nil {
			t.Fatalf("CreateNote(%q): %v", content, err)
		}
		return n
	}

	add(0, NoteFavorites, "hiking")
	add(time.Minute, NoteGiftIdeas, "a kite")
	add(2*time.Minute, NoteFavorites, "tea")
	add(2*time.Minute, "", "met at work")

	all, err := db.ListNotes(ctx, f.ID, "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d notes, want 4", len(all))
	}
	// Same timestamp falls back to id, newest first.
	want := []string{"met at work", "tea", "a kite", "hiking"}
	for i, n := range all {
		if n.Content != want[i] {
			t.Errorf("notes[%d] = %q, want %q", i, n.Content, want[i])
		}
	}
	if all[0].Category != NoteGeneral {
		t.Errorf("default category = %q, want general", all[0].Category)
	}

	favs, err := db.ListNotes(ctx, f.ID, NoteFavorites)
	if err != nil {
		t.Fatalf("ListNotes(favorites): %v", err)
	}
	if len(favs) != 2 || favs[0].Content != "tea" || favs[1].Content != "hiking" {
		t.Errorf("favorites = %+v", favs)
	}
}

func TestCreateNoteValidation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	f := mustFriend(t, db, "Ada")

	if err := db.CreateNote(ctx, &Note{FriendID: f.ID, Content: ""}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty content: err = %v, want ErrInvalidInput", err)
	}
	if err := db.CreateNote(ctx, &Note{FriendID: f.ID, Category: "secrets", Content: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad category: err = %v, want ErrInvalidInput", err)
	}
	if err := db.CreateNote(ctx, &Note{FriendID: 999, Content: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing friend: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateNote(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	f := mustFriend(t, db, "Ada")

	db.SetClock(func() time.Time { return time.UnixMilli(1000) })
	n := &Note{FriendID: f.ID, Content: "likes jazz"}
	if err := db.CreateNote(ctx, n); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	db.SetClock(func() time.Time { return time.UnixMilli(2000) })
	cat := NoteFavorites
	got, err := db.UpdateNote(ctx, n.ID, NotePatch{Category: &cat})
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if got.Category != NoteFavorites || got.Content != "likes jazz" {
		t.Errorf("got %+v", got)
	}
	if got.CreatedAt != 1000 || got.UpdatedAt != 2000 {
		t.Errorf("timestamps = %d/%d, want 1000/2000", got.CreatedAt, got.UpdatedAt)
	}

	if _, err := db.UpdateNote(ctx, 999, NotePatch{Category: &cat}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
}
