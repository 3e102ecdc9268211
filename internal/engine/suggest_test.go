package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazypower/bestfriend/internal/store"
)

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    Category
	}{
		{"gift ideas please", CategoryGift},
		{"What should I BUY her?", CategoryGift},
		{"happy birthday, need a gift idea", CategoryGift},
		{"a birthday wish", CategoryBirthday},
		{"Happy anniversary", CategoryBirthday},
		{"how do I thank them", CategoryThanks},
		{"I appreciate my friend", CategoryThanks},
		{"I want to Check In on Sam", CategoryCheckIn},
		{"time to catch up", CategoryCheckIn},
		{"checkin", CategoryFallback},
		{"", CategoryFallback},
		{"what's the weather", CategoryFallback},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestSuggestGiftSampling(t *testing.T) {
	rng := seeded()
	for range 100 {
		s := Suggest("gift", nil, nil, rng)
		require.Len(t, s.Suggestions, 3)
		seen := map[string]bool{}
		for _, idea := range s.Suggestions {
			assert.Contains(t, giftIdeas, idea)
			assert.False(t, seen[idea], "duplicate suggestion %q", idea)
			seen[idea] = true
		}
	}
}

func TestSuggestSamplingCoversPool(t *testing.T) {
	rng := seeded()
	seen := map[string]int{}
	for range 500 {
		for _, m := range Suggest("check in", nil, nil, rng).Suggestions {
			seen[m]++
		}
	}
	assert.Len(t, seen, len(checkInMessages))
}

func TestSuggestDeterministicWithSeed(t *testing.T) {
	a := Suggest("birthday", nil, nil, seeded())
	b := Suggest("birthday", nil, nil, seeded())
	assert.Equal(t, a, b)
}

func TestSuggestDoesNotMutatePools(t *testing.T) {
	before := append([]string(nil), giftIdeas...)
	rng := seeded()
	for range 20 {
		Suggest("gift", nil, nil, rng)
	}
	assert.Equal(t, before, giftIdeas)
}

func TestSuggestFixedLists(t *testing.T) {
	for range 10 {
		thanks := Suggest("thank you", nil, nil, nil)
		assert.Equal(t, "Here are some ways to express gratitude:", thanks.Reply)
		assert.Equal(t, thankYouMessages, thanks.Suggestions)

		fb := Suggest("hello", nil, nil, nil)
		assert.Equal(t, fallbackReply, fb.Reply)
		assert.Equal(t, fallbackSuggestions, fb.Suggestions)
	}
}

func TestSuggestReplies(t *testing.T) {
	ada := &store.Friend{ID: 1, Name: "Ada"}

	tests := []struct {
		name    string
		message string
		friend  *store.Friend
		want    string
	}{
		{"gift without friend", "gift", nil, "Here are some gift ideas:"},
		{"gift with friend", "gift", ada, "Here are some gift ideas for Ada:"},
		{"birthday without friend", "birthday", nil, "Here are some birthday message ideas:"},
		{"birthday with friend", "birthday", ada, "Here are some birthday message ideas for Ada:"},
		{"checkin ignores friend", "say hi", ada, "Here are some ways to reach out:"},
		{"thanks ignores friend", "grateful", ada, "Here are some ways to express gratitude:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.message, tt.friend, nil, seeded()).Reply)
		})
	}
}

func TestSuggestFavorites(t *testing.T) {
	ada := &store.Friend{ID: 1, Name: "Ada"}
	fav := func(content string) store.Note {
		return store.Note{FriendID: 1, Category: store.NoteFavorites, Content: content}
	}

	s := Suggest("gift", ada, []store.Note{fav("tea"), fav("hiking")}, seeded())
	assert.Equal(t, "Here are some gift ideas for Ada:\n\nBased on your notes, they like: tea, hiking", s.Reply)

	s = Suggest("gift", ada, []store.Note{fav("a"), fav("b"), fav("c"), fav("d")}, seeded())
	assert.Equal(t, "Here are some gift ideas for Ada:\n\nBased on your notes, they like: a, b, c", s.Reply)

	general := store.Note{FriendID: 1, Category: store.NoteGeneral, Content: "ignored"}
	s = Suggest("gift", ada, []store.Note{general}, seeded())
	assert.Equal(t, "Here are some gift ideas for Ada:", s.Reply)

	s = Suggest("gift", nil, []store.Note{fav("tea")}, seeded())
	assert.Equal(t, "Here are some gift ideas:", s.Reply, "favorites need a friend")

	s = Suggest("birthday", ada, []store.Note{fav("tea")}, seeded())
	assert.Equal(t, "Here are some birthday message ideas for Ada:", s.Reply)
}

func TestSampleSmallPool(t *testing.T) {
	assert.Equal(t, []string{"only"}, sample(seeded(), []string{"only"}, 3))
	assert.Empty(t, sample(seeded(), nil, 3))
}
