package engine

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/lazypower/bestfriend/internal/store"
)

// Category is the intent a chat message was classified into.
type Category string

const (
	CategoryGift     Category = "gift"
	CategoryBirthday Category = "birthday"
	CategoryThanks   Category = "thanks"
	CategoryCheckIn  Category = "checkin"
	CategoryFallback Category = "fallback"
)

// MaxFavorites caps how many favorites notes are quoted in a gift reply.
const MaxFavorites = 3

const sampleSize = 3

// Suggestion is the engine's answer to a chat message.
type Suggestion struct {
	Category    Category
	Reply       string
	Suggestions []string
}

// Checked in order; the first set with a substring hit wins.
var intents = []struct {
	category Category
	keywords []string
}{
	{CategoryGift, []string{"gift", "present", "buy"}},
	{CategoryBirthday, []string{"birthday", "wish", "happy"}},
	{CategoryThanks, []string{"thank", "grateful", "appreciate"}},
	{CategoryCheckIn, []string{"check in", "reach out", "say hi", "catch up"}},
}

var (
	giftIdeas = []string{
		"A handwritten letter with a small care package",
		"A custom playlist of songs that remind you of them",
		"A book you think they would love",
		"A cozy blanket or mug with a personal touch",
		"A gift card to their favorite restaurant or store",
		"A framed photo of a memory you share",
		"A subscription to something they enjoy (coffee, streaming, etc.)",
	}
	birthdayMessages = []string{
		"Wishing you the happiest of birthdays! Hope this year brings you everything you deserve.",
		"Happy birthday! So grateful to have you as a friend.",
		"Another year of being awesome — happy birthday!",
		"Happy birthday! Let's celebrate you today and every day.",
		"Cheers to another amazing year! Happy birthday, friend.",
	}
	thankYouMessages = []string{
		"Just wanted to say thanks for being such an amazing friend. You really make a difference.",
		"I appreciate you more than you know. Thank you for always being there.",
		"Grateful for your friendship — you're one of the good ones.",
	}
	checkInMessages = []string{
		"Hey! Just thinking about you — how have you been?",
		"It's been a while! Want to grab coffee/lunch sometime soon?",
		"Hope you're doing well! Just wanted to check in.",
		"Miss hanging out — let's catch up soon!",
	}
	fallbackSuggestions = []string{
		"Try: 'Gift ideas for my friend'",
		"Try: 'Birthday wish for a close friend'",
		"Try: 'How to check in with a friend'",
	}
)

const fallbackReply = "I can help you with gift ideas, birthday messages, thank you notes, or check-in messages. " +
	"Try asking me something like 'gift ideas for their birthday' or 'how to say thank you'."

// Classify maps a message to the first intent whose keywords it contains.
func Classify(message string) Category {
	lower := strings.ToLower(message)
	for _, in := range intents {
		for _, kw := range in.keywords {
			if strings.Contains(lower, kw) {
				return in.category
			}
		}
	}
	return CategoryFallback
}

// Suggest builds a reply for message. friend may be nil. favorites are the
// friend's favorites notes, most relevant first; only the first MaxFavorites
// are quoted. A nil rng is replaced with a freshly seeded one.
func Suggest(message string, friend *store.Friend, favorites []store.Note, rng *rand.Rand) Suggestion {
	if rng == nil {
		rng = NewRand()
	}

	cat := Classify(message)
	s := Suggestion{Category: cat}

	switch cat {
	case CategoryGift:
		s.Reply = "Here are some gift ideas:"
		if friend != nil {
			s.Reply = "Here are some gift ideas for " + friend.Name + ":"
			if liked := favoriteContents(favorites); len(liked) > 0 {
				s.Reply += "\n\nBased on your notes, they like: " + strings.Join(liked, ", ")
			}
		}
		s.Suggestions = sample(rng, giftIdeas, sampleSize)
	case CategoryBirthday:
		s.Reply = "Here are some birthday message ideas"
		if friend != nil {
			s.Reply += " for " + friend.Name
		}
		s.Reply += ":"
		s.Suggestions = sample(rng, birthdayMessages, sampleSize)
	case CategoryThanks:
		s.Reply = "Here are some ways to express gratitude:"
		s.Suggestions = slices.Clone(thankYouMessages)
	case CategoryCheckIn:
		s.Reply = "Here are some ways to reach out:"
		s.Suggestions = sample(rng, checkInMessages, sampleSize)
	default:
		s.Reply = fallbackReply
		s.Suggestions = slices.Clone(fallbackSuggestions)
	}
	return s
}

// NewRand returns a generator seeded from the runtime's global source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func favoriteContents(notes []store.Note) []string {
	var out []string
	for _, n := range notes {
		if n.Category != store.NoteFavorites {
			continue
		}
		out = append(out, n.Content)
		if len(out) == MaxFavorites {
			break
		}
	}
	return out
}

// sample picks k distinct items uniformly via a partial Fisher-Yates shuffle.
func sample(rng *rand.Rand, pool []string, k int) []string {
	k = min(k, len(pool))
	p := slices.Clone(pool)
	for i := range k {
		j := i + rng.IntN(len(p)-i)
		p[i], p[j] = p[j], p[i]
	}
	return p[:k]
}
