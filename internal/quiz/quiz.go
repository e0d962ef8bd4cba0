// Package quiz supplies per-tier questions that gate ally spawns.
package quiz

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Lane-Clash/internal/game"
)

// DefaultTTL is how long an assigned question stays answerable.
const DefaultTTL = 25 * time.Second

// fallbackPerTier is the number of generated items for a tier with no bank.
const fallbackPerTier = 6

// Choice is one answer option.
type Choice struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// Item is a single question. Tier is the difficulty 1..6 it unlocks.
type Item struct {
	ID      string   `yaml:"id"`
	Tier    int      `yaml:"diff_lv"`
	Text    string   `yaml:"text"`
	Choices []Choice `yaml:"choices"`
	Answer  string   `yaml:"answer"` // correct choice id
}

// Assigned is an item handed to the player with a one-time token.
type Assigned struct {
	Item       Item
	Token      string
	AssignedAt time.Time
	TTL        time.Duration
}

// Expired reports whether the answer window has closed at now.
func (a Assigned) Expired(now time.Time) bool {
	return now.Sub(a.AssignedAt) >= a.TTL
}

// Remaining returns the time left to answer, floored at zero.
func (a Assigned) Remaining(now time.Time) time.Duration {
	return max(0, a.TTL-now.Sub(a.AssignedAt))
}

// Check reports whether choiceID is the correct answer.
func (a Assigned) Check(choiceID string) bool {
	return choiceID != "" && choiceID == a.Item.Answer
}

// Source rotates through a shuffled bank per tier.
type Source struct {
	byTier map[int][]Item
	ptr    map[int]int
	rng    *rand.Rand
	ttl    time.Duration
}

// NewSource builds a source from items. Tiers without items get generated
// arithmetic questions. Items with out-of-range tiers are clamped.
func NewSource(items []Item, seed int64) *Source {
	s := &Source{
		byTier: make(map[int][]Item),
		ptr:    make(map[int]int),
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404 -- question order only
		ttl:    DefaultTTL,
	}
	for _, it := range items {
		it.Tier = game.ClampTier(it.Tier)
		s.byTier[it.Tier] = append(s.byTier[it.Tier], it)
	}
	for tier := game.MinTier; tier <= game.MaxTier; tier++ {
		if len(s.byTier[tier]) == 0 {
			s.byTier[tier] = Fallback(tier, fallbackPerTier)
		}
		bank := s.byTier[tier]
		s.rng.Shuffle(len(bank), func(i, j int) { bank[i], bank[j] = bank[j], bank[i] })
	}
	return s
}

// LoadFile reads a YAML (or JSON) list of items and builds a source.
func LoadFile(path string, seed int64) (*Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	var items []Item
	if err := yaml.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode question bank %s: %w", path, err)
	}
	for i, it := range items {
		if err := it.validate(); err != nil {
			return nil, fmt.Errorf("question bank %s item %d: %w", path, i, err)
		}
	}
	return NewSource(items, seed), nil
}

func (it Item) validate() error {
	if len(it.Choices) < 2 {
		return fmt.Errorf("%q needs at least 2 choices", it.ID)
	}
	for _, c := range it.Choices {
		if c.ID == it.Answer {
			return nil
		}
	}
	return fmt.Errorf("%q answer %q is not a choice", it.ID, it.Answer)
}

// SetTTL overrides the answer window for future assignments.
func (s *Source) SetTTL(d time.Duration) {
	if d > 0 {
		s.ttl = d
	}
}

// Len returns the bank size for a tier.
func (s *Source) Len(tier int) int {
	return len(s.byTier[game.ClampTier(tier)])
}

// Next assigns the next question of a tier, rotating through its bank.
func (s *Source) Next(tier int, now time.Time) Assigned {
	t := game.ClampTier(tier)
	bank := s.byTier[t]
	i := s.ptr[t]
	s.ptr[t] = (i + 1) % len(bank)
	return Assigned{
		Item:       bank[i],
		Token:      uuid.NewString(),
		AssignedAt: now,
		TTL:        s.ttl,
	}
}

// Fallback generates n simple addition items for a tier. The correct choice
// is always "B".
func Fallback(tier, n int) []Item {
	out := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		a := 2 + tier + i
		b := 1 + (tier*3+i)%7
		ans := a + b
		wrong1 := ans - 1
		if tier%2 != 0 {
			wrong1 = ans + 1
		}
		wrong2 := ans - 2
		if tier%3 != 0 {
			wrong2 = ans + 2
		}
		out = append(out, Item{
			ID:   fmt.Sprintf("auto-%d-%d", tier, i),
			Tier: tier,
			Text: fmt.Sprintf("%d + %d = ?", a, b),
			Choices: []Choice{
				{ID: "A", Text: strconv.Itoa(wrong1)},
				{ID: "B", Text: strconv.Itoa(ans)},
				{ID: "C", Text: strconv.Itoa(wrong2)},
			},
			Answer: "B",
		})
	}
	return out
}
