package daily

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrEmptyCatalog is returned when there are no answer candidates to
// select from.
var ErrEmptyCatalog = errors.New("answer catalog is empty")

// Day is a calendar date at the configured rollover offset, normalized
// to midnight UTC internally.
type Day struct {
	t time.Time
}

// DayAt computes the calendar day for an instant, rolled over at a
// fixed offset from UTC rather than the host timezone.
func DayAt(now time.Time, offset time.Duration) Day {
	y, m, d := now.UTC().Add(offset).Date()
	return Day{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Key returns the YYYY-MM-DD form used for session binding.
func (d Day) Key() string { return d.t.Format("2006-01-02") }

// Ordinal returns the day number since the Unix epoch.
func (d Day) Ordinal() int { return int(d.t.Unix() / 86400) }

// AddDays returns the day n days later.
func (d Day) AddDays(n int) Day { return Day{d.t.AddDate(0, 0, n)} }

// Selector deterministically maps a calendar day to one answer word.
// Every instance configured with the same seed material and candidate
// list computes the same answer for a given day, with no coordination:
// the secret is hashed into a seed, the seed drives a single shuffle of
// the candidates, and the day ordinal indexes the resulting cycle. No
// answer repeats until the whole cycle has elapsed.
type Selector struct {
	offset time.Duration
	seed   int64

	mu         sync.Mutex
	cycle      []string
	cycleCount int
}

// NewSelector derives the permutation seed from the configured secret.
// Offset is the day-rollover offset from UTC.
func NewSelector(seedMaterial string, offset time.Duration) *Selector {
	return &Selector{offset: offset, seed: Seed(seedMaterial)}
}

// Seed hashes arbitrary seed material into a stable int64.
func Seed(material string) int64 {
	sum := sha256.Sum256([]byte(material))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Today returns the current game day.
func (s *Selector) Today(now time.Time) Day { return DayAt(now, s.offset) }

// AnswerFor returns the answer word bound to the given day.
func (s *Selector) AnswerFor(day Day, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrEmptyCatalog
	}
	cycle := s.cycleFor(candidates)
	n := len(cycle)
	idx := ((day.Ordinal() % n) + n) % n
	return cycle[idx], nil
}

// cycleFor returns the cached permutation, rebuilding it when the
// candidate count changes (catalog reload). Redundant rebuilds under
// concurrent first use would be identical, the mutex only prevents a
// torn cycle from being observed.
func (s *Selector) cycleFor(candidates []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cycle != nil && s.cycleCount == len(candidates) {
		return s.cycle
	}

	cycle := slices.Clone(candidates)
	r := rand.New(rand.NewSource(s.seed))
	r.Shuffle(len(cycle), func(i, j int) {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	})
	s.cycle = cycle
	s.cycleCount = len(cycle)
	log.Info().Int("candidates", len(cycle)).Msg("rebuilt daily answer cycle")
	return s.cycle
}
