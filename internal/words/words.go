package words

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Length is the fixed word length for the whole game.
const Length = 4

// ErrNoWords is returned when a source yields zero usable words after
// filtering.
var ErrNoWords = errors.New("no usable words after filtering")

// Catalog holds the immutable word universes: the guessable set used
// for validation and the ordered answer-candidate list used for daily
// selection. Built once at startup and shared read-only.
type Catalog struct {
	guessable map[string]struct{}
	answers   []string
}

// Load reads both word sources. The guessable source is mandatory: a
// missing or empty file is fatal, there is no game without it. A
// missing answer source falls back to the guessable set.
func Load(guessPath, answerPath string) (*Catalog, error) {
	guessable, err := readWordFile(guessPath)
	if err != nil {
		return nil, fmt.Errorf("guessable words %s: %w", guessPath, err)
	}
	log.Info().Int("count", len(guessable)).Str("file", guessPath).Msg("loaded guessable words")

	answers, err := readWordFile(answerPath)
	switch {
	case err == nil:
		log.Info().Int("count", len(answers)).Str("file", answerPath).Msg("loaded answer candidates")
	case os.IsNotExist(err):
		log.Warn().Str("file", answerPath).Msg("answer list missing, falling back to guessable words")
		answers = guessable
	default:
		return nil, fmt.Errorf("answer words %s: %w", answerPath, err)
	}

	return NewCatalog(guessable, answers)
}

// NewCatalog builds a catalog from already-read token lists, applying
// the same filtering as Load. Answer candidates are intersected with
// the guessable set so every answer is also a legal guess, then sorted
// so the daily cycle is independent of source-file ordering.
func NewCatalog(guessable, answers []string) (*Catalog, error) {
	guessSet := make(map[string]struct{}, len(guessable))
	for _, raw := range guessable {
		if w := Normalize(raw); IsWellFormed(w) {
			guessSet[w] = struct{}{}
		}
	}
	if len(guessSet) == 0 {
		return nil, fmt.Errorf("guessable set: %w", ErrNoWords)
	}

	candidates := lo.FilterMap(answers, func(raw string, _ int) (string, bool) {
		w := Normalize(raw)
		if !IsWellFormed(w) {
			return "", false
		}
		if _, ok := guessSet[w]; !ok {
			log.Warn().Str("word", w).Msg("answer candidate not guessable, dropped")
			return "", false
		}
		return w, true
	})
	candidates = lo.Uniq(candidates)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("answer candidates: %w", ErrNoWords)
	}
	sort.Strings(candidates)

	return &Catalog{guessable: guessSet, answers: candidates}, nil
}

// IsGuessable reports whether a normalized word belongs to the
// validation universe.
func (c *Catalog) IsGuessable(word string) bool {
	_, ok := c.guessable[word]
	return ok
}

// Answers returns the ordered answer-candidate list. Callers must not
// mutate it.
func (c *Catalog) Answers() []string { return c.answers }

// GuessableCount reports the size of the validation universe.
func (c *Catalog) GuessableCount() int { return len(c.guessable) }

// Normalize applies the single normalization used everywhere a raw
// token or guess enters the system: trim surrounding whitespace and
// uppercase.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsWellFormed reports whether a normalized word is exactly Length
// uppercase letters with no repeats.
func IsWellFormed(word string) bool {
	if len(word) != Length {
		return false
	}
	var seen [26]bool
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'A' || ch > 'Z' {
			return false
		}
		if seen[ch-'A'] {
			return false
		}
		seen[ch-'A'] = true
	}
	return true
}

func readWordFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}
