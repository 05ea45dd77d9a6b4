package game

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	daily "github.com/CodeAndHammer/tagvorto/internal/daily"
	models "github.com/CodeAndHammer/tagvorto/internal/models"
	words "github.com/CodeAndHammer/tagvorto/internal/words"
)

// Service orchestrates one guess submission: it binds the session to
// today's answer, validates the guess, scores it and advances the
// state machine. It holds only immutable dependencies and is safe for
// concurrent use; the caller owns serialization per session.
type Service struct {
	catalog  *words.Catalog
	selector *daily.Selector
}

func NewService(catalog *words.Catalog, selector *daily.Selector) *Service {
	return &Service{catalog: catalog, selector: selector}
}

// Outcome is the result of an accepted guess. Answer is empty unless
// the game just ended this row.
type Outcome struct {
	Score
	Win    bool
	Answer string
}

// Sync rebinds state to today's (day, answer) pair, resetting it to a
// fresh game whenever either differs from what the state was bound to.
// A same-day answer change (new seed material after a restart) resets
// too, so stale feedback never leaks into a new game.
func (s *Service) Sync(state *models.GameState, now time.Time) error {
	day := s.selector.Today(now)
	answer, err := s.selector.AnswerFor(day, s.catalog.Answers())
	if err != nil {
		return err
	}

	if state.Day != day.Key() || state.Answer != answer {
		*state = models.GameState{
			Day:            day.Key(),
			Answer:         answer,
			Guesses:        []models.GuessRecord{},
			LastAccessTime: state.LastAccessTime,
		}
	}
	return nil
}

// SubmitGuess validates and applies one guess. Checks run in a fixed
// order and the first failure wins; every rejection is a *Error and
// leaves the state untouched.
func (s *Service) SubmitGuess(state *models.GameState, rawGuess string, row int, now time.Time) (Outcome, error) {
	if err := s.Sync(state, now); err != nil {
		return Outcome{}, err
	}

	if state.IsComplete {
		return Outcome{}, ErrGameOver
	}
	if row < 0 || row >= MaxGuesses {
		return Outcome{}, ErrInvalidRow
	}
	if row != state.CurrentRow {
		return Outcome{}, ErrRowMismatch
	}

	guess := words.Normalize(rawGuess)
	if len(guess) != words.Length {
		return Outcome{}, ErrInvalidLength
	}
	if !isAlphabetic(guess) {
		return Outcome{}, ErrNotAlphabetic
	}
	if !hasDistinctLetters(guess) {
		return Outcome{}, ErrRepeatedLetters
	}
	if !s.catalog.IsGuessable(guess) {
		return Outcome{}, ErrNotInWordList
	}
	if lo.SomeBy(state.Guesses, func(g models.GuessRecord) bool { return g.Word == guess }) {
		return Outcome{}, ErrDuplicateGuess
	}

	score := ScoreGuess(guess, state.Answer)
	win := score.Green == words.Length
	lastRow := row == MaxGuesses-1

	state.Guesses = append(state.Guesses, models.GuessRecord{
		Word:   guess,
		Green:  score.Green,
		Yellow: score.Yellow,
	})
	state.CurrentRow = len(state.Guesses)

	out := Outcome{Score: score, Win: win}
	switch {
	case win:
		state.IsComplete = true
		state.Won = true
		out.Answer = state.Answer
		log.Info().Str("day", state.Day).Int("row", row).Msg("player won")
	case lastRow:
		state.IsComplete = true
		out.Answer = state.Answer
		log.Info().Str("day", state.Day).Msg("player lost")
	}
	return out, nil
}

func isAlphabetic(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < 'A' || word[i] > 'Z' {
			return false
		}
	}
	return true
}

func hasDistinctLetters(word string) bool {
	var seen [26]bool
	for i := 0; i < len(word); i++ {
		idx := word[i] - 'A'
		if seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}
