package game_test

import (
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	daily "github.com/CodeAndHammer/tagvorto/internal/daily"
	game "github.com/CodeAndHammer/tagvorto/internal/game"
	models "github.com/CodeAndHammer/tagvorto/internal/models"
	words "github.com/CodeAndHammer/tagvorto/internal/words"
)

var testWords = []string{
	"BOLD", "CHEF", "DARK", "ECHO", "FROG", "GAME", "HINT", "JUMP",
	"KITE", "LAMP", "MIND", "NOSE", "PLAY", "QUIZ", "ROCK", "STAR",
	"TRIM", "WOLF", "WORD", "GLOW",
}

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, seed string) *game.Service {
	t.Helper()
	catalog, err := words.NewCatalog(testWords, testWords)
	require.NoError(t, err)
	return game.NewService(catalog, daily.NewSelector(seed, 0))
}

func freshState(t *testing.T, svc *game.Service) *models.GameState {
	t.Helper()
	state := &models.GameState{Guesses: []models.GuessRecord{}}
	require.NoError(t, svc.Sync(state, testNow))
	return state
}

func TestSyncFreshSession(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	assert.Equal(t, 0, state.CurrentRow)
	assert.Empty(t, state.Guesses)
	assert.False(t, state.IsComplete)
	assert.False(t, state.Won)
	assert.Equal(t, "2026-08-28", state.Day)
	assert.Contains(t, testWords, state.Answer)
}

func TestSubmitGuessHappyPath(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	guess := pickWrongWord(state.Answer, 1)[0]
	out, err := svc.SubmitGuess(state, guess, 0, testNow)
	require.NoError(t, err)

	assert.False(t, out.Win)
	assert.Empty(t, out.Answer, "answer stays hidden mid-game")
	assert.Equal(t, 1, state.CurrentRow)
	require.Len(t, state.Guesses, 1)
	assert.Equal(t, guess, state.Guesses[0].Word)
	assert.Equal(t, out.Green, state.Guesses[0].Green)
	assert.Equal(t, out.Yellow, state.Guesses[0].Yellow)
}

func TestSubmitGuessNormalizes(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	guess := pickWrongWord(state.Answer, 1)[0]
	_, err := svc.SubmitGuess(state, "  "+strings.ToLower(guess)+"\n", 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, guess, state.Guesses[0].Word)
}

func TestSubmitGuessValidationOrder(t *testing.T) {
	svc := newTestService(t, "secret")

	cases := []struct {
		name    string
		prep    func(*models.GameState)
		guess   string
		row     int
		wantErr *game.Error
	}{
		{"completed game", func(s *models.GameState) { s.IsComplete = true }, "WORD", 0, game.ErrGameOver},
		{"row negative", nil, "WORD", -1, game.ErrInvalidRow},
		{"row too large", nil, "WORD", 8, game.ErrInvalidRow},
		{"row mismatch", nil, "WORD", 3, game.ErrRowMismatch},
		{"five letters", nil, "CRANE", 0, game.ErrInvalidLength},
		{"five letters with repeats", nil, "APPLE", 0, game.ErrInvalidLength},
		{"too short", nil, "CAT", 0, game.ErrInvalidLength},
		{"non-alphabetic", nil, "AB1D", 0, game.ErrNotAlphabetic},
		{"repeated letters", nil, "NOON", 0, game.ErrRepeatedLetters},
		{"unknown word", nil, "ZYGA", 0, game.ErrNotInWordList},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			state := freshState(t, svc)
			if c.prep != nil {
				c.prep(state)
			}
			_, err := svc.SubmitGuess(state, c.guess, c.row, testNow)
			assert.ErrorIs(t, err, c.wantErr)
		})
	}
}

func TestSubmitGuessRowMismatchLeavesStateUntouched(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	_, err := svc.SubmitGuess(state, pickWrongWord(state.Answer, 1)[0], 0, testNow)
	require.NoError(t, err)

	_, err = svc.SubmitGuess(state, pickWrongWord(state.Answer, 2)[1], 3, testNow)
	assert.ErrorIs(t, err, game.ErrRowMismatch)
	assert.Equal(t, 1, state.CurrentRow)
	assert.Len(t, state.Guesses, 1)
}

func TestSubmitGuessDuplicate(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	guess := pickWrongWord(state.Answer, 1)[0]
	_, err := svc.SubmitGuess(state, guess, 0, testNow)
	require.NoError(t, err)

	_, err = svc.SubmitGuess(state, strings.ToLower(guess), 1, testNow)
	assert.ErrorIs(t, err, game.ErrDuplicateGuess, "duplicate detection uses the same normalization as validation")
	assert.Equal(t, 1, state.CurrentRow)
}

func TestWinningGuess(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	out, err := svc.SubmitGuess(state, state.Answer, 0, testNow)
	require.NoError(t, err)

	assert.True(t, out.Win)
	assert.Equal(t, 4, out.Green)
	assert.Equal(t, state.Answer, out.Answer, "answer revealed on win")
	assert.True(t, state.Won)
	assert.True(t, state.IsComplete)
	assert.Equal(t, 1, state.CurrentRow)

	_, err = svc.SubmitGuess(state, "WORD", 1, testNow)
	assert.ErrorIs(t, err, game.ErrGameOver, "won is terminal for the day")
}

func TestLossAfterEightGuesses(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	wrong := pickWrongWord(state.Answer, game.MaxGuesses)
	for i := 0; i < game.MaxGuesses; i++ {
		out, err := svc.SubmitGuess(state, wrong[i], i, testNow)
		require.NoError(t, err)
		assert.False(t, out.Win)
		assert.Equal(t, i+1, state.CurrentRow)
		if i < game.MaxGuesses-1 {
			assert.Empty(t, out.Answer)
			assert.False(t, state.IsComplete)
		} else {
			assert.Equal(t, state.Answer, out.Answer, "answer revealed on the final row")
		}
	}

	assert.True(t, state.IsComplete)
	assert.False(t, state.Won)

	_, err := svc.SubmitGuess(state, state.Answer, 8, testNow)
	assert.ErrorIs(t, err, game.ErrGameOver)
}

func TestSyncResetsOnDayRollover(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	_, err := svc.SubmitGuess(state, pickWrongWord(state.Answer, 1)[0], 0, testNow)
	require.NoError(t, err)

	tomorrow := testNow.Add(24 * time.Hour)
	require.NoError(t, svc.Sync(state, tomorrow))

	assert.Equal(t, "2026-08-29", state.Day)
	assert.Equal(t, 0, state.CurrentRow)
	assert.Empty(t, state.Guesses)
	assert.False(t, state.IsComplete)
	assert.False(t, state.Won)
}

func TestSyncResetsOnAnswerChange(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	_, err := svc.SubmitGuess(state, pickWrongWord(state.Answer, 1)[0], 0, testNow)
	require.NoError(t, err)

	// Same stored day, different bound answer: a seed change between
	// requests must not leak scores from the old answer.
	state.Answer = pickWrongWord(state.Answer, 1)[0]
	require.NoError(t, svc.Sync(state, testNow))

	assert.Equal(t, 0, state.CurrentRow)
	assert.Empty(t, state.Guesses)
}

func TestWinOnLastRowIsAWin(t *testing.T) {
	svc := newTestService(t, "secret")
	state := freshState(t, svc)

	wrong := pickWrongWord(state.Answer, game.MaxGuesses-1)
	for i := 0; i < game.MaxGuesses-1; i++ {
		_, err := svc.SubmitGuess(state, wrong[i], i, testNow)
		require.NoError(t, err)
	}

	out, err := svc.SubmitGuess(state, state.Answer, game.MaxGuesses-1, testNow)
	require.NoError(t, err)
	assert.True(t, out.Win)
	assert.True(t, state.Won)
	assert.True(t, state.IsComplete)
}

// pickWrongWord returns n catalog words that are not the answer.
func pickWrongWord(answer string, n int) []string {
	return lo.Filter(testWords, func(w string, _ int) bool { return w != answer })[:n]
}
