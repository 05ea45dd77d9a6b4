package handlers

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	game "github.com/CodeAndHammer/tagvorto/internal/game"
	models "github.com/CodeAndHammer/tagvorto/internal/models"
	session "github.com/CodeAndHammer/tagvorto/internal/session"
	util "github.com/CodeAndHammer/tagvorto/internal/util"
	words "github.com/CodeAndHammer/tagvorto/internal/words"
)

// API is the thin JSON layer over the game core. Everything it holds
// is immutable after startup except the session store, which guards
// itself.
type API struct {
	Service      *game.Service
	Sessions     *session.Store
	Catalog      *words.Catalog
	CookieMaxAge time.Duration
	Secure       bool
	StartTime    time.Time

	// LimiterCount reports active rate limiters for healthz; optional.
	LimiterCount func() int
}

type guessRequest struct {
	Guess string `json:"guess"`
	Row   int    `json:"row"`
}

// Home serves the static front page.
func (a *API) Home(c *gin.Context) {
	c.File("static/index.html")
}

// GameState returns the session's current game, bound to today's
// answer.
func (a *API) GameState(c *gin.Context) {
	sessionID := session.GetOrCreateID(c, a.CookieMaxAge, a.Secure)
	state := a.Sessions.Get(sessionID)
	if err := a.Service.Sync(state, time.Now()); err != nil {
		log.Error().Err(err).Msg("failed to sync game state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	a.Sessions.Save(sessionID, state)
	c.JSON(http.StatusOK, stateView(state))
}

// Guess handles one guess submission.
func (a *API) Guess(c *gin.Context) {
	sessionID := session.GetOrCreateID(c, a.CookieMaxAge, a.Secure)

	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	state := a.Sessions.Get(sessionID)
	outcome, err := a.Service.SubmitGuess(state, req.Guess, req.Row, time.Now())
	// Sync inside SubmitGuess may have rebound the session to a new
	// day even when the guess was rejected.
	a.Sessions.Save(sessionID, state)
	if err != nil {
		a.renderGuessError(c, err, state)
		return
	}

	var answer any
	if outcome.Answer != "" {
		answer = outcome.Answer
	}
	c.JSON(http.StatusOK, gin.H{
		"green":  outcome.Green,
		"yellow": outcome.Yellow,
		"win":    outcome.Win,
		"answer": answer,
	})
}

func (a *API) renderGuessError(c *gin.Context, err error, state *models.GameState) {
	var gameErr *game.Error
	if !errors.As(err, &gameErr) {
		log.Error().Err(err).Msg("guess submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": gameErr.Message, "code": gameErr.Code}
	status := http.StatusBadRequest
	switch gameErr.Code {
	case game.CodeGameOver:
		status = http.StatusPreconditionFailed
	case game.CodeRowMismatch:
		// Carry the authoritative state so a stale client can
		// resynchronize without losing progress.
		status = http.StatusConflict
		body["state"] = stateView(state)
	}
	log.Warn().Str("code", gameErr.Code).Msg("rejected guess")
	c.JSON(status, body)
}

// Healthz reports process health and a few gauges.
func (a *API) Healthz(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	limiters := 0
	if a.LimiterCount != nil {
		limiters = a.LimiterCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[a.Secure],
		"words_loaded":    a.Catalog.GuessableCount(),
		"answer_words":    len(a.Catalog.Answers()),
		"active_sessions": a.Sessions.Len(),
		"active_limiters": limiters,
		"memory_alloc_mb": m.Alloc / 1024 / 1024,
		"memory_sys_mb":   m.Sys / 1024 / 1024,
		"memory_gc_count": m.NumGC,
		"uptime":          util.FormatUptime(time.Since(a.StartTime)),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

func stateView(state *models.GameState) gin.H {
	return gin.H{
		"guesses":    state.Guesses,
		"isComplete": state.IsComplete,
		"won":        state.Won,
		"currentRow": state.CurrentRow,
	}
}
