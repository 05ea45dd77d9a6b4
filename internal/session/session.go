package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	models "github.com/CodeAndHammer/tagvorto/internal/models"
)

// CookieName is the opaque per-browser session token cookie.
const CookieName = "session_id"

// GetOrCreateID returns the request's session id, issuing a fresh
// uuid cookie when the client has none.
func GetOrCreateID(c *gin.Context, maxAge time.Duration, secure bool) string {
	sessionID, err := c.Cookie(CookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(CookieName, sessionID, int(maxAge.Seconds()), "/", "", secure, true)
		log.Info().Str("session", sessionID).Msg("created new session")
	}
	return sessionID
}

// Store keeps per-session game state in memory. It is the opaque
// load/store capability the game core round-trips state through; one
// session id maps to exactly one state value.
type Store struct {
	mu    sync.RWMutex
	games map[string]*models.GameState
	ttl   time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{games: make(map[string]*models.GameState), ttl: ttl}
}

// Get returns the state for a session, creating an empty one on first
// access. The returned state is unbound; callers sync it against
// today's game before use.
func (s *Store) Get(sessionID string) *models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.games[sessionID]
	if !ok {
		state = &models.GameState{Guesses: []models.GuessRecord{}}
		s.games[sessionID] = state
	}
	state.LastAccessTime = time.Now()
	return state
}

// Save writes the state back and stamps its access time.
func (s *Store) Save(sessionID string, state *models.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.LastAccessTime = time.Now()
	s.games[sessionID] = state
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// CleanupExpired drops sessions idle past the store TTL.
func (s *Store) CleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for id, state := range s.games {
		if state.LastAccessTime.Before(cutoff) {
			delete(s.games, id)
			removed++
		}
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("cleaned up stale sessions")
	}
}

// StartCleanup runs CleanupExpired on a ticker for the process
// lifetime.
func (s *Store) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			s.CleanupExpired()
		}
	}()
	log.Info().Dur("interval", interval).Msg("started session cleanup goroutine")
}
