package models

import "time"

// GuessRecord is one scored guess. Green counts exact-position matches,
// yellow counts letters present elsewhere in the answer.
type GuessRecord struct {
	Word   string `json:"word"`
	Green  int    `json:"green"`
	Yellow int    `json:"yellow"`
}

// GameState is one player's progress against one (day, answer) binding.
// It is owned by exactly one session and round-tripped through the
// session store; nothing in here knows about cookies or storage.
type GameState struct {
	Day            string        `json:"day"`
	Answer         string        `json:"-"`
	Guesses        []GuessRecord `json:"guesses"`
	CurrentRow     int           `json:"currentRow"`
	IsComplete     bool          `json:"isComplete"`
	Won            bool          `json:"won"`
	LastAccessTime time.Time     `json:"-"`
}
