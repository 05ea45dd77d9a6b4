package game

import (
	words "github.com/CodeAndHammer/tagvorto/internal/words"
)

// Score is the feedback for one guess: Green counts exact-position
// matches, Yellow counts letters present at some other position.
type Score struct {
	Green  int `json:"green"`
	Yellow int `json:"yellow"`
}

// ScoreGuess compares a guess to the answer with the classic two-pass
// consumption algorithm. Both inputs must already be normalized
// 4-letter words; validation happens upstream.
//
// Pass one claims exact positions. Pass two lets each remaining guess
// letter consume at most one remaining answer letter, so Green+Yellow
// never exceeds the word length even with repeated letters.
func ScoreGuess(guess, answer string) Score {
	var guessUsed, answerUsed [words.Length]bool
	var score Score

	for i := 0; i < words.Length; i++ {
		if guess[i] == answer[i] {
			score.Green++
			guessUsed[i] = true
			answerUsed[i] = true
		}
	}

	for i := 0; i < words.Length; i++ {
		if guessUsed[i] {
			continue
		}
		for j := 0; j < words.Length; j++ {
			if answerUsed[j] || guess[i] != answer[j] {
				continue
			}
			score.Yellow++
			answerUsed[j] = true
			break
		}
	}

	return score
}
