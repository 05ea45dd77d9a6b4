package game

// MaxGuesses is the number of rows in one day's game.
const MaxGuesses = 8

const (
	CodeGameOver       = "game_over"
	CodeInvalidRow     = "invalid_row"
	CodeRowMismatch    = "row_mismatch"
	CodeInvalidGuess   = "invalid_guess"
	CodeNotInWordList  = "not_in_word_list"
	CodeDuplicateGuess = "duplicate_guess"
)

// Error is a rejected submission. Code is a stable machine-readable
// kind; the HTTP layer maps codes to statuses.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrGameOver        = &Error{CodeGameOver, "game already completed for today"}
	ErrInvalidRow      = &Error{CodeInvalidRow, "invalid row number"}
	ErrRowMismatch     = &Error{CodeRowMismatch, "row mismatch, please refresh your game state"}
	ErrInvalidLength   = &Error{CodeInvalidGuess, "guess must be 4 letters"}
	ErrNotAlphabetic   = &Error{CodeInvalidGuess, "guess must contain only letters"}
	ErrRepeatedLetters = &Error{CodeInvalidGuess, "duplicate letters not allowed"}
	ErrNotInWordList   = &Error{CodeNotInWordList, "not a valid word"}
	ErrDuplicateGuess  = &Error{CodeDuplicateGuess, "word already guessed"}
)
