package models

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus is the lifecycle state of a game session.
type GameStatus string

const (
	GameStatusActive GameStatus = "ACTIVE"
	GameStatusWon    GameStatus = "WON"
	GameStatusLost   GameStatus = "LOST"
)

// IsTerminal reports whether the session can no longer be mutated.
func (s GameStatus) IsTerminal() bool {
	return s == GameStatusWon || s == GameStatusLost
}

// GameSession is one play-through, from character selection to a terminal
// guess outcome. A user has at most one session with GameStatusActive.
type GameSession struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `db:"user_id" json:"userId"`
	CharacterID      uuid.UUID  `db:"character_id" json:"-"`
	Status           GameStatus `db:"status" json:"status"`
	QuestionsCount   int        `db:"questions_count" json:"questionsCount"`
	GuessedCorrectly bool       `db:"guessed_correctly" json:"guessedCorrectly"`
	FinalGuess       *string    `db:"final_guess" json:"finalGuess,omitempty"`
	StartedAt        time.Time  `db:"started_at" json:"startedAt"`
	EndedAt          *time.Time `db:"ended_at" json:"endedAt,omitempty"`
}

// GameQuestion is one transcript entry of a session.
type GameQuestion struct {
	ID       uuid.UUID `json:"id"`
	GameID   uuid.UUID `db:"game_id" json:"-"`
	Question string    `db:"question" json:"question"`
	Answer   string    `db:"answer" json:"answer"`
	AskedAt  time.Time `db:"asked_at" json:"askedAt"`
}
