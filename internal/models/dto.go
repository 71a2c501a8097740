package models

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptEntryDTO is one question/answer pair of a session transcript.
type TranscriptEntryDTO struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// GameResponseDTO is the client view of a game session. RevealedCharacter
// stays nil while the session is active; terminal sessions (and history
// entries) carry "<Name> from <Work>".
type GameResponseDTO struct {
	ID                uuid.UUID            `json:"id"`
	Status            GameStatus           `json:"status"`
	QuestionsCount    int                  `json:"questions_count"`
	GuessedCorrectly  bool                 `json:"guessed_correctly"`
	FinalGuess        *string              `json:"final_guess,omitempty"`
	StartedAt         time.Time            `json:"started_at"`
	EndedAt           *time.Time           `json:"ended_at,omitempty"`
	RevealedCharacter *string              `json:"revealed_character,omitempty"`
	Transcript        []TranscriptEntryDTO `json:"conversation_history"`
}

// AnswerResponseDTO is returned after a question is answered.
type AnswerResponseDTO struct {
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	TotalQuestions int    `json:"total_questions"`
}
