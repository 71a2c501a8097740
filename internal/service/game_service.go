package service

import (
	"context"
	"strings"

	"guessgame-server/internal/ai"
	"guessgame-server/internal/models"
	"guessgame-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameService owns the per-user game session lifecycle: at most one
// ACTIVE session per user, questions routed to the answering provider,
// guesses settled by NameMatches.
type GameService interface {
	// StartGame abandons any in-progress session (it becomes LOST) and
	// opens a new one against a random active character. The character
	// identity is withheld from the returned session.
	StartGame(ctx context.Context, userID uuid.UUID) (*models.GameResponseDTO, error)

	// AskQuestion answers the player's question about the hidden
	// character and records the exchange. Provider failures degrade to a
	// canned answer without recording anything.
	AskQuestion(ctx context.Context, userID uuid.UUID, question string) (*models.AnswerResponseDTO, error)

	// SubmitGuess settles the active session as WON or LOST and reveals
	// the character.
	SubmitGuess(ctx context.Context, userID uuid.UUID, guess string) (*models.GameResponseDTO, error)

	// GetCurrentGame returns the active session without revealing the
	// character.
	GetCurrentGame(ctx context.Context, userID uuid.UUID) (*models.GameResponseDTO, error)

	// GetHistory returns every session of the user, characters revealed.
	GetHistory(ctx context.Context, userID uuid.UUID) ([]models.GameResponseDTO, error)
}

type gameServiceImpl struct {
	gameRepo      repository.GameRepository
	characterRepo repository.CharacterRepository
	answerer      ai.Answerer
	logger        *zap.Logger
}

var _ GameService = (*gameServiceImpl)(nil)

// NewGameService creates a new game session service.
func NewGameService(
	gameRepo repository.GameRepository,
	characterRepo repository.CharacterRepository,
	answerer ai.Answerer,
	logger *zap.Logger,
) GameService {
	return &gameServiceImpl{
		gameRepo:      gameRepo,
		characterRepo: characterRepo,
		answerer:      answerer,
		logger:        logger.Named("GameService"),
	}
}

func (s *gameServiceImpl) StartGame(ctx context.Context, userID uuid.UUID) (*models.GameResponseDTO, error) {
	character, err := s.characterRepo.PickRandomActive(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.gameRepo.StartSession(ctx, userID, character.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Game started",
		zap.String("userID", userID.String()),
		zap.String("gameID", session.ID.String()))
	return s.toResponse(session, nil, nil), nil
}

func (s *gameServiceImpl) AskQuestion(ctx context.Context, userID uuid.UUID, question string) (*models.AnswerResponseDTO, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, models.ErrInvalidInput
	}

	session, err := s.gameRepo.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	character, err := s.characterRepo.GetByID(ctx, session.CharacterID)
	if err != nil {
		s.logger.Error("Active session references missing character",
			zap.String("gameID", session.ID.String()),
			zap.String("characterID", session.CharacterID.String()),
			zap.Error(err))
		return nil, err
	}

	answer, _, err := s.answerer.AnswerQuestion(ctx, userID.String(), character, question)
	if err != nil {
		// A provider outage must not break the game: the player gets a
		// canned answer and nothing is recorded against the session.
		s.logger.Warn("Answer provider failed, returning fallback",
			zap.String("userID", userID.String()),
			zap.String("gameID", session.ID.String()),
			zap.Error(err))
		return &models.AnswerResponseDTO{
			Question:       question,
			Answer:         ai.FallbackAnswer,
			TotalQuestions: session.QuestionsCount,
		}, nil
	}

	count, err := s.gameRepo.AppendQuestion(ctx, userID, session.ID, question, answer)
	if err != nil {
		return nil, err
	}

	return &models.AnswerResponseDTO{
		Question:       question,
		Answer:         answer,
		TotalQuestions: count,
	}, nil
}

func (s *gameServiceImpl) SubmitGuess(ctx context.Context, userID uuid.UUID, guess string) (*models.GameResponseDTO, error) {
	guess = strings.TrimSpace(guess)
	if guess == "" {
		return nil, models.ErrInvalidInput
	}

	session, err := s.gameRepo.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	character, err := s.characterRepo.GetByID(ctx, session.CharacterID)
	if err != nil {
		return nil, err
	}

	won := NameMatches(character.Name, guess)
	finished, err := s.gameRepo.FinishSession(ctx, userID, guess, won)
	if err != nil {
		return nil, err
	}

	transcript, err := s.gameRepo.GetTranscript(ctx, finished.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Guess settled",
		zap.String("userID", userID.String()),
		zap.String("gameID", finished.ID.String()),
		zap.Bool("won", won))
	return s.toResponse(finished, character, transcript), nil
}

func (s *gameServiceImpl) GetCurrentGame(ctx context.Context, userID uuid.UUID) (*models.GameResponseDTO, error) {
	session, err := s.gameRepo.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	transcript, err := s.gameRepo.GetTranscript(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(session, nil, transcript), nil
}

func (s *gameServiceImpl) GetHistory(ctx context.Context, userID uuid.UUID) ([]models.GameResponseDTO, error) {
	sessions, err := s.gameRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.GameResponseDTO, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]

		character, err := s.characterRepo.GetByID(ctx, session.CharacterID)
		if err != nil {
			return nil, err
		}
		transcript, err := s.gameRepo.GetTranscript(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *s.toResponse(session, character, transcript))
	}
	return responses, nil
}

// toResponse maps a session to its client view. A non-nil character
// reveals the identity; pass nil while the session is in progress.
func (s *gameServiceImpl) toResponse(session *models.GameSession, character *models.Character, transcript []models.GameQuestion) *models.GameResponseDTO {
	resp := &models.GameResponseDTO{
		ID:               session.ID,
		Status:           session.Status,
		QuestionsCount:   session.QuestionsCount,
		GuessedCorrectly: session.GuessedCorrectly,
		FinalGuess:       session.FinalGuess,
		StartedAt:        session.StartedAt,
		EndedAt:          session.EndedAt,
	}
	if character != nil {
		revealed := character.DisplayName()
		resp.RevealedCharacter = &revealed
	}
	resp.Transcript = make([]models.TranscriptEntryDTO, 0, len(transcript))
	for _, entry := range transcript {
		resp.Transcript = append(resp.Transcript, models.TranscriptEntryDTO{
			Question: entry.Question,
			Answer:   entry.Answer,
			AskedAt:  entry.AskedAt,
		})
	}
	return resp
}
