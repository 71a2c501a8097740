package mocks

import (
	"context"

	"guessgame-server/internal/ai"
	"guessgame-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Answerer is a mock implementation of ai.Answerer.
type Answerer struct {
	mock.Mock
}

func (m *Answerer) AnswerQuestion(ctx context.Context, userID string, character *models.Character, question string) (string, ai.UsageInfo, error) {
	args := m.Called(ctx, userID, character, question)
	usage, _ := args.Get(1).(ai.UsageInfo)
	return args.String(0), usage, args.Error(2)
}
