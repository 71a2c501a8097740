package service_test

import (
	"testing"

	"guessgame-server/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestNameMatches(t *testing.T) {
	t.Run("ExactMatch", func(t *testing.T) {
		assert.True(t, service.NameMatches("Naruto Uzumaki", "Naruto Uzumaki"))
	})

	t.Run("CaseAndWhitespaceInsensitive", func(t *testing.T) {
		assert.True(t, service.NameMatches("Luffy", " luffy "))
		assert.True(t, service.NameMatches("Luffy", "LUFFY"))
		assert.Equal(t,
			service.NameMatches("Luffy", " luffy "),
			service.NameMatches("Luffy", "luffy"))
	})

	t.Run("SingleTokenMatchesFullName", func(t *testing.T) {
		assert.True(t, service.NameMatches("Monkey D. Luffy", "luffy"))
		assert.True(t, service.NameMatches("Monkey D. Luffy", "monkey"))
		assert.True(t, service.NameMatches("Naruto Uzumaki", "naruto"))
	})

	t.Run("SingleLetterTokenIgnored", func(t *testing.T) {
		assert.False(t, service.NameMatches("Monkey D. Luffy", "d"))
		assert.False(t, service.NameMatches("Monkey D. Luffy", "D."))
	})

	t.Run("BlankGuessNeverMatches", func(t *testing.T) {
		assert.False(t, service.NameMatches("Monkey D. Luffy", ""))
		assert.False(t, service.NameMatches("Monkey D. Luffy", "   "))
	})

	t.Run("ReversedTokenOrder", func(t *testing.T) {
		assert.True(t, service.NameMatches("Naruto Uzumaki", "uzumaki naruto"))
	})

	t.Run("CompoundNameContainment", func(t *testing.T) {
		assert.True(t, service.NameMatches("Monkey D. Luffy", "monkey d. luffy"))
		assert.True(t, service.NameMatches("Sailor Moon", "lor mo"))
	})

	t.Run("NoTypoTolerance", func(t *testing.T) {
		assert.False(t, service.NameMatches("Naruto Uzumaki", "narutoo"))
		assert.False(t, service.NameMatches("Goku", "gohan"))
	})
}
