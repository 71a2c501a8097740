package service

import "strings"

// NameMatches reports whether a player's guess names the given character.
// Matching is case-insensitive and whitespace-trimmed: an exact match wins,
// then any shared name token longer than one character (so "luffy" matches
// "Monkey D. Luffy" while the middle initial "d" alone does not), then
// substring containment of the guess inside the full name as a fallback
// for compound names. Blank guesses never match. No typo tolerance.
func NameMatches(actual, guess string) bool {
	actual = strings.ToLower(strings.TrimSpace(actual))
	guess = strings.ToLower(strings.TrimSpace(guess))
	if guess == "" {
		return false
	}
	if actual == guess {
		return true
	}

	actualTokens := splitNameTokens(actual)
	guessTokens := splitNameTokens(guess)
	substantial := false
	for _, gt := range guessTokens {
		if len(gt) <= 1 {
			continue
		}
		substantial = true
		for _, at := range actualTokens {
			if len(at) > 1 && at == gt {
				return true
			}
		}
	}

	// Containment needs real content: a guess made of single-character
	// tokens ("d", "d.") is too trivial to count.
	return substantial && strings.Contains(actual, guess)
}

// splitNameTokens splits a normalized name on runs of whitespace and
// periods, so "monkey d. luffy" yields ["monkey", "d", "luffy"].
func splitNameTokens(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '.'
	})
}
