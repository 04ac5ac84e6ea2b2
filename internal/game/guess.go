package game

import "strings"

// guessPrefixes are the openings the model uses when it commits to a final
// guess rather than another narrowing question.
var guessPrefixes = []string{
	"is it",
	"i guess",
	"is the object",
}

// IsGuess classifies a model reply as a final guess versus a follow-up
// question. This is best-effort intent detection: the system instructions
// tell the model to guess with an "Is it ...?" pattern, but nothing forces
// it to, so a creatively phrased guess will be treated as a question and
// the game simply continues.
func IsGuess(reply string) bool {
	lower := strings.ToLower(strings.TrimSpace(reply))
	for _, prefix := range guessPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
