package game

import (
	"fmt"
	"strings"
)

// SystemInstructions is sent with every model call. The provider contract is
// stateless, so the rules accompany each request rather than being set once.
const SystemInstructions = "You are the guesser in a game of 20 Questions. " +
	"The user is thinking of an object, and you must figure it out by asking one yes-or-no question at a time. " +
	"You must remember what you've already asked. NEVER repeat any question. Do not ask the same thing in different wording. " +
	"Your questions should narrow the search intelligently. When confident, make a guess like 'Is it a banana?'. " +
	"Once you make a guess, wait for the user to confirm (yes or no) and do not ask more questions until told to restart."

// BuildPrompt renders the model prompt for the next turn: the running
// question budget, one "- <question> <answer>" line per answered turn, and
// the closing instruction. Deterministic for a given transcript; unanswered
// turns are excluded.
func BuildPrompt(t Transcript, maxQuestions int) string {
	var lines []string
	for _, turn := range t {
		if !turn.Answered {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s %s", turn.Question, turn.Answer))
	}

	asked := len(lines)
	remaining := maxQuestions - asked

	var b strings.Builder
	fmt.Fprintf(&b, "You have asked %d questions. You have %d left.\n", asked, remaining)
	b.WriteString("These are the questions and answers so far:\n")
	b.WriteString(strings.Join(lines, "\n"))
	if remaining <= 0 {
		b.WriteString("\n\nYou are out of questions. You must now guess the object, phrased like 'Is it ...?'.")
	} else {
		b.WriteString("\n\nAsk your next yes/no question. If you're very confident, guess the object.")
	}
	return b.String()
}
