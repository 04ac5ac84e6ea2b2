package game

import "strings"

// Turn is one question/answer pair. A turn starts unanswered when the engine
// poses a question and is answered exactly once.
type Turn struct {
	Question string
	Answer   string
	Answered bool
}

// Transcript is the ordered question/answer history for one game.
// Invariant: at most one turn is unanswered, and if present it is the last
// element (the pending question). The engine only appends a new turn after
// the previous one has been answered, so the invariant holds structurally.
type Transcript []Turn

// Pending returns the unanswered turn awaiting the user's answer, or nil.
func (t Transcript) Pending() *Turn {
	if len(t) == 0 {
		return nil
	}
	last := &t[len(t)-1]
	if last.Answered {
		return nil
	}
	return last
}

// RecordAnswer sets the pending turn's answer. Returns false if there is no
// pending turn; an already-answered turn is never overwritten.
func (t Transcript) RecordAnswer(answer string) bool {
	p := t.Pending()
	if p == nil {
		return false
	}
	p.Answer = answer
	p.Answered = true
	return true
}

// AnsweredCount returns the number of answered turns — the questions spent
// against the game budget.
func (t Transcript) AnsweredCount() int {
	n := 0
	for _, turn := range t {
		if turn.Answered {
			n++
		}
	}
	return n
}

// HasQuestion reports whether q matches any question already in the
// transcript, ignoring case and surrounding whitespace.
func (t Transcript) HasQuestion(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	for _, turn := range t {
		if strings.ToLower(strings.TrimSpace(turn.Question)) == q {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hold a transcript without
// aliasing the store's backing array.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}
