package game

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lazypower/twentyq/internal/llm"
)

// DefaultMaxQuestions is the classic game budget.
const DefaultMaxQuestions = 20

// OpeningQuestion seeds every new game. The first real narrowing question is
// fixed rather than model-generated, matching the game's opening move.
const OpeningQuestion = "Is it a living thing?"

const (
	msgRestart     = "Game restarted. Let's begin!\n\n" + OpeningQuestion
	msgStartHint   = "Please type 'start' to begin the game."
	msgWin         = "Yay! I got it right!\n\nType 'start' to play again."
	msgLoss        = "Aw, I missed.\n\nType 'start' to try again!"
	msgConfirmHint = "Please answer 'yes' or 'no' to my guess, or type 'restart' to begin again."
	msgInProgress  = "A game is already in progress. Answer the question above, or type 'restart' to begin again."
	msgWaitTurn    = "Please wait for the next question. Type 'restart' if needed."
	msgBudgetSpent = "That was my last question and I still couldn't work it out — you win!\n\nType 'start' to play again."

	confirmSuffix   = "\n\nAm I right? (yes/no)"
	duplicateSuffix = " (Try asking something else!)"
)

// Engine drives the game state machine: one transition per inbound message.
// The model call is the only blocking operation; a provider failure is
// converted to a chat reply and never mutates phase or transcript beyond the
// answer already recorded for the pending turn.
type Engine struct {
	store Store
	model llm.Client

	// MaxQuestions is the answer budget before the model is forced to guess.
	MaxQuestions int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an Engine over the given session store and model client.
func New(store Store, model llm.Client) *Engine {
	return &Engine{
		store:        store,
		model:        model,
		MaxQuestions: DefaultMaxQuestions,
		locks:        make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing turns for one session id. A
// double-submitted request must not interleave its read-modify-write with
// another for the same session; distinct sessions proceed concurrently.
func (e *Engine) sessionLock(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lk, ok := e.locks[id]
	if !ok {
		lk = &sync.Mutex{}
		e.locks[id] = lk
	}
	return lk
}

// HandleMessage applies one state transition for the session and returns the
// chat reply. Commands are matched trimmed and case-folded; free-text answers
// are recorded with their original casing. A non-nil error means the store
// failed — provider failures come back as an "Error: ..." reply instead.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, message string) (string, error) {
	lk := e.sessionLock(sessionID)
	lk.Lock()
	defer lk.Unlock()

	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	cmd := strings.ToLower(strings.TrimSpace(message))

	if cmd == "restart" {
		if err := e.store.Clear(ctx, sessionID); err != nil {
			return "", fmt.Errorf("clear session: %w", err)
		}
		return msgRestart, nil
	}

	switch sess.Phase {
	case PhaseNotStarted:
		if cmd == "start" {
			sess = Session{
				Phase:      PhaseAwaitingAnswer,
				Transcript: Transcript{{Question: OpeningQuestion}},
			}
			if err := e.store.Put(ctx, sessionID, sess); err != nil {
				return "", fmt.Errorf("save session: %w", err)
			}
			return OpeningQuestion, nil
		}
		return msgStartHint, nil

	case PhaseAwaitingGuess:
		switch cmd {
		case "yes", "y":
			if err := e.store.Clear(ctx, sessionID); err != nil {
				return "", fmt.Errorf("clear session: %w", err)
			}
			return msgWin, nil
		case "no", "n":
			if err := e.store.Clear(ctx, sessionID); err != nil {
				return "", fmt.Errorf("clear session: %w", err)
			}
			return msgLoss, nil
		default:
			return msgConfirmHint, nil
		}

	case PhaseAwaitingAnswer:
		// "start" mid-game is ignored rather than recorded as an answer,
		// so a double-submitted start cannot re-seed or pollute the
		// transcript.
		if cmd == "start" {
			return msgInProgress, nil
		}
		return e.playTurn(ctx, sessionID, sess, strings.TrimSpace(message))
	}

	return msgStartHint, nil
}

// playTurn records the answer to the pending question, asks the model for
// the next move, and applies the result.
func (e *Engine) playTurn(ctx context.Context, sessionID string, sess Session, answer string) (string, error) {
	if !sess.Transcript.RecordAnswer(answer) {
		// No pending question — the previous turn ended without issuing one
		// (e.g. a provider failure). The user can only restart from here.
		return msgWaitTurn, nil
	}

	// Persist the answer before the model call so a provider failure does
	// not lose input the user already gave.
	if err := e.store.Put(ctx, sessionID, sess); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	prompt := BuildPrompt(sess.Transcript, e.MaxQuestions)
	resp, err := e.model.Complete(ctx, prompt, SystemInstructions)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	reply := strings.TrimSpace(resp.Content)

	if IsGuess(reply) {
		sess.Phase = PhaseAwaitingGuess
		if err := e.store.Put(ctx, sessionID, sess); err != nil {
			return "", fmt.Errorf("save session: %w", err)
		}
		return reply + confirmSuffix, nil
	}

	// Budget exhausted and the model still didn't guess: the game ends here
	// rather than issuing a 21st question.
	if sess.Transcript.AnsweredCount() >= e.MaxQuestions {
		if err := e.store.Clear(ctx, sessionID); err != nil {
			return "", fmt.Errorf("clear session: %w", err)
		}
		return msgBudgetSpent, nil
	}

	if sess.Transcript.HasQuestion(reply) {
		reply += duplicateSuffix
	}
	sess.Transcript = append(sess.Transcript, Turn{Question: reply})
	if err := e.store.Put(ctx, sessionID, sess); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return reply, nil
}
