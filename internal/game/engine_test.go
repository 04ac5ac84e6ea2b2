package game_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lazypower/twentyq/internal/game"
	"github.com/lazypower/twentyq/internal/llm"
	"github.com/lazypower/twentyq/internal/store"
)

func testEngine(t *testing.T, mock *llm.MockClient) (*game.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return game.New(mem, mock), mem
}

func mustHandle(t *testing.T, e *game.Engine, sid, msg string) string {
	t.Helper()
	reply, err := e.HandleMessage(context.Background(), sid, msg)
	if err != nil {
		t.Fatalf("HandleMessage(%q): %v", msg, err)
	}
	return reply
}

func getSession(t *testing.T, st *store.Memory, sid string) game.Session {
	t.Helper()
	sess, err := st.Get(context.Background(), sid)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return sess
}

func TestStartBeginsGame(t *testing.T) {
	e, st := testEngine(t, &llm.MockClient{})

	reply := mustHandle(t, e, "s1", "start")
	if !strings.Contains(reply, "Is it a living thing?") {
		t.Errorf("reply = %q, want opening question", reply)
	}

	sess := getSession(t, st, "s1")
	if sess.Phase != game.PhaseAwaitingAnswer {
		t.Errorf("phase = %v, want awaiting_answer", sess.Phase)
	}
	if len(sess.Transcript) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(sess.Transcript))
	}
	if sess.Transcript[0].Answered {
		t.Error("opening turn should be unanswered")
	}
}

func TestStartCommandIsCaseInsensitive(t *testing.T) {
	e, st := testEngine(t, &llm.MockClient{})

	mustHandle(t, e, "s1", "  START  ")
	if got := getSession(t, st, "s1").Phase; got != game.PhaseAwaitingAnswer {
		t.Errorf("phase = %v, want awaiting_answer", got)
	}
}

func TestGuidanceBeforeStart(t *testing.T) {
	e, st := testEngine(t, &llm.MockClient{})

	reply := mustHandle(t, e, "s1", "is it a bird?")
	if !strings.Contains(reply, "type 'start'") {
		t.Errorf("reply = %q, want start guidance", reply)
	}
	if len(getSession(t, st, "s1").Transcript) != 0 {
		t.Error("transcript should stay empty before start")
	}
}

func TestStartTwiceDoesNotReseed(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "Does it have fur?"}}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "start")

	sess := getSession(t, st, "s1")
	if len(sess.Transcript) != 1 {
		t.Errorf("transcript length = %d, want 1 (no duplicate opening turn)", len(sess.Transcript))
	}
	if sess.Transcript[0].Answered {
		t.Error("second start must not be recorded as an answer")
	}
	if len(mock.Calls) != 0 {
		t.Error("second start must not trigger a model call")
	}
}

func TestRestartResetsFromEveryPhase(t *testing.T) {
	phases := []struct {
		name string
		seed game.Session
	}{
		{"not_started", game.Session{}},
		{"awaiting_answer", game.Session{
			Phase:      game.PhaseAwaitingAnswer,
			Transcript: game.Transcript{{Question: "Is it a living thing?"}},
		}},
		{"awaiting_guess", game.Session{
			Phase: game.PhaseAwaitingGuess,
			Transcript: game.Transcript{
				{Question: "Is it a living thing?", Answer: "yes", Answered: true},
			},
		}},
	}

	for _, tt := range phases {
		t.Run(tt.name, func(t *testing.T) {
			e, st := testEngine(t, &llm.MockClient{})
			if err := st.Put(context.Background(), "s1", tt.seed); err != nil {
				t.Fatalf("Put: %v", err)
			}

			reply := mustHandle(t, e, "s1", "restart")
			if !strings.Contains(reply, "Game restarted") {
				t.Errorf("reply = %q, want restart message", reply)
			}
			if !strings.Contains(reply, "Is it a living thing?") {
				t.Errorf("reply = %q, want opening question", reply)
			}

			sess := getSession(t, st, "s1")
			if sess.Phase != game.PhaseNotStarted {
				t.Errorf("phase = %v, want not_started", sess.Phase)
			}
			if len(sess.Transcript) != 0 {
				t.Errorf("transcript length = %d, want 0", len(sess.Transcript))
			}
		})
	}
}

func TestAnswerTriggersModelCall(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "Does it have fur?"}}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	reply := mustHandle(t, e, "s1", "yes")

	if reply != "Does it have fur?" {
		t.Errorf("reply = %q, want next question", reply)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("model calls = %d, want 1", len(mock.Calls))
	}
	prompt := mock.Calls[0]
	if !strings.Contains(prompt, "- Is it a living thing? yes") {
		t.Errorf("prompt missing answered turn:\n%s", prompt)
	}
	if !strings.Contains(prompt, "You have asked 1 questions. You have 19 left.") {
		t.Errorf("prompt has wrong counters:\n%s", prompt)
	}
	if mock.Systems[0] != game.SystemInstructions {
		t.Error("system instructions must accompany every model call")
	}

	sess := getSession(t, st, "s1")
	if sess.Phase != game.PhaseAwaitingAnswer {
		t.Errorf("phase = %v, want awaiting_answer", sess.Phase)
	}
	if len(sess.Transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(sess.Transcript))
	}
	if sess.Transcript[1].Question != "Does it have fur?" || sess.Transcript[1].Answered {
		t.Errorf("second turn = %+v, want pending fur question", sess.Transcript[1])
	}
}

func TestAnswerKeepsOriginalCasing(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "Does it have fur?"}}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "Yes, It Does")

	sess := getSession(t, st, "s1")
	if sess.Transcript[0].Answer != "Yes, It Does" {
		t.Errorf("answer = %q, free text must not be case-folded", sess.Transcript[0].Answer)
	}
}

func TestGuessFlow(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "Is it a dog?"}}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	reply := mustHandle(t, e, "s1", "yes")

	if !strings.Contains(reply, "Is it a dog?") || !strings.Contains(reply, "Am I right? (yes/no)") {
		t.Errorf("reply = %q, want guess plus confirmation request", reply)
	}

	sess := getSession(t, st, "s1")
	if sess.Phase != game.PhaseAwaitingGuess {
		t.Errorf("phase = %v, want awaiting_guess", sess.Phase)
	}
	if sess.Transcript.Pending() != nil {
		t.Error("a guess must not append a pending turn")
	}
}

func TestGuessConfirmedWin(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "Is it a dog?"}}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "yes")
	reply := mustHandle(t, e, "s1", "yes")

	if !strings.Contains(reply, "got it right") {
		t.Errorf("reply = %q, want win message", reply)
	}
	sess := getSession(t, st, "s1")
	if sess.Phase != game.PhaseNotStarted || len(sess.Transcript) != 0 {
		t.Errorf("session = %+v, want reset", sess)
	}
}

func TestGuessDeniedLoss(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "Is it a dog?"}}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "yes")
	reply := mustHandle(t, e, "s1", "no")

	if !strings.Contains(reply, "I missed") {
		t.Errorf("reply = %q, want loss message", reply)
	}
	sess := getSession(t, st, "s1")
	if sess.Phase != game.PhaseNotStarted || len(sess.Transcript) != 0 {
		t.Errorf("session = %+v, want reset", sess)
	}
}

func TestGuessConfirmationReprompt(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "Is it a dog?"}}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "yes")
	reply := mustHandle(t, e, "s1", "maybe?")

	if !strings.Contains(reply, "'yes' or 'no'") {
		t.Errorf("reply = %q, want yes/no re-prompt", reply)
	}
	if got := getSession(t, st, "s1").Phase; got != game.PhaseAwaitingGuess {
		t.Errorf("phase = %v, want awaiting_guess unchanged", got)
	}
}

func TestProviderFailureKeepsAnswer(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("quota exceeded")}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	reply := mustHandle(t, e, "s1", "yes")

	if !strings.HasPrefix(reply, "Error:") || !strings.Contains(reply, "quota exceeded") {
		t.Errorf("reply = %q, want surfaced provider error", reply)
	}

	sess := getSession(t, st, "s1")
	if sess.Phase != game.PhaseAwaitingAnswer {
		t.Errorf("phase = %v, want awaiting_answer unchanged", sess.Phase)
	}
	if len(sess.Transcript) != 1 || !sess.Transcript[0].Answered || sess.Transcript[0].Answer != "yes" {
		t.Errorf("transcript = %+v, recorded answer must survive the failure", sess.Transcript)
	}
}

func TestNoPendingTurnGuidance(t *testing.T) {
	e, st := testEngine(t, &llm.MockClient{})
	seed := game.Session{
		Phase: game.PhaseAwaitingAnswer,
		Transcript: game.Transcript{
			{Question: "Is it a living thing?", Answer: "yes", Answered: true},
		},
	}
	if err := st.Put(context.Background(), "s1", seed); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reply := mustHandle(t, e, "s1", "no")
	if !strings.Contains(reply, "wait for the next question") {
		t.Errorf("reply = %q, want wait guidance", reply)
	}
	sess := getSession(t, st, "s1")
	if sess.Phase != game.PhaseAwaitingAnswer || len(sess.Transcript) != 1 {
		t.Errorf("session = %+v, must be unchanged", sess)
	}
}

func TestDuplicateQuestionSuffix(t *testing.T) {
	mock := &llm.MockClient{Queue: []*llm.Response{
		{Content: "Does it have fur?"},
		{Content: "DOES IT HAVE FUR?"},
	}}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "yes")
	reply := mustHandle(t, e, "s1", "yes")

	if !strings.HasSuffix(reply, "(Try asking something else!)") {
		t.Errorf("reply = %q, want duplicate suffix", reply)
	}

	sess := getSession(t, st, "s1")
	last := sess.Transcript[len(sess.Transcript)-1]
	if !strings.HasSuffix(last.Question, "(Try asking something else!)") {
		t.Errorf("stored question = %q, want suffix", last.Question)
	}
}

func TestFreshQuestionHasNoSuffix(t *testing.T) {
	mock := &llm.MockClient{Queue: []*llm.Response{
		{Content: "Does it have fur?"},
		{Content: "Can it fly?"},
	}}
	e, _ := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "yes")
	reply := mustHandle(t, e, "s1", "yes")

	if strings.Contains(reply, "Try asking something else") {
		t.Errorf("reply = %q, suffix must only appear for duplicates", reply)
	}
}

func TestBudgetExhaustedEndsGame(t *testing.T) {
	mock := &llm.MockClient{Response: &llm.Response{Content: "Does it have fur?"}}
	e, st := testEngine(t, mock)
	e.MaxQuestions = 2

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "yes") // answer 1 → new question
	reply := mustHandle(t, e, "s1", "no")

	if !strings.Contains(reply, "you win") {
		t.Errorf("reply = %q, want budget-spent message", reply)
	}
	if !strings.Contains(mock.Calls[1], "You must now guess") {
		t.Errorf("final prompt should force a guess:\n%s", mock.Calls[1])
	}
	sess := getSession(t, st, "s1")
	if sess.Phase != game.PhaseNotStarted || len(sess.Transcript) != 0 {
		t.Errorf("session = %+v, want reset after budget exhaustion", sess)
	}
}

func TestBudgetExhaustedGuessStillAllowed(t *testing.T) {
	mock := &llm.MockClient{Queue: []*llm.Response{
		{Content: "Does it have fur?"},
		{Content: "Is it a cat?"},
	}}
	e, st := testEngine(t, mock)
	e.MaxQuestions = 2

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "yes")
	reply := mustHandle(t, e, "s1", "no")

	if !strings.Contains(reply, "Is it a cat?") || !strings.Contains(reply, "Am I right?") {
		t.Errorf("reply = %q, want final guess", reply)
	}
	if got := getSession(t, st, "s1").Phase; got != game.PhaseAwaitingGuess {
		t.Errorf("phase = %v, want awaiting_guess", got)
	}
}

func TestQuestionCountAfterCycles(t *testing.T) {
	mock := &llm.MockClient{Queue: []*llm.Response{
		{Content: "Does it have fur?"},
		{Content: "Can it fly?"},
		{Content: "Is it bigger than a car?"},
	}}
	e, st := testEngine(t, mock)

	mustHandle(t, e, "s1", "start")
	mustHandle(t, e, "s1", "yes")
	mustHandle(t, e, "s1", "no")
	mustHandle(t, e, "s1", "no")

	if got := getSession(t, st, "s1").Transcript.AnsweredCount(); got != 3 {
		t.Errorf("answered count = %d, want 3", got)
	}
	if !strings.Contains(mock.Calls[2], "You have asked 3 questions. You have 17 left.") {
		t.Errorf("third prompt has wrong counters:\n%s", mock.Calls[2])
	}
}
