package game

import (
	"strings"
	"testing"
)

func TestBuildPromptCounters(t *testing.T) {
	tr := Transcript{
		{Question: "Is it a living thing?", Answer: "yes", Answered: true},
	}
	prompt := BuildPrompt(tr, DefaultMaxQuestions)

	if !strings.Contains(prompt, "You have asked 1 questions. You have 19 left.") {
		t.Errorf("prompt missing counters:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Is it a living thing? yes") {
		t.Errorf("prompt missing answered turn line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Ask your next yes/no question.") {
		t.Errorf("prompt missing next-question instruction:\n%s", prompt)
	}
}

func TestBuildPromptSkipsPendingTurn(t *testing.T) {
	tr := Transcript{
		{Question: "Is it a living thing?", Answer: "yes", Answered: true},
		{Question: "Is it an animal?"},
	}
	prompt := BuildPrompt(tr, DefaultMaxQuestions)

	if strings.Contains(prompt, "Is it an animal?") {
		t.Errorf("unanswered turn must not appear in prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "You have asked 1 questions.") {
		t.Errorf("pending turn must not count against the budget:\n%s", prompt)
	}
}

func TestBuildPromptBudgetExhausted(t *testing.T) {
	tr := Transcript{
		{Question: "Is it a living thing?", Answer: "yes", Answered: true},
		{Question: "Is it an animal?", Answer: "no", Answered: true},
	}
	prompt := BuildPrompt(tr, 2)

	if !strings.Contains(prompt, "You have 0 left.") {
		t.Errorf("prompt should show zero remaining:\n%s", prompt)
	}
	if !strings.Contains(prompt, "You must now guess") {
		t.Errorf("prompt should force a guess:\n%s", prompt)
	}
	if strings.Contains(prompt, "Ask your next yes/no question.") {
		t.Errorf("prompt must not invite another question at zero budget:\n%s", prompt)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	tr := Transcript{
		{Question: "Is it a living thing?", Answer: "yes", Answered: true},
		{Question: "Does it have fur?", Answer: "no", Answered: true},
	}
	a := BuildPrompt(tr, DefaultMaxQuestions)
	b := BuildPrompt(tr, DefaultMaxQuestions)
	if a != b {
		t.Error("BuildPrompt must be deterministic for the same transcript")
	}
}
