// Package prompt holds the fixed tutoring policy and assembles the prompt for
// a turn. Everything here is pure: same inputs, same output.
package prompt

import (
	"fmt"

	"tutorchat-backend/internal/llm"
)

// TutorSystemPrompt is the invariant tutoring policy sent as the first system
// segment of every turn. It is never truncated or altered.
const TutorSystemPrompt = `
You are a strict-but-kind tutor. Your job is long-term learning, not giving answers.

Rules:
1) Ask for the student's attempt BEFORE giving a full solution.
2) Offer a hint ladder when asked for answers:
   - Hint 1: conceptual nudge (no equations/steps)
   - Hint 2: method / next step (light structure)
   - Hint 3: almost-there + check step
3) If the student provides work, diagnose mistakes and guide them to fix it.
4) End responses with ONE short question that checks understanding.
5) Keep it concise, clear, and encouraging.
6) Answer any question you are given on any subject.
`

// Mode is the guidance-ladder selector for a turn.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeHint1    Mode = "hint1"
	ModeHint2    Mode = "hint2"
	ModeHint3    Mode = "hint3"
	ModeSolution Mode = "solution"
)

// modeInstructions is the total mode -> instruction mapping. Unrecognized or
// absent modes fall back to the normal instruction.
var modeInstructions = map[Mode]string{
	ModeHint1:    "Give ONLY Hint 1.",
	ModeHint2:    "Give ONLY Hint 2.",
	ModeHint3:    "Give ONLY Hint 3.",
	ModeSolution: "Give a full solution, but still explain step-by-step and include a quick check question.",
	ModeNormal:   "Tutor normally (attempt-first, Socratic).",
}

// ParseMode maps an inbound mode string to a Mode, defaulting to ModeNormal.
func ParseMode(s string) Mode {
	m := Mode(s)
	if _, ok := modeInstructions[m]; ok {
		return m
	}
	return ModeNormal
}

// Instruction returns the per-turn instruction text for a mode.
func Instruction(m Mode) string {
	if instr, ok := modeInstructions[m]; ok {
		return instr
	}
	return modeInstructions[ModeNormal]
}

// Compose builds the ordered prompt for one turn: the tutoring policy, a
// topic+mode system segment, then the history window with roles and order
// preserved. The history slice is not mutated.
func Compose(topic string, mode Mode, history []llm.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: TutorSystemPrompt,
	})
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf("Topic: %s. %s", topic, Instruction(mode)),
	})
	messages = append(messages, history...)

	return messages
}
