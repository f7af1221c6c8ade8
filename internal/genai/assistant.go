// This file contains the Assistant, which turns completions into the four
// chat-bot operations.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/garyellow/umigame-linebot-go/internal/errors"
)

// Operation names, used as metric labels and ProviderError.Op.
const (
	OpChat    = "chat"
	OpYesNo   = "classify_yes_no"
	OpPuzzle  = "generate_puzzle"
	OpMeal    = "suggest_meal"
	opUnknown = "llm"
)

// Assistant implements the chat-bot's completion provider on top of a
// Completer. Every error it returns is a *errors.ProviderError.
type Assistant struct {
	completer Completer
	newID     func() string
	timeout   time.Duration
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithCallTimeout bounds each operation, retries and fallbacks included.
func WithCallTimeout(d time.Duration) AssistantOption {
	return func(a *Assistant) {
		a.timeout = d
	}
}

// NewAssistant creates an Assistant. A nil completer makes every call fail
// with ErrNotConfigured.
func NewAssistant(completer Completer, opts ...AssistantOption) *Assistant {
	a := &Assistant{
		completer: completer,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CompleteChat answers free-form conversation under the given persona.
func (a *Assistant) CompleteChat(ctx context.Context, system, text string) (string, error) {
	comp, err := a.complete(ctx, Request{
		Operation:   OpChat,
		System:      system,
		Prompt:      text,
		Temperature: 0.8,
		MaxTokens:   400,
	})
	if err != nil {
		return "", err
	}
	return comp.Text, nil
}

// ClassifyYesNo judges a closed question against the hidden solution. The
// reply starts with はい only when the question captures the core of it.
func (a *Assistant) ClassifyYesNo(ctx context.Context, question, secret string) (string, error) {
	comp, err := a.complete(ctx, Request{
		Operation:   OpYesNo,
		System:      fmt.Sprintf(YesNoSystemPromptTemplate, secret),
		Prompt:      question,
		Temperature: 0.2,
		MaxTokens:   200,
	})
	if err != nil {
		return "", err
	}
	return comp.Text, nil
}

// GeneratePuzzle creates a new puzzle and its solution.
func (a *Assistant) GeneratePuzzle(ctx context.Context) (Puzzle, error) {
	comp, err := a.complete(ctx, Request{
		Operation:   OpPuzzle,
		System:      PuzzleSystemPrompt,
		Prompt:      PuzzlePrompt,
		Temperature: 1.0,
		MaxTokens:   800,
		JSON:        true,
	})
	if err != nil {
		return Puzzle{}, err
	}

	p, err := ParsePuzzle(comp.Text)
	if err != nil {
		return Puzzle{}, a.wrap(OpPuzzle, err)
	}
	return p, nil
}

// SuggestMeal proposes today's dinner. TrackingID is the provider response
// ID, or a random UUID when the provider returns none.
func (a *Assistant) SuggestMeal(ctx context.Context) (Meal, error) {
	comp, err := a.complete(ctx, Request{
		Operation:   OpMeal,
		System:      MealSystemPrompt,
		Prompt:      MealPrompt,
		Temperature: 0.9,
		MaxTokens:   400,
	})
	if err != nil {
		return Meal{}, err
	}

	id := comp.ID
	if id == "" {
		id = a.newID()
	}
	return Meal{Text: comp.Text, TrackingID: id}, nil
}

func (a *Assistant) complete(ctx context.Context, req Request) (*Completion, error) {
	if a == nil || a.completer == nil {
		return nil, domerrors.NewProviderError("", req.Operation, domerrors.ErrNotConfigured)
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	comp, err := a.completer.Complete(ctx, req)
	if err != nil {
		return nil, a.wrap(req.Operation, err)
	}
	if comp == nil || strings.TrimSpace(comp.Text) == "" {
		return nil, a.wrap(req.Operation, domerrors.ErrEmptyResponse)
	}
	return comp, nil
}

func (a *Assistant) wrap(op string, err error) error {
	if op == "" {
		op = opUnknown
	}
	return domerrors.NewProviderError(a.completer.Provider().String(), op, err)
}

// ParsePuzzle extracts a Puzzle from model output. JSON is preferred; plain
// "問題:" / "答え:" lines are accepted as a fallback.
func ParsePuzzle(text string) (Puzzle, error) {
	body := stripCodeFence(text)

	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		var p Puzzle
		if err := json.Unmarshal([]byte(body[start:end+1]), &p); err == nil {
			p.Question = strings.TrimSpace(p.Question)
			p.Answer = strings.TrimSpace(p.Answer)
			if p.Question != "" && p.Answer != "" {
				return p, nil
			}
		}
	}

	var p Puzzle
	var current *string
	for line := range strings.Lines(body) {
		line = strings.TrimSpace(line)
		if rest, ok := cutLabel(line, "問題"); ok {
			p.Question, current = rest, &p.Question
			continue
		}
		if rest, ok := cutLabel(line, "答え", "真相", "解答"); ok {
			p.Answer, current = rest, &p.Answer
			continue
		}
		if current != nil && line != "" {
			*current = strings.TrimSpace(*current + "\n" + line)
		}
	}
	if p.Question == "" || p.Answer == "" {
		return Puzzle{}, fmt.Errorf("%w: no question/answer in puzzle output", domerrors.ErrMalformedResponse)
	}
	return p, nil
}

// cutLabel matches "<label>:" or "<label>：" (optionally wrapped in 【】).
func cutLabel(line string, labels ...string) (string, bool) {
	for _, l := range labels {
		for _, prefix := range []string{l + ":", l + "：", "【" + l + "】"} {
			if rest, ok := strings.CutPrefix(line, prefix); ok {
				return strings.TrimSpace(rest), true
			}
		}
	}
	return "", false
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}
