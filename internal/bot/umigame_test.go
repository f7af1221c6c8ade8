package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domerrors "github.com/garyellow/umigame-linebot-go/internal/errors"
	"github.com/garyellow/umigame-linebot-go/internal/genai"
)

var testPuzzle = genai.Puzzle{
	Question: "男はレストランでウミガメのスープを飲み、自殺した。なぜ？",
	Answer:   "かつて遭難した時に飲んだスープがウミガメではなかったと気づいた。",
}

func providerErr(op string) error {
	return domerrors.NewProviderError("gemini", op, errors.New("503 unavailable"))
}

func TestGameStart(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.assistant.EXPECT().GeneratePuzzle(gomock.Any()).Return(testPuzzle, nil)
	got := h.captureReply(testToken)

	h.router.Route(context.Background(), userEvent("  ウミガメのスープ  "))

	require.Len(t, *got, 1)
	assert.Equal(t, fmt.Sprintf(msgGameIntro, testPuzzle.Question), textOf(t, (*got)[0]))

	session, ok := h.router.Sessions().Get(testUser)
	require.True(t, ok)
	assert.Equal(t, testPuzzle.Question, session.Puzzle)
	assert.Equal(t, testPuzzle.Answer, session.Answer)
}

func TestGameStart_ProviderFailureKeepsState(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.assistant.EXPECT().GeneratePuzzle(gomock.Any()).Return(genai.Puzzle{}, providerErr(genai.OpPuzzle))
	got := h.captureReply(testToken)

	h.router.Route(context.Background(), userEvent(TriggerGameStart))

	assert.Equal(t, msgPuzzleFailed, onlyText(t, *got))
	assert.Equal(t, 0, h.router.Sessions().Len())
}

func TestGameStart_AnonymousIsDegraded(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.assistant.EXPECT().GeneratePuzzle(gomock.Any()).Return(testPuzzle, nil)
	got := h.captureReply(testToken)

	h.router.Route(context.Background(), anonymousEvent(TriggerGameStart))

	require.Len(t, *got, 2)
	assert.Contains(t, textOf(t, (*got)[0]), testPuzzle.Question)
	assert.Equal(t, msgGameDegraded, textOf(t, (*got)[1]))
	assert.Equal(t, 0, h.router.Sessions().Len())
}

func TestGameStart_WhileActiveRegenerates(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.router.Sessions().Put(testUser, Session{Puzzle: "old", Answer: "old answer"})

	h.assistant.EXPECT().GeneratePuzzle(gomock.Any()).Return(testPuzzle, nil)
	h.captureReply(testToken)

	h.router.Route(context.Background(), userEvent(TriggerGameStart))

	session, ok := h.router.Sessions().Get(testUser)
	require.True(t, ok)
	assert.Equal(t, testPuzzle.Answer, session.Answer)
}

func TestGameEnd(t *testing.T) {
	t.Parallel()

	t.Run("active session", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.router.Sessions().Put(testUser, Session{Puzzle: "p", Answer: "a"})
		got := h.captureReply(testToken)

		h.router.Route(context.Background(), userEvent(TriggerGameEnd))

		assert.Equal(t, msgGameEnded, onlyText(t, *got))
		assert.Equal(t, 0, h.router.Sessions().Len())
	})

	t.Run("no session", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		got := h.captureReply(testToken)

		h.router.Route(context.Background(), userEvent(TriggerGameEnd))

		assert.Equal(t, msgGameEnded, onlyText(t, *got))
	})
}

func TestQuestionTurn_OpenQuestionIgnored(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.router.Sessions().Put(testUser, Session{Puzzle: "p", Answer: "a"})

	// No Reply or ClassifyYesNo expectation: any call fails the test.
	h.router.Route(context.Background(), userEvent("男は何を飲みましたか？"))

	_, ok := h.router.Sessions().Get(testUser)
	assert.True(t, ok)
}

func TestQuestionTurn_SessionShadowsOtherIntents(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.router.Sessions().Put(testUser, Session{Puzzle: "p", Answer: "a"})

	// "じゃんけん" is a question turn while a game is active, and not a closed question.
	h.router.Route(context.Background(), userEvent(TriggerJanken))
	h.router.Route(context.Background(), userEvent("東京の天気"))

	assert.Empty(t, h.weather.lookups)
}

func TestQuestionTurn_Answered(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.router.Sessions().Put(testUser, Session{Puzzle: "p", Answer: "secret"})

	h.assistant.EXPECT().ClassifyYesNo(gomock.Any(), "男は船乗りですか？", "secret").Return("いいえ", nil)
	got := h.captureReply(testToken)

	h.router.Route(context.Background(), userEvent("男は船乗りですか？"))

	assert.Equal(t, "いいえ", onlyText(t, *got))
	_, ok := h.router.Sessions().Get(testUser)
	assert.True(t, ok, "non-affirmative answer keeps the session")
}

func TestQuestionTurn_ProviderFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.router.Sessions().Put(testUser, Session{Puzzle: "p", Answer: "secret"})

	h.assistant.EXPECT().ClassifyYesNo(gomock.Any(), gomock.Any(), "secret").Return("", providerErr(genai.OpYesNo))
	got := h.captureReply(testToken)

	h.router.Route(context.Background(), userEvent("男は船乗りですか？"))

	assert.Equal(t, msgAnswerFailed, onlyText(t, *got))
	_, ok := h.router.Sessions().Get(testUser)
	assert.True(t, ok)
}

func TestQuestionTurn_RateLimited(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.limiter.allow = false
	h.router.Sessions().Put(testUser, Session{Puzzle: "p", Answer: "secret"})

	got := h.captureReply(testToken)

	h.router.Route(context.Background(), userEvent("男は船乗りですか？"))

	assert.Equal(t, msgRateLimited, onlyText(t, *got))
	assert.Equal(t, []string{testUser}, h.limiter.keys)
	_, ok := h.router.Sessions().Get(testUser)
	assert.True(t, ok)
}

func TestQuestionTurn_ImplicitWin(t *testing.T) {
	t.Parallel()

	for _, pushErr := range []error{nil, errors.New("push quota exceeded")} {
		t.Run(fmt.Sprintf("push error %v", pushErr), func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			h.router.Sessions().Put(testUser, Session{Puzzle: "p", Answer: "secret"})

			h.assistant.EXPECT().ClassifyYesNo(gomock.Any(), gomock.Any(), "secret").Return("はい、核心です！", nil)
			got := h.captureReply(testToken)

			var pushed []messaging_api.MessageInterface
			h.messenger.EXPECT().Push(gomock.Any(), testUser, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, msgs []messaging_api.MessageInterface) error {
					pushed = msgs
					return pushErr
				})

			h.router.Route(context.Background(), userEvent("スープに原因がありますか？"))

			assert.Equal(t, "はい、核心です！", onlyText(t, *got))
			assert.Contains(t, onlyText(t, pushed), msgGameSolved)
			assert.Contains(t, onlyText(t, pushed), "secret")
			assert.Equal(t, 0, h.router.Sessions().Len())
		})
	}
}

func TestQuestionTurn_EndGameWaitsForTurn(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.router.Sessions().Put(testUser, Session{Puzzle: "p", Answer: "secret"})

	entered := make(chan struct{})
	release := make(chan struct{})
	h.assistant.EXPECT().ClassifyYesNo(gomock.Any(), gomock.Any(), "secret").
		DoAndReturn(func(context.Context, string, string) (string, error) {
			close(entered)
			<-release
			return "いいえ", nil
		})

	var mu sync.Mutex
	var order []string
	h.messenger.EXPECT().Reply(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, token string, _ []messaging_api.MessageInterface) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, token)
			return nil
		}).Times(2)

	var wg sync.WaitGroup
	wg.Go(func() {
		ev := userEvent("男は船乗りですか？")
		ev.ReplyToken = "question"
		h.router.Route(context.Background(), ev)
	})
	<-entered

	var ended atomic.Bool
	wg.Go(func() {
		ev := userEvent(TriggerGameEnd)
		ev.ReplyToken = "end"
		h.router.Route(context.Background(), ev)
		ended.Store(true)
	})

	time.Sleep(30 * time.Millisecond)
	assert.False(t, ended.Load(), "end command must wait for the in-flight question turn")

	close(release)
	wg.Wait()

	assert.Equal(t, []string{"question", "end"}, order)
	assert.Equal(t, 0, h.router.Sessions().Len())
}
