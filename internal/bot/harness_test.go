package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/garyellow/umigame-linebot-go/internal/bot/mocks"
	"github.com/garyellow/umigame-linebot-go/internal/creature"
	"github.com/garyellow/umigame-linebot-go/internal/janken"
)

const (
	testUser  = "U1234567890abcdef"
	testToken = "reply-token-0123456789"
)

type fakeWeather struct {
	mu           sync.Mutex
	lookups      []string
	summaryCalls int
	text         string
	err          error
}

func (f *fakeWeather) Lookup(_ context.Context, location string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, location)
	return f.text, f.err
}

func (f *fakeWeather) Summary(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	return f.text, f.err
}

type fakeCreatures struct {
	creature creature.Creature
	err      error
}

func (f *fakeCreatures) Random(context.Context) (creature.Creature, error) {
	return f.creature, f.err
}

type savedFeedback struct {
	trackingID, userID, rating string
}

type fakeFeedback struct {
	mu    sync.Mutex
	saved []savedFeedback
	err   error
}

func (f *fakeFeedback) SaveMealFeedback(_ context.Context, trackingID, userID, rating string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, savedFeedback{trackingID, userID, rating})
	return f.err
}

type fakeLimiter struct {
	allow bool
	keys  []string
}

func (f *fakeLimiter) Allow(key string) bool {
	f.keys = append(f.keys, key)
	return f.allow
}

type harness struct {
	messenger *mocks.MockMessenger
	assistant *mocks.MockAssistant
	weather   *fakeWeather
	creatures *fakeCreatures
	feedback  *fakeFeedback
	limiter   *fakeLimiter
	router    *Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		messenger: mocks.NewMockMessenger(ctrl),
		assistant: mocks.NewMockAssistant(ctrl),
		weather:   &fakeWeather{},
		creatures: &fakeCreatures{},
		feedback:  &fakeFeedback{},
		limiter:   &fakeLimiter{allow: true},
	}
	h.router = NewRouter(RouterConfig{
		Messenger:  h.messenger,
		Assistant:  h.assistant,
		Weather:    h.weather,
		Creatures:  h.creatures,
		Feedback:   h.feedback,
		LLMLimiter: h.limiter,
	})
	h.router.now = func() time.Time { return time.Date(2026, 3, 1, 12, 34, 56, 0, time.UTC) }
	h.router.randomHand = func() janken.Hand { return janken.Scissors }
	return h
}

// captureReply expects one Reply on token and records its messages.
func (h *harness) captureReply(token string) *[]messaging_api.MessageInterface {
	var got []messaging_api.MessageInterface
	h.messenger.EXPECT().Reply(gomock.Any(), token, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msgs []messaging_api.MessageInterface) error {
			got = msgs
			return nil
		})
	return &got
}

func userEvent(text string) MessageEvent {
	return MessageEvent{
		EventID:    "evt-1",
		ReplyToken: testToken,
		Source:     Source{UserID: testUser, ChatID: testUser, Personal: true},
		Text:       text,
	}
}

func anonymousEvent(text string) MessageEvent {
	return MessageEvent{
		EventID:    "evt-2",
		ReplyToken: testToken,
		Source:     Source{ChatID: "C-group"},
		Text:       text,
	}
}

func postback(data string) PostbackEvent {
	return PostbackEvent{
		EventID:    "evt-3",
		ReplyToken: testToken,
		Source:     Source{UserID: testUser, ChatID: testUser, Personal: true},
		Data:       data,
	}
}

func textOf(t *testing.T, msg messaging_api.MessageInterface) string {
	t.Helper()
	tm, ok := msg.(*messaging_api.TextMessage)
	require.True(t, ok, "expected *TextMessage, got %T", msg)
	return tm.Text
}

func onlyText(t *testing.T, msgs []messaging_api.MessageInterface) string {
	t.Helper()
	require.Len(t, msgs, 1)
	return textOf(t, msgs[0])
}
