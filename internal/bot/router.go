package bot

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/umigame-linebot-go/internal/ctxutil"
	"github.com/garyellow/umigame-linebot-go/internal/janken"
	"github.com/garyellow/umigame-linebot-go/internal/lineutil"
	"github.com/garyellow/umigame-linebot-go/internal/logger"
	"github.com/garyellow/umigame-linebot-go/internal/metrics"
)

// Intent is the handler chosen for one text message.
type Intent int

const (
	IntentChat Intent = iota
	IntentGameStart
	IntentGameEnd
	IntentQuestion
	IntentPushTest
	IntentWeather
	IntentJanken
	IntentMeal
	IntentCreature
)

var intentNames = map[Intent]string{
	IntentChat:      "chat",
	IntentGameStart: "game_start",
	IntentGameEnd:   "game_end",
	IntentQuestion:  "question",
	IntentPushTest:  "push_test",
	IntentWeather:   "weather",
	IntentJanken:    "janken",
	IntentMeal:      "meal",
	IntentCreature:  "creature",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

// Classify picks the intent for whitespace-trimmed text. The first matching
// rule wins; while a game session is active every non-trigger message is a
// question turn.
func Classify(text string, hasSession bool) Intent {
	switch {
	case text == TriggerGameStart:
		return IntentGameStart
	case text == TriggerGameEnd:
		return IntentGameEnd
	case hasSession:
		return IntentQuestion
	case text == TriggerPushTest:
		return IntentPushTest
	case strings.Contains(text, KeywordWeather):
		return IntentWeather
	case text == TriggerJanken:
		return IntentJanken
	case text == TriggerMeal:
		return IntentMeal
	case text == TriggerCreature:
		return IntentCreature
	default:
		return IntentChat
	}
}

// KeyLimiter is a per-key allowance check, e.g. *ratelimit.KeyedLimiter.
type KeyLimiter interface {
	Allow(key string) bool
}

// RouterConfig holds the Router's collaborators. Weather, Creatures,
// Feedback, LLMLimiter, Metrics and Logger are optional.
type RouterConfig struct {
	Messenger  Messenger
	Assistant  Assistant
	Weather    WeatherProvider
	Creatures  CreatureProvider
	Feedback   FeedbackStore
	Sessions   *SessionStore
	LLMLimiter KeyLimiter
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
}

// Router turns inbound events into replies.
type Router struct {
	messenger  Messenger
	assistant  Assistant
	weather    WeatherProvider
	creatures  CreatureProvider
	feedback   FeedbackStore
	sessions   *SessionStore
	llmLimiter KeyLimiter
	metrics    *metrics.Metrics
	logger     *logger.Logger
	dispatch   *Dispatcher

	now        func() time.Time
	randomHand func() janken.Hand
}

// NewRouter creates a Router.
func NewRouter(cfg RouterConfig) *Router {
	log := cfg.Logger
	if log == nil {
		log = logger.NewWithWriter("error", io.Discard)
	}
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = NewSessionStore()
	}
	return &Router{
		messenger:  cfg.Messenger,
		assistant:  cfg.Assistant,
		weather:    cfg.Weather,
		creatures:  cfg.Creatures,
		feedback:   cfg.Feedback,
		sessions:   sessions,
		llmLimiter: cfg.LLMLimiter,
		metrics:    cfg.Metrics,
		logger:     log.WithModule("router"),
		dispatch:   NewDispatcher(cfg.Messenger, cfg.Metrics, log),
		now:        time.Now,
		randomHand: janken.RandomHand,
	}
}

// Sessions returns the router's session store.
func (r *Router) Sessions() *SessionStore {
	return r.sessions
}

// Route handles one text message. All outcomes are delivered as replies;
// nothing is returned. Text that is blank after trimming gets no reply, no
// intent metric and no session lock.
func (r *Router) Route(ctx context.Context, ev MessageEvent) {
	ctx = withSource(ctx, ev.Source)
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		r.logger.DebugContext(ctx, "blank text ignored")
		return
	}

	userID := ev.Source.UserID
	var session Session
	var hasSession bool
	if ev.Source.HasUser() {
		unlock := r.sessions.Lock(userID)
		defer unlock()
		session, hasSession = r.sessions.Get(userID)
	}

	intent := Classify(text, hasSession)
	r.metrics.RecordIntent(intent.String())
	r.logger.DebugContext(ctx, "routing message", "intent", intent.String())

	switch intent {
	case IntentGameStart:
		r.startGame(ctx, ev)
	case IntentGameEnd:
		r.endGame(ctx, ev)
	case IntentQuestion:
		r.askQuestion(ctx, ev, text, session)
	case IntentPushTest:
		r.pushTest(ctx, ev)
	case IntentWeather:
		r.handleWeather(ctx, ev, text)
	case IntentJanken:
		r.handleJanken(ctx, ev)
	case IntentMeal:
		r.handleMeal(ctx, ev)
	case IntentCreature:
		r.handleCreature(ctx, ev)
	default:
		r.handleChat(ctx, ev, text)
	}
}

// RoutePostback handles a button tap. Unknown postback tags get no reply.
func (r *Router) RoutePostback(ctx context.Context, ev PostbackEvent) {
	ctx = withSource(ctx, ev.Source)
	data := strings.TrimSpace(ev.Data)
	if data == "" || len(data) > lineutil.MaxPostbackData {
		r.logger.WarnContext(ctx, "invalid postback data", "length", len(data))
		return
	}

	parts := strings.Split(data, PostbackSplitChar)
	switch parts[0] {
	case postbackJanken:
		if len(parts) != 2 {
			r.logger.WarnContext(ctx, "malformed janken postback", "data", data)
			return
		}
		r.playJanken(ctx, ev, parts[1])
	case postbackMeal:
		if len(parts) != 3 {
			r.logger.WarnContext(ctx, "malformed meal postback", "data", data)
			return
		}
		r.rateMeal(ctx, ev, parts[1], parts[2])
	default:
		r.logger.DebugContext(ctx, "ignoring unknown postback", "data", data)
	}
}

// Welcome greets a user who added the bot as a friend.
func (r *Router) Welcome(ctx context.Context, replyToken string, src Source) {
	ctx = withSource(ctx, src)
	msg := lineutil.NewTextMessageWithSender(msgWelcome, lineutil.NewSender(senderSystem, ""))
	msgs := []messaging_api.MessageInterface{msg}
	lineutil.AddQuickReplyToMessages(msgs, commandQuickReplies()...)
	r.dispatch.Send(ctx, replyToken, src.UserID, msgs)
}

// RateLimited tells a sender that they are sending too fast.
func (r *Router) RateLimited(ctx context.Context, replyToken string, src Source) {
	r.reply(withSource(ctx, src), replyToken, src, senderSystem, msgRateLimited)
}

// reply sends a single text message under sender.
func (r *Router) reply(ctx context.Context, replyToken string, src Source, sender, text string) {
	msg := lineutil.NewTextMessageWithSender(text, lineutil.NewSender(sender, ""))
	r.dispatch.Send(ctx, replyToken, src.UserID, []messaging_api.MessageInterface{msg})
}

// allowLLM consumes one provider-call token for src.
func (r *Router) allowLLM(src Source) bool {
	if r.llmLimiter == nil {
		return true
	}
	return r.llmLimiter.Allow(src.RateKey())
}

func commandQuickReplies() []lineutil.QuickReplyItem {
	triggers := []string{TriggerGameStart, TriggerJanken, TriggerMeal, TriggerCreature, "東京の天気"}
	items := make([]lineutil.QuickReplyItem, len(triggers))
	for i, t := range triggers {
		items[i] = lineutil.QuickReplyItem{Action: lineutil.NewMessageAction(t, t)}
	}
	return items
}

func withSource(ctx context.Context, src Source) context.Context {
	if src.UserID != "" {
		ctx = ctxutil.WithUserID(ctx, src.UserID)
	}
	if src.ChatID != "" {
		ctx = ctxutil.WithChatID(ctx, src.ChatID)
	}
	return ctx
}
