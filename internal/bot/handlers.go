package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/umigame-linebot-go/internal/creature"
	"github.com/garyellow/umigame-linebot-go/internal/janken"
	"github.com/garyellow/umigame-linebot-go/internal/lineutil"
)

// CreatureFallbackImageURL is shown when a creature has no artwork.
const CreatureFallbackImageURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/items/poke-ball.png"

// pushTest pushes a timestamped message to the sender, then confirms by reply.
func (r *Router) pushTest(ctx context.Context, ev MessageEvent) {
	if !ev.Source.HasUser() {
		r.reply(ctx, ev.ReplyToken, ev.Source, senderSystem, msgPushNoUser)
		return
	}

	body := fmt.Sprintf(msgPushBody, r.now().Format(msgPushTimeFmt))
	push := []messaging_api.MessageInterface{
		lineutil.NewTextMessageWithSender(body, lineutil.NewSender(senderSystem, "")),
	}
	if err := r.messenger.Push(ctx, ev.Source.UserID, push); err != nil {
		r.logger.WarnContext(ctx, "push test failed", "error", err)
	}
	r.reply(ctx, ev.ReplyToken, ev.Source, senderSystem, msgPushSent)
}

// handleWeather looks up "<location>の天気", or the multi-location summary
// when no location is named.
func (r *Router) handleWeather(ctx context.Context, ev MessageEvent, text string) {
	if r.weather == nil {
		r.reply(ctx, ev.ReplyToken, ev.Source, senderWeather, msgWeatherFailed)
		return
	}

	var (
		forecast string
		err      error
	)
	if location := ExtractWeatherLocation(text); location != "" {
		forecast, err = r.weather.Lookup(ctx, location)
	} else {
		forecast, err = r.weather.Summary(ctx)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "weather lookup failed", "error", err)
		r.reply(ctx, ev.ReplyToken, ev.Source, senderWeather, msgWeatherFailed)
		return
	}
	r.reply(ctx, ev.ReplyToken, ev.Source, senderWeather, forecast)
}

// handleJanken shows the hand menu.
func (r *Router) handleJanken(ctx context.Context, ev MessageEvent) {
	actions := make([]lineutil.Action, 0, len(janken.Hands))
	for _, h := range janken.Hands {
		actions = append(actions, lineutil.NewPostbackActionWithDisplayText(
			h.String(),
			h.Glyph(),
			postbackJanken+PostbackSplitChar+h.Glyph(),
		))
	}
	msg := lineutil.NewButtonsTemplate(msgJankenMenuTitle, msgJankenMenuTitle, msgJankenMenuText, actions)
	lineutil.SetSender(msg, lineutil.NewSender(senderJanken, ""))
	r.dispatch.Send(ctx, ev.ReplyToken, ev.Source.UserID, []messaging_api.MessageInterface{msg})
}

// playJanken judges the user's hand against a random bot hand.
func (r *Router) playJanken(ctx context.Context, ev PostbackEvent, token string) {
	hand, err := janken.ParseHand(token)
	if err != nil {
		var invalid *janken.InvalidHandError
		if errors.As(err, &invalid) {
			r.reply(ctx, ev.ReplyToken, ev.Source, senderJanken, fmt.Sprintf(msgJankenInvalid, invalid.Token))
		}
		return
	}

	botHand := r.randomHand()
	outcome, err := janken.Judge(hand, botHand)
	if err != nil {
		r.logger.ErrorContext(ctx, "janken judge failed", "error", err)
		r.reply(ctx, ev.ReplyToken, ev.Source, senderJanken, fmt.Sprintf(msgJankenInvalid, token))
		return
	}
	r.metrics.RecordGameResult("janken", outcome.String())

	lines := []string{
		fmt.Sprintf(msgJankenUserLine, r.displayName(ctx, ev.Source), hand),
		fmt.Sprintf(msgJankenBotLine, botHand),
		fmt.Sprintf(msgJankenResult, outcome.Label()),
	}
	r.reply(ctx, ev.ReplyToken, ev.Source, senderJanken, strings.Join(lines, "\n"))
}

// displayName resolves the sender's profile name, falling back to AnonymousName.
func (r *Router) displayName(ctx context.Context, src Source) string {
	if !src.HasUser() {
		return AnonymousName
	}
	name, err := r.messenger.DisplayName(ctx, src.UserID)
	if err != nil {
		r.logger.DebugContext(ctx, "display name lookup failed", "error", err)
		return AnonymousName
	}
	if strings.TrimSpace(name) == "" {
		return AnonymousName
	}
	return name
}

// handleMeal suggests a meal and asks for feedback on it.
func (r *Router) handleMeal(ctx context.Context, ev MessageEvent) {
	if !r.allowLLM(ev.Source) {
		r.reply(ctx, ev.ReplyToken, ev.Source, senderMeal, msgRateLimited)
		return
	}

	meal, err := r.assistant.SuggestMeal(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "meal suggestion failed", "error", err)
		r.reply(ctx, ev.ReplyToken, ev.Source, senderMeal, msgMealFailed)
		return
	}

	sender := lineutil.NewSender(senderMeal, "")
	data := func(rating string) string {
		return strings.Join([]string{postbackMeal, rating, meal.TrackingID}, PostbackSplitChar)
	}
	confirm := lineutil.NewConfirmTemplate(msgMealAltText, msgMealAsk,
		lineutil.NewPostbackActionWithDisplayText(msgMealGood, msgMealGood, data(ratingGood)),
		lineutil.NewPostbackActionWithDisplayText(msgMealBad, msgMealBad, data(ratingBad)),
	)
	msgs := []messaging_api.MessageInterface{
		lineutil.NewTextMessageWithSender(meal.Text, sender),
		lineutil.SetSender(confirm, sender),
	}
	r.dispatch.Send(ctx, ev.ReplyToken, ev.Source.UserID, msgs)
}

// rateMeal stores a feedback tap and thanks the user.
func (r *Router) rateMeal(ctx context.Context, ev PostbackEvent, rating, trackingID string) {
	if (rating != ratingGood && rating != ratingBad) || trackingID == "" {
		r.logger.WarnContext(ctx, "invalid meal feedback", "rating", rating)
		return
	}
	r.metrics.RecordMealFeedback(rating)

	if r.feedback != nil {
		if err := r.feedback.SaveMealFeedback(ctx, trackingID, ev.Source.UserID, rating); err != nil {
			r.logger.ErrorContext(ctx, "failed to save meal feedback",
				"tracking_id", trackingID,
				"error", err)
		}
	}
	r.reply(ctx, ev.ReplyToken, ev.Source, senderMeal, msgMealThanks)
}

// handleCreature shows a random pokedex card.
func (r *Router) handleCreature(ctx context.Context, ev MessageEvent) {
	if r.creatures == nil {
		r.reply(ctx, ev.ReplyToken, ev.Source, senderCreature, msgCreatureFailed)
		return
	}

	c, err := r.creatures.Random(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "creature lookup failed", "error", err)
		r.reply(ctx, ev.ReplyToken, ev.Source, senderCreature, msgCreatureFailed)
		return
	}

	msg := lineutil.NewFlexMessage(fmt.Sprintf(msgCreatureAltText, c.ID, c.Name), buildCreatureBubble(c).FlexBubble)
	lineutil.SetSender(msg, lineutil.NewSender(senderCreature, ""))
	r.dispatch.Send(ctx, ev.ReplyToken, ev.Source.UserID, []messaging_api.MessageInterface{msg})
}

// buildCreatureBubble renders the pokedex card:
//
//	┌──────────────────────┐
//	│ [artwork]            │
//	│ No.025               │
//	│ ピカチュウ            │
//	│ 🏷️ タイプ: でんき      │
//	│ 🔁 進化: ピチュー → …  │
//	└──────────────────────┘
func buildCreatureBubble(c creature.Creature) *lineutil.FlexBubble {
	imageURL := c.ImageURL
	if imageURL == "" {
		imageURL = CreatureFallbackImageURL
	}
	hero := lineutil.NewFlexImage(imageURL).
		WithAspectRatio("1:1").
		WithAspectMode("fit").
		WithBackgroundColor(lineutil.ColorWhite)

	types := strings.Join(c.Types, " / ")
	if types == "" {
		types = "-"
	}
	evolution := c.Evolution
	if evolution == "" {
		evolution = msgCreatureNoEvo
	}

	title := lineutil.NewFlexBox("vertical",
		lineutil.NewFlexText(fmt.Sprintf("No.%03d", c.ID)).WithSize("sm").WithColor(lineutil.ColorSubtext).FlexText,
		lineutil.NewFlexText(c.Name).WithWeight("bold").WithSize("xl").WithColor(lineutil.ColorText).WithWrap(true).FlexText,
	)
	body := lineutil.NewBodyContentBuilder().
		AddComponent(title.FlexBox).
		AddInfoRow("🏷️", msgCreatureTypes, types, lineutil.DefaultInfoRowStyle()).
		AddInfoRow("🔁", msgCreatureEvolve, evolution, lineutil.DefaultInfoRowStyle()).
		Build()

	return lineutil.NewFlexBubble(nil, hero.FlexImage, body, nil)
}

// handleChat answers free-form text with the chat persona.
func (r *Router) handleChat(ctx context.Context, ev MessageEvent, text string) {
	if !r.allowLLM(ev.Source) {
		r.reply(ctx, ev.ReplyToken, ev.Source, senderChat, msgRateLimited)
		return
	}

	answer, err := r.assistant.CompleteChat(ctx, ChatPersona, text)
	if err != nil {
		r.logger.WarnContext(ctx, "chat completion failed", "error", err)
		r.reply(ctx, ev.ReplyToken, ev.Source, senderChat, msgChatFailed)
		return
	}
	r.reply(ctx, ev.ReplyToken, ev.Source, senderChat, answer)
}
