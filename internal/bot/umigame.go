package bot

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/umigame-linebot-go/internal/lineutil"
)

// startGame generates a new puzzle. An existing session is replaced.
// Without a user ID the puzzle is shown but no session is kept.
func (r *Router) startGame(ctx context.Context, ev MessageEvent) {
	if !r.allowLLM(ev.Source) {
		r.reply(ctx, ev.ReplyToken, ev.Source, senderUmigame, msgRateLimited)
		return
	}

	puzzle, err := r.assistant.GeneratePuzzle(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "puzzle generation failed", "error", err)
		r.reply(ctx, ev.ReplyToken, ev.Source, senderUmigame, msgPuzzleFailed)
		return
	}

	sender := lineutil.NewSender(senderUmigame, "")
	msgs := []messaging_api.MessageInterface{
		lineutil.NewTextMessageWithSender(fmt.Sprintf(msgGameIntro, puzzle.Question), sender),
	}

	if !ev.Source.HasUser() {
		r.logger.InfoContext(ctx, "game started without user ID; degraded mode")
		msgs = append(msgs, lineutil.NewTextMessageWithSender(msgGameDegraded, sender))
		r.dispatch.Send(ctx, ev.ReplyToken, "", msgs)
		return
	}

	r.sessions.Put(ev.Source.UserID, Session{Puzzle: puzzle.Question, Answer: puzzle.Answer})
	r.metrics.SetActiveSessions(r.sessions.Len())
	r.logger.InfoContext(ctx, "game started")

	lineutil.AddQuickReplyToMessages(msgs, lineutil.QuickReplyItem{
		Action: lineutil.NewMessageAction(TriggerGameEnd, TriggerGameEnd),
	})
	r.dispatch.Send(ctx, ev.ReplyToken, ev.Source.UserID, msgs)
}

// endGame drops the caller's session, if any.
func (r *Router) endGame(ctx context.Context, ev MessageEvent) {
	if ev.Source.HasUser() && r.sessions.Delete(ev.Source.UserID) {
		r.metrics.RecordGameResult("umigame", "quit")
		r.metrics.SetActiveSessions(r.sessions.Len())
		r.logger.InfoContext(ctx, "game ended by user")
	}
	r.reply(ctx, ev.ReplyToken, ev.Source, senderUmigame, msgGameEnded)
}

// askQuestion answers one closed question against the session's solution.
// Open questions are ignored. An affirmative answer ends the game.
func (r *Router) askQuestion(ctx context.Context, ev MessageEvent, text string, session Session) {
	if !IsClosedQuestion(text) {
		r.logger.DebugContext(ctx, "ignoring non-closed question", "text_runes", len([]rune(text)))
		return
	}

	if !r.allowLLM(ev.Source) {
		r.reply(ctx, ev.ReplyToken, ev.Source, senderUmigame, msgRateLimited)
		return
	}

	answer, err := r.assistant.ClassifyYesNo(ctx, text, session.Answer)
	if err != nil {
		r.logger.WarnContext(ctx, "yes/no classification failed", "error", err)
		r.reply(ctx, ev.ReplyToken, ev.Source, senderUmigame, msgAnswerFailed)
		return
	}

	r.reply(ctx, ev.ReplyToken, ev.Source, senderUmigame, answer)

	if !IsAffirmative(answer) {
		return
	}

	userID := ev.Source.UserID
	r.sessions.Delete(userID)
	r.metrics.RecordGameResult("umigame", "solved")
	r.metrics.SetActiveSessions(r.sessions.Len())
	r.logger.InfoContext(ctx, "game solved")

	sender := lineutil.NewSender(senderUmigame, "")
	congrats := []messaging_api.MessageInterface{
		lineutil.NewTextMessageWithSender(msgGameSolved+"\n\n"+fmt.Sprintf(msgGameReveal, session.Answer), sender),
	}
	if err := r.messenger.Push(ctx, userID, congrats); err != nil {
		r.logger.WarnContext(ctx, "congratulation push failed", "error", err)
	}
}
