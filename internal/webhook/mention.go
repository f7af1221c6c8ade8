package webhook

import (
	"cmp"
	"slices"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// span is a rune range of the message text.
type span struct {
	index  int
	length int
}

// botMentionSpans returns the ranges where the bot itself is mentioned.
func botMentionSpans(mention *webhook.Mention) []span {
	if mention == nil {
		return nil
	}

	var spans []span
	for _, m := range mention.Mentionees {
		if um, ok := m.(webhook.UserMentionee); ok && um.IsSelf {
			spans = append(spans, span{index: int(um.Index), length: int(um.Length)})
		}
	}
	return spans
}

// removeBotMentions deletes every "@bot" span from text so that a group
// member can write "@bot ウミガメのスープ" and still hit the trigger.
// Indices count characters, so the text is edited as runes from back to front.
func removeBotMentions(text string, mention *webhook.Mention) string {
	spans := botMentionSpans(mention)
	if len(spans) == 0 {
		return text
	}

	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Compare(b.index, a.index)
	})

	runes := []rune(text)
	for _, s := range spans {
		start := max(s.index, 0)
		end := min(s.index+s.length, len(runes))
		if start >= end {
			continue
		}
		runes = append(runes[:start], runes[end:]...)
	}

	return collapseSpaces(string(runes))
}

// collapseSpaces joins whitespace-separated fields with single spaces.
// Full-width spaces count as whitespace.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
