package lineutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// TestNewTextMessage tests the 5000-rune LINE API limit
func TestNewTextMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantRunes int
		truncated bool
	}{
		{"short", "こんにちは", 5, false},
		{"exactly at limit", strings.Repeat("あ", 5000), 5000, false},
		{"over limit", strings.Repeat("あ", 5001), 5000, true},
		{"ascii over limit", strings.Repeat("a", 6000), 5000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg := NewTextMessage(tt.input)
			if got := utf8.RuneCountInString(msg.Text); got != tt.wantRunes {
				t.Errorf("rune count = %d, want %d", got, tt.wantRunes)
			}
			if strings.HasSuffix(msg.Text, "...") != tt.truncated {
				t.Errorf("truncated = %v, want %v", !tt.truncated, tt.truncated)
			}
		})
	}
}

func TestNewButtonsTemplate(t *testing.T) {
	t.Parallel()

	actions := []Action{
		NewPostbackActionWithDisplayText("1", "1", "a"),
		NewPostbackActionWithDisplayText("2", "2", "b"),
		NewPostbackActionWithDisplayText("3", "3", "c"),
		NewPostbackActionWithDisplayText("4", "4", "d"),
		NewPostbackActionWithDisplayText("5", "5", "e"),
	}
	msg := NewButtonsTemplate("alt", strings.Repeat("題", 50), "本文", actions)

	tm, ok := msg.(*messaging_api.TemplateMessage)
	if !ok {
		t.Fatalf("expected *TemplateMessage, got %T", msg)
	}
	bt, ok := tm.Template.(*messaging_api.ButtonsTemplate)
	if !ok {
		t.Fatalf("expected *ButtonsTemplate, got %T", tm.Template)
	}
	if len(bt.Actions) != MaxTemplateActionCount {
		t.Errorf("actions = %d, want %d", len(bt.Actions), MaxTemplateActionCount)
	}
	if n := utf8.RuneCountInString(bt.Title); n != MaxTemplateTitleLength {
		t.Errorf("title runes = %d, want %d", n, MaxTemplateTitleLength)
	}
	if bt.Text != "本文" {
		t.Errorf("text = %q", bt.Text)
	}
}

func TestNewConfirmTemplate(t *testing.T) {
	t.Parallel()

	yes := NewPostbackActionWithDisplayText("よかった", "よかった", "meal$good$1")
	no := NewPostbackActionWithDisplayText("いまいち", "いまいち", "meal$bad$1")
	msg := NewConfirmTemplate("alt", "どうでしたか？", yes, no)

	tm := msg.(*messaging_api.TemplateMessage)
	ct, ok := tm.Template.(*messaging_api.ConfirmTemplate)
	if !ok {
		t.Fatalf("expected *ConfirmTemplate, got %T", tm.Template)
	}
	if len(ct.Actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(ct.Actions))
	}
	if pb := ct.Actions[0].(*messaging_api.PostbackAction); pb.Data != "meal$good$1" {
		t.Errorf("yes data = %q", pb.Data)
	}
}

func TestNewQuickReply_Limit(t *testing.T) {
	t.Parallel()

	items := make([]QuickReplyItem, 20)
	for i := range items {
		items[i] = QuickReplyItem{Action: NewMessageAction("x", "x")}
	}
	qr := NewQuickReply(items)
	if len(qr.Items) != MaxQuickReplyItemCount {
		t.Errorf("items = %d, want %d", len(qr.Items), MaxQuickReplyItemCount)
	}
}

func TestNewQuickReply_ClampsLabels(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ス", 30)
	qr := NewQuickReply([]QuickReplyItem{
		{Action: NewMessageAction(long, "x")},
		{Action: NewPostbackActionWithDisplayText(long, "x", "janken$rock")},
	})
	msg := qr.Items[0].Action.(*messaging_api.MessageAction)
	if n := utf8.RuneCountInString(msg.Label); n != MaxQuickReplyLabel {
		t.Errorf("message label runes = %d, want %d", n, MaxQuickReplyLabel)
	}
	pb := qr.Items[1].Action.(*messaging_api.PostbackAction)
	if n := utf8.RuneCountInString(pb.Label); n != MaxQuickReplyLabel {
		t.Errorf("postback label runes = %d, want %d", n, MaxQuickReplyLabel)
	}
}

func TestSetSender(t *testing.T) {
	t.Parallel()

	sender := NewSender("ウミガメ", "")
	msgs := []messaging_api.MessageInterface{
		NewTextMessage("a"),
		NewFlexMessage("alt", NewFlexBubble(nil, nil, NewFlexBox("vertical"), nil).FlexBubble),
		NewButtonsTemplate("alt", "", "text", nil),
	}
	for _, m := range msgs {
		SetSender(m, sender)
	}

	if msgs[0].(*messaging_api.TextMessage).Sender != sender {
		t.Error("text message sender not set")
	}
	if msgs[1].(*messaging_api.FlexMessage).Sender != sender {
		t.Error("flex message sender not set")
	}
	if msgs[2].(*messaging_api.TemplateMessage).Sender != sender {
		t.Error("template message sender not set")
	}

	// nil sender is a no-op
	plain := NewTextMessage("b")
	SetSender(plain, nil)
	if plain.Sender != nil {
		t.Error("nil sender should leave message untouched")
	}
}

func TestAddQuickReplyToMessages(t *testing.T) {
	t.Parallel()

	first := NewTextMessage("1")
	last := NewTextMessage("2")
	AddQuickReplyToMessages([]messaging_api.MessageInterface{first, last},
		QuickReplyItem{Action: NewMessageAction("終了", "ウミガメ終了")})

	if first.QuickReply != nil {
		t.Error("only the last message should carry quick replies")
	}
	if last.QuickReply == nil || len(last.QuickReply.Items) != 1 {
		t.Fatal("last message should carry one quick reply item")
	}

	// empty inputs must not panic
	AddQuickReplyToMessages(nil, QuickReplyItem{})
	AddQuickReplyToMessages([]messaging_api.MessageInterface{first})
}

func TestNewSender_TruncatesName(t *testing.T) {
	t.Parallel()

	s := NewSender(strings.Repeat("名", 30), "https://example.com/icon.png")
	if n := utf8.RuneCountInString(s.Name); n != MaxSenderNameLength {
		t.Errorf("name runes = %d, want %d", n, MaxSenderNameLength)
	}
	if s.IconUrl != "https://example.com/icon.png" {
		t.Errorf("icon = %q", s.IconUrl)
	}
}
