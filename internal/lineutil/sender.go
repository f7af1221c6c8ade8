package lineutil

import "github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

// NewSender creates a sender shared by every message of one reply, so the
// whole reply shows the same name and avatar. iconURL may be empty.
//
//	sender := lineutil.NewSender("ウミガメ", "")
//	msg1 := lineutil.NewTextMessageWithSender("問題", sender)
//	msg2 := lineutil.NewTextMessageWithSender("ヒント", sender)
func NewSender(name, iconURL string) *messaging_api.Sender {
	return &messaging_api.Sender{
		Name:    TruncateRunes(name, MaxSenderNameLength),
		IconUrl: iconURL,
	}
}

// NewTextMessageWithSender creates a text message using a pre-created sender.
func NewTextMessageWithSender(text string, sender *messaging_api.Sender) *messaging_api.TextMessage {
	msg := NewTextMessage(text)
	msg.Sender = sender
	return msg
}
