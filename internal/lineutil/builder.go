// Package lineutil provides utility functions for building LINE messages and actions.
package lineutil

import (
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// QuickReplyItem represents an item in a quick reply.
type QuickReplyItem struct {
	ImageURL string
	Action   messaging_api.ActionInterface
}

// Action is an alias for the LINE SDK action interface for convenience.
type Action = messaging_api.ActionInterface

// NewTextMessage creates a simple text message without sender information.
// LINE API limits: max 5000 characters per text message
func NewTextMessage(text string) *messaging_api.TextMessage {
	return &messaging_api.TextMessage{
		Text: clampRunes(text, MaxTextMessageLength),
	}
}

// NewButtonsTemplate creates a buttons template message.
// The altText is displayed in push notifications and chat lists.
// LINE API limits: max 4 actions, text max 160 chars, title max 40 chars
func NewButtonsTemplate(altText, title, text string, actions []Action) messaging_api.MessageInterface {
	if len(actions) > MaxTemplateActionCount {
		actions = actions[:MaxTemplateActionCount]
	}

	template := &messaging_api.ButtonsTemplate{
		Text:    clampRunes(text, MaxTemplateTextNoImage),
		Actions: actions,
	}
	if title != "" {
		template.Title = clampRunes(title, MaxTemplateTitleLength)
	}

	return &messaging_api.TemplateMessage{
		AltText:  clampRunes(altText, MaxAltTextLength),
		Template: template,
	}
}

// NewConfirmTemplate creates a confirmation template with two buttons.
func NewConfirmTemplate(altText, text string, yesAction, noAction Action) messaging_api.MessageInterface {
	return &messaging_api.TemplateMessage{
		AltText: clampRunes(altText, MaxAltTextLength),
		Template: &messaging_api.ConfirmTemplate{
			Text:    clampRunes(text, MaxConfirmTextLength),
			Actions: []messaging_api.ActionInterface{yesAction, noAction},
		},
	}
}

// NewQuickReply creates a quick reply component.
// LINE API limits: max 13 items, labels max 20 chars
func NewQuickReply(items []QuickReplyItem) *messaging_api.QuickReply {
	if len(items) > MaxQuickReplyItemCount {
		items = items[:MaxQuickReplyItemCount]
	}

	quickReplyItems := make([]messaging_api.QuickReplyItem, len(items))
	for i, item := range items {
		switch a := item.Action.(type) {
		case *messaging_api.MessageAction:
			a.Label = clampRunes(a.Label, MaxQuickReplyLabel)
		case *messaging_api.PostbackAction:
			a.Label = clampRunes(a.Label, MaxQuickReplyLabel)
		}
		qrItem := messaging_api.QuickReplyItem{
			Action: item.Action,
		}
		if item.ImageURL != "" {
			qrItem.ImageUrl = item.ImageURL
		}
		quickReplyItems[i] = qrItem
	}

	return &messaging_api.QuickReply{
		Items: quickReplyItems,
	}
}

// NewMessageAction creates an action that sends text as the user when tapped.
func NewMessageAction(label, text string) Action {
	return &messaging_api.MessageAction{
		Label: label,
		Text:  text,
	}
}

// NewPostbackActionWithDisplayText creates a postback action that also echoes
// displayText into the chat.
func NewPostbackActionWithDisplayText(label, displayText, data string) Action {
	return &messaging_api.PostbackAction{
		Label:       label,
		DisplayText: displayText,
		Data:        data,
	}
}

// NewFlexMessage creates a flex message with the given alt text and flex container.
func NewFlexMessage(altText string, contents messaging_api.FlexContainerInterface) *messaging_api.FlexMessage {
	return &messaging_api.FlexMessage{
		AltText:  clampRunes(altText, MaxAltTextLength),
		Contents: contents,
	}
}

// SetSender sets the Sender field on a message and returns it.
// Supports: TextMessage, FlexMessage, TemplateMessage
func SetSender(msg messaging_api.MessageInterface, sender *messaging_api.Sender) messaging_api.MessageInterface {
	if sender == nil {
		return msg
	}

	switch m := msg.(type) {
	case *messaging_api.TextMessage:
		m.Sender = sender
	case *messaging_api.FlexMessage:
		m.Sender = sender
	case *messaging_api.TemplateMessage:
		m.Sender = sender
	}

	return msg
}

// AddQuickReplyToMessages attaches quick reply items to the last message in a slice.
// No-op when the slice is empty or the last message does not support quick replies.
func AddQuickReplyToMessages(messages []messaging_api.MessageInterface, items ...QuickReplyItem) {
	if len(messages) == 0 || len(items) == 0 {
		return
	}
	qr := NewQuickReply(items)
	switch m := messages[len(messages)-1].(type) {
	case *messaging_api.TextMessage:
		m.QuickReply = qr
	case *messaging_api.FlexMessage:
		m.QuickReply = qr
	case *messaging_api.TemplateMessage:
		m.QuickReply = qr
	}
}

// clampRunes keeps text within limit runes, marking truncation with "...".
func clampRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return TruncateRunes(text, limit)
}
