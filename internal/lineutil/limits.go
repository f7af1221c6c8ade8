package lineutil

// LINE API Character Limits (Rune count)
// References: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength = 5000 // Text message max content length
	MaxAltTextLength     = 400  // Template/Flex message alt text length
	MaxPostbackData      = 300  // Postback action data length
	MaxSenderNameLength  = 20   // Sender display name

	// Template Message Limits
	MaxTemplateTitleLength = 40  // Buttons template title
	MaxTemplateTextNoImage = 160 // Buttons template text without image
	MaxConfirmTextLength   = 240 // Confirm template text
	MaxTemplateActionCount = 4   // Max actions per buttons template

	// Quick Reply Limits
	MaxQuickReplyItemCount = 13 // Max items in a quick reply
	MaxQuickReplyLabel     = 20 // Max label length for quick reply item

	// MaxMessagesPerReply is the number of messages one reply or push may carry.
	MaxMessagesPerReply = 5
)
