package bot

// Source identifies where an inbound event came from. UserID is empty when the
// platform withholds it (for example a group member who has not added the bot).
type Source struct {
	UserID   string
	ChatID   string
	Personal bool
}

// HasUser reports whether the sender is identifiable.
func (s Source) HasUser() bool {
	return s.UserID != ""
}

// RateKey returns the key used for per-sender rate limiting.
func (s Source) RateKey() string {
	if s.UserID != "" {
		return s.UserID
	}
	return s.ChatID
}

// MessageEvent is a text message, already validated and normalized by the
// webhook layer.
type MessageEvent struct {
	EventID    string
	ReplyToken string
	Source     Source
	Text       string
}

// PostbackEvent is a button tap carrying postback data.
type PostbackEvent struct {
	EventID    string
	ReplyToken string
	Source     Source
	Data       string
}
