package bot

import (
	"context"

	"github.com/garyellow/umigame-linebot-go/internal/creature"
	"github.com/garyellow/umigame-linebot-go/internal/genai"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_collaborators.go github.com/garyellow/umigame-linebot-go/internal/bot Messenger,Assistant

// Messenger delivers messages to the chat platform.
type Messenger interface {
	Reply(ctx context.Context, replyToken string, msgs []messaging_api.MessageInterface) error
	Push(ctx context.Context, to string, msgs []messaging_api.MessageInterface) error
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Assistant is the conversational completion provider. Every error it returns
// is an *errors.ProviderError.
type Assistant interface {
	CompleteChat(ctx context.Context, system, text string) (string, error)
	ClassifyYesNo(ctx context.Context, question, secret string) (string, error)
	GeneratePuzzle(ctx context.Context) (genai.Puzzle, error)
	SuggestMeal(ctx context.Context) (genai.Meal, error)
}

// WeatherProvider renders forecasts as reply-ready text.
type WeatherProvider interface {
	Lookup(ctx context.Context, location string) (string, error)
	Summary(ctx context.Context) (string, error)
}

// CreatureProvider picks a random creature for the pokedex card.
type CreatureProvider interface {
	Random(ctx context.Context) (creature.Creature, error)
}

// FeedbackStore persists meal suggestion ratings.
type FeedbackStore interface {
	SaveMealFeedback(ctx context.Context, trackingID, userID, rating string) error
}
