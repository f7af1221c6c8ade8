// Package janken judges rock-paper-scissors rounds.
//
// Hands travel as their display glyph (✊, ✌️, ✋) in postback data, so the
// glyph is the canonical token accepted by ParseHand.
package janken

import (
	"fmt"
	"math/rand/v2"
)

// Hand is one of the three closed hand choices.
type Hand int

const (
	Rock Hand = iota + 1
	Scissors
	Paper
)

// Hands lists every valid hand in menu order.
var Hands = []Hand{Rock, Scissors, Paper}

// Outcome is the result of a round from the user's perspective.
type Outcome int

const (
	Draw Outcome = iota
	Win
	Lose
)

// beats maps each hand to the hand it defeats.
var beats = map[Hand]Hand{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

var glyphs = map[Hand]string{
	Rock:     "✊",
	Scissors: "✌️",
	Paper:    "✋",
}

var labels = map[Hand]string{
	Rock:     "グー",
	Scissors: "チョキ",
	Paper:    "パー",
}

// InvalidHandError is returned for tokens that are not one of the canonical glyphs.
type InvalidHandError struct {
	Token string
}

func (e *InvalidHandError) Error() string {
	return fmt.Sprintf("invalid hand %q", e.Token)
}

// Glyph returns the emoji used for the hand on the wire and in replies.
func (h Hand) Glyph() string {
	return glyphs[h]
}

// Label returns the Japanese name of the hand.
func (h Hand) Label() string {
	return labels[h]
}

// String renders the hand as "✊ グー".
func (h Hand) String() string {
	if !h.valid() {
		return fmt.Sprintf("Hand(%d)", int(h))
	}
	return h.Glyph() + " " + h.Label()
}

func (h Hand) valid() bool {
	_, ok := glyphs[h]
	return ok
}

// Label returns the Japanese result label.
func (o Outcome) Label() string {
	switch o {
	case Win:
		return "あなたの勝ち！🎉"
	case Lose:
		return "あなたの負け…😢"
	default:
		return "あいこ🤝"
	}
}

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "draw"
	}
}

// ParseHand resolves a glyph token. The variation selector on ✌️ is optional.
func ParseHand(token string) (Hand, error) {
	switch token {
	case "✊":
		return Rock, nil
	case "✌️", "✌":
		return Scissors, nil
	case "✋":
		return Paper, nil
	}
	return 0, &InvalidHandError{Token: token}
}

// Judge decides the round for user against bot. It is pure; the caller draws
// the bot hand.
func Judge(user, bot Hand) (Outcome, error) {
	if !user.valid() {
		return Draw, &InvalidHandError{Token: fmt.Sprint(int(user))}
	}
	if !bot.valid() {
		return Draw, &InvalidHandError{Token: fmt.Sprint(int(bot))}
	}
	switch {
	case user == bot:
		return Draw, nil
	case beats[user] == bot:
		return Win, nil
	default:
		return Lose, nil
	}
}

// RandomHand draws a hand uniformly.
func RandomHand() Hand {
	return Hands[rand.IntN(len(Hands))]
}
