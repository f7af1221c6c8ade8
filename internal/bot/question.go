package bot

import (
	"strings"
	"unicode/utf8"
)

// OpenQuestionMarkers are interrogatives that ask for content rather than a
// yes/no answer. Any occurrence makes a text an open question.
var OpenQuestionMarkers = []string{
	"何", "なに", "なんで", "なぜ", "どうして", "どう", "どこ", "だれ", "誰",
	"いつ", "どれ", "どの", "どんな", "いくら", "いくつ", "どのくらい", "どれくらい",
}

// ClosedQuestionEndings are sentence-final particles of a yes/no question.
var ClosedQuestionEndings = []string{
	"か", "か？", "か?", "かな", "かな？", "かな?", "の？", "の?", "よね？", "よね?",
}

// YesNoPhrases are fragments that expect a yes/no answer wherever they appear.
var YesNoPhrases = []string{
	"ありますか", "いますか", "できますか", "可能ですか", "知っていますか",
	"ことがある", "ことはある", "関係がある", "関係ある",
	"ですか", "ますか", "でしょうか",
}

// ShortQuestionMaxRunes bounds the catch-all rule for terse questions such as "男？".
const ShortQuestionMaxRunes = 20

// IsClosedQuestion reports whether text can be answered with yes or no.
// Open-question markers win over every other rule.
func IsClosedQuestion(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	for _, m := range OpenQuestionMarkers {
		if strings.Contains(text, m) {
			return false
		}
	}

	for _, e := range ClosedQuestionEndings {
		if strings.HasSuffix(text, e) {
			return true
		}
	}

	for _, p := range YesNoPhrases {
		if strings.Contains(text, p) {
			return true
		}
	}

	if utf8.RuneCountInString(text) <= ShortQuestionMaxRunes &&
		(strings.HasSuffix(text, "?") || strings.HasSuffix(text, "？")) {
		return true
	}

	return false
}

// IsAffirmative reports whether a yes/no answer opens with AffirmativeToken.
// Whatever follows the token (punctuation, emoji, an explanation) is ignored.
func IsAffirmative(answer string) bool {
	return strings.HasPrefix(strings.TrimSpace(answer), AffirmativeToken)
}
