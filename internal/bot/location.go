package bot

import "strings"

const weatherSuffix = "の" + KeywordWeather

// trailingParticles are stripped from the end of an extracted location,
// longest first so "だよ" wins over "よ".
var trailingParticles = []string{"って", "だよ", "だ", "さ", "ね", "よ", "は", "の"}

// timeWords name a time rather than a place.
var timeWords = []string{"明後日", "今日", "明日", "今週", "週末", "今", "いま"}

const locationSeparators = "、，,。 　\n"

// ExtractWeatherLocation pulls "<location>" out of "<location>の天気" style
// text. It returns "" when no place is named, in which case callers fall
// back to the multi-location summary.
func ExtractWeatherLocation(text string) string {
	idx := strings.LastIndex(text, weatherSuffix)
	if idx < 0 {
		return ""
	}
	loc := strings.TrimSpace(text[:idx])

	if i := strings.LastIndexAny(loc, locationSeparators); i >= 0 {
		loc = loc[i:]
		loc = strings.TrimLeft(loc, locationSeparators)
	}

	for _, w := range timeWords {
		if rest, ok := strings.CutPrefix(loc, w+"の"); ok {
			loc = rest
			break
		}
	}

	for {
		stripped := false
		for _, p := range trailingParticles {
			if rest, ok := strings.CutSuffix(loc, p); ok && rest != "" {
				loc = rest
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	for _, w := range timeWords {
		if loc == w {
			return ""
		}
	}
	return strings.TrimSpace(loc)
}
