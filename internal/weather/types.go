package weather

import (
	"fmt"
	"math"
	"strings"
)

var dayLabels = []string{"今日", "明日"}

type place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Admin1    string  `json:"admin1"`
	Country   string  `json:"country"`
}

func (p place) label() string {
	if p.Admin1 != "" && p.Admin1 != p.Name {
		return p.Name + "（" + p.Admin1 + "）"
	}
	return p.Name
}

type geocodingResponse struct {
	Results []place `json:"results"`
}

type dailyForecast struct {
	Time         []string   `json:"time"`
	WeatherCode  []int      `json:"weather_code"`
	TempMax      []float64  `json:"temperature_2m_max"`
	TempMin      []float64  `json:"temperature_2m_min"`
	PrecipChance []*float64 `json:"precipitation_probability_max"`
}

type forecastResponse struct {
	Daily dailyForecast `json:"daily"`
}

// Day is one day of forecast.
type Day struct {
	Date         string
	Emoji        string
	Label        string
	TempMax      float64
	TempMin      float64
	PrecipChance int // -1 when unknown
}

func (d dailyForecast) days() []Day {
	n := min(len(d.Time), len(d.WeatherCode), len(d.TempMax), len(d.TempMin))
	out := make([]Day, 0, n)
	for i := range n {
		emoji, label := Describe(d.WeatherCode[i])
		day := Day{
			Date:         d.Time[i],
			Emoji:        emoji,
			Label:        label,
			TempMax:      d.TempMax[i],
			TempMin:      d.TempMin[i],
			PrecipChance: -1,
		}
		if i < len(d.PrecipChance) && d.PrecipChance[i] != nil {
			day.PrecipChance = int(math.Round(*d.PrecipChance[i]))
		}
		out = append(out, day)
	}
	return out
}

func (d Day) temps() string {
	return fmt.Sprintf("%.0f℃ / %.0f℃", d.TempMax, d.TempMin)
}

// line renders "今日 (03/01): ☀️ 晴れ 12℃ / 3℃ ☔ 10%".
func (d Day) line(label string) string {
	var b strings.Builder
	b.WriteString(label)
	if len(d.Date) == len("2006-01-02") {
		b.WriteString(" (" + strings.ReplaceAll(d.Date[5:], "-", "/") + ")")
	}
	fmt.Fprintf(&b, ": %s %s %s", d.Emoji, d.Label, d.temps())
	if d.PrecipChance >= 0 {
		fmt.Fprintf(&b, " ☔ %d%%", d.PrecipChance)
	}
	return b.String()
}

// Describe maps a WMO weather interpretation code to an emoji and a Japanese label.
func Describe(code int) (emoji, label string) {
	switch {
	case code == 0:
		return "☀️", "快晴"
	case code == 1:
		return "🌤️", "晴れ"
	case code == 2:
		return "⛅", "一部曇り"
	case code == 3:
		return "☁️", "曇り"
	case code == 45 || code == 48:
		return "🌫️", "霧"
	case code >= 51 && code <= 57:
		return "🌦️", "霧雨"
	case code >= 61 && code <= 67:
		return "🌧️", "雨"
	case code >= 71 && code <= 77:
		return "❄️", "雪"
	case code >= 80 && code <= 82:
		return "🌧️", "にわか雨"
	case code == 85 || code == 86:
		return "🌨️", "にわか雪"
	case code >= 95:
		return "⛈️", "雷雨"
	default:
		return "❔", "不明"
	}
}
