// Package weather renders Open-Meteo daily forecasts as Japanese reply text.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/garyellow/umigame-linebot-go/internal/httpclient"
)

const (
	// DefaultGeocodingURL is the Open-Meteo geocoding search endpoint.
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	// DefaultForecastURL is the Open-Meteo forecast endpoint.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	forecastDays = 2
	timezone     = "Asia/Tokyo"
)

// DefaultLocations is the summary location list.
var DefaultLocations = []string{"東京", "大阪", "名古屋", "札幌", "福岡"}

// ErrLocationNotFound is returned when geocoding has no match.
var ErrLocationNotFound = errors.New("location not found")

// Client looks up forecasts by place name.
type Client struct {
	http         *httpclient.Client
	geocodingURL string
	forecastURL  string
	locations    []string
}

// Config holds Client settings. Empty fields select defaults.
type Config struct {
	GeocodingURL string
	ForecastURL  string
	Locations    []string
}

// NewClient creates a weather client.
func NewClient(hc *httpclient.Client, cfg Config) *Client {
	if cfg.GeocodingURL == "" {
		cfg.GeocodingURL = DefaultGeocodingURL
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if len(cfg.Locations) == 0 {
		cfg.Locations = DefaultLocations
	}
	return &Client{
		http:         hc,
		geocodingURL: cfg.GeocodingURL,
		forecastURL:  cfg.ForecastURL,
		locations:    cfg.Locations,
	}
}

// Lookup returns a two-day forecast for one place.
func (c *Client) Lookup(ctx context.Context, location string) (string, error) {
	place, days, err := c.fetch(ctx, location)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📍 " + place.label() + "\n")
	for i, d := range days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.line(dayLabels[min(i, len(dayLabels)-1)]))
	}
	return b.String(), nil
}

// Summary returns today's forecast for every configured location, in order.
// Locations that fail are listed with an inline notice.
func (c *Client) Summary(ctx context.Context) (string, error) {
	lines := make([]string, len(c.locations))

	var g errgroup.Group
	g.SetLimit(4)
	for i, loc := range c.locations {
		g.Go(func() error {
			_, days, err := c.fetch(ctx, loc)
			if err != nil || len(days) == 0 {
				slog.WarnContext(ctx, "weather summary entry failed",
					"location", loc,
					"error", err)
				lines[i] = loc + ": 取得できませんでした"
				return nil
			}
			d := days[0]
			lines[i] = fmt.Sprintf("%s: %s %s %s", loc, d.Emoji, d.Label, d.temps())
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "🗾 今日の天気\n" + strings.Join(lines, "\n"), nil
}

func (c *Client) fetch(ctx context.Context, location string) (place, []Day, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return place{}, nil, ErrLocationNotFound
	}

	p, err := c.geocode(ctx, location)
	if err != nil {
		return place{}, nil, err
	}
	days, err := c.forecast(ctx, p)
	if err != nil {
		return place{}, nil, err
	}
	return p, days, nil
}

func (c *Client) geocode(ctx context.Context, location string) (place, error) {
	q := url.Values{}
	q.Set("name", location)
	q.Set("count", "1")
	q.Set("language", "ja")
	q.Set("format", "json")

	var resp geocodingResponse
	if err := c.http.GetJSON(ctx, c.geocodingURL+"?"+q.Encode(), &resp); err != nil {
		if httpclient.IsNotFound(err) {
			return place{}, fmt.Errorf("%w: %s: %w", ErrLocationNotFound, location, err)
		}
		return place{}, fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(resp.Results) == 0 {
		return place{}, fmt.Errorf("%w: %s", ErrLocationNotFound, location)
	}
	return resp.Results[0], nil
}

func (c *Client) forecast(ctx context.Context, p place) ([]Day, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(p.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(p.Longitude, 'f', 4, 64))
	q.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max")
	q.Set("timezone", timezone)
	q.Set("forecast_days", strconv.Itoa(forecastDays))

	var resp forecastResponse
	if err := c.http.GetJSON(ctx, c.forecastURL+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("forecast %s: %w", p.Name, err)
	}
	return resp.Daily.days(), nil
}
