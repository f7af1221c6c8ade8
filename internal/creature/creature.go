// Package creature looks up random Pokémon from PokeAPI with Japanese names,
// type labels and evolution chains.
package creature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/garyellow/umigame-linebot-go/internal/httpclient"
)

// DefaultBaseURL is the public PokeAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// MaxID is the highest national dex number picked by Random.
const MaxID = 1025

// ErrNotFound is returned when PokeAPI has no entry for the requested id.
var ErrNotFound = errors.New("creature not found")

// Creature is one pokedex entry, localized for display.
type Creature struct {
	ID        int
	Name      string
	Types     []string
	ImageURL  string
	Evolution string
}

// Client fetches creatures from PokeAPI.
type Client struct {
	http    *httpclient.Client
	baseURL string
	intN    func(n int) int
}

// NewClient creates a PokeAPI client. An empty baseURL selects DefaultBaseURL.
func NewClient(hc *httpclient.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		intN:    rand.IntN,
	}
}

// Random returns a uniformly chosen creature.
func (c *Client) Random(ctx context.Context) (Creature, error) {
	return c.Get(ctx, c.intN(MaxID)+1)
}

// Get returns the creature with national dex number id.
func (c *Client) Get(ctx context.Context, id int) (Creature, error) {
	start := time.Now()

	var p pokemonResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/pokemon/"+strconv.Itoa(id), &p); err != nil {
		return Creature{}, notFound(fmt.Errorf("fetch pokemon %d: %w", id, err))
	}

	var species speciesResponse
	if err := c.http.GetJSON(ctx, p.Species.URL, &species); err != nil {
		return Creature{}, notFound(fmt.Errorf("fetch species %d: %w", id, err))
	}

	cr := Creature{
		ID:       p.ID,
		Name:     localizedName(species.Names, p.Name),
		Types:    typeLabels(p.Types),
		ImageURL: p.Sprites.Other.OfficialArtwork.FrontDefault,
	}

	// The evolution line is decoration; a failure only drops it.
	if species.EvolutionChain.URL != "" {
		evo, err := c.evolution(ctx, species.EvolutionChain.URL)
		if err != nil {
			slog.WarnContext(ctx, "evolution chain lookup failed",
				"id", id,
				"error", err)
		} else {
			cr.Evolution = evo
		}
	}

	slog.DebugContext(ctx, "creature fetched",
		"id", cr.ID,
		"name", cr.Name,
		"duration_ms", time.Since(start).Milliseconds())
	return cr, nil
}

// notFound tags a 404 with ErrNotFound, keeping the original chain.
func notFound(err error) error {
	if httpclient.IsNotFound(err) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// evolution renders the chain stage by stage: "A → B・C".
func (c *Client) evolution(ctx context.Context, url string) (string, error) {
	var chain evolutionChainResponse
	if err := c.http.GetJSON(ctx, url, &chain); err != nil {
		return "", err
	}

	stages := flattenChain(chain.Chain)
	if len(stages) < 2 {
		return "", nil
	}

	names := make([][]string, len(stages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, stage := range stages {
		names[i] = make([]string, len(stage))
		for j, sp := range stage {
			g.Go(func() error {
				var s speciesResponse
				if err := c.http.GetJSON(gctx, sp.URL, &s); err != nil {
					return err
				}
				names[i][j] = localizedName(s.Names, sp.Name)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	parts := make([]string, len(names))
	for i, stage := range names {
		parts[i] = strings.Join(stage, "・")
	}
	return strings.Join(parts, " → "), nil
}

// flattenChain groups species by evolution depth.
func flattenChain(root chainLink) [][]namedResource {
	var stages [][]namedResource
	level := []chainLink{root}
	for len(level) > 0 {
		var next []chainLink
		stage := make([]namedResource, 0, len(level))
		for _, link := range level {
			stage = append(stage, link.Species)
			next = append(next, link.EvolvesTo...)
		}
		stages = append(stages, stage)
		level = next
	}
	return stages
}

// localizedName prefers ja-Hrkt, then ja, then the English name.
func localizedName(names []localizedNameEntry, fallback string) string {
	byLang := make(map[string]string, len(names))
	for _, n := range names {
		byLang[n.Language.Name] = n.Name
	}
	for _, lang := range []string{"ja-Hrkt", "ja", "en"} {
		if v := byLang[lang]; v != "" {
			return v
		}
	}
	return fallback
}

func typeLabels(types []typeSlot) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if label, ok := TypeNames[t.Type.Name]; ok {
			out = append(out, label)
		} else {
			out = append(out, t.Type.Name)
		}
	}
	return out
}

// TypeNames maps PokeAPI type identifiers to Japanese labels.
var TypeNames = map[string]string{
	"normal":   "ノーマル",
	"fire":     "ほのお",
	"water":    "みず",
	"electric": "でんき",
	"grass":    "くさ",
	"ice":      "こおり",
	"fighting": "かくとう",
	"poison":   "どく",
	"ground":   "じめん",
	"flying":   "ひこう",
	"psychic":  "エスパー",
	"bug":      "むし",
	"rock":     "いわ",
	"ghost":    "ゴースト",
	"dragon":   "ドラゴン",
	"dark":     "あく",
	"steel":    "はがね",
	"fairy":    "フェアリー",
}
