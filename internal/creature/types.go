package creature

// PokeAPI response shapes, limited to the fields in use.

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type typeSlot struct {
	Slot int           `json:"slot"`
	Type namedResource `json:"type"`
}

type pokemonResponse struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Types   []typeSlot    `json:"types"`
	Species namedResource `json:"species"`
	Sprites struct {
		Other struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
}

type localizedNameEntry struct {
	Name     string        `json:"name"`
	Language namedResource `json:"language"`
}

type speciesResponse struct {
	Names          []localizedNameEntry `json:"names"`
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

type chainLink struct {
	Species   namedResource `json:"species"`
	EvolvesTo []chainLink   `json:"evolves_to"`
}

type evolutionChainResponse struct {
	Chain chainLink `json:"chain"`
}
