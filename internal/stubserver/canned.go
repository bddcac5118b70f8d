package stubserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cocktailnerd/internal/backend"
)

// pour is one canned suggestion.
type pour struct {
	Name   string
	Recipe string
}

var cannedByTag = map[string]pour{
	"sweet":  {"Daiquiri", "2 oz white rum, 1 oz lime juice, 3/4 oz simple syrup. Shake hard, strain into a chilled coupe."},
	"bitter": {"Negroni", "1 oz gin, 1 oz Campari, 1 oz sweet vermouth. Stir over ice, garnish with an orange peel."},
	"sour":   {"Whiskey Sour", "2 oz bourbon, 3/4 oz lemon juice, 3/4 oz simple syrup, egg white. Dry shake, then shake with ice."},
	"comfy":  {"Hot Toddy", "1.5 oz whisky, 1 tbsp honey, 1/2 oz lemon juice, hot water. Build in a warm mug."},
	"modern": {"Penicillin", "2 oz blended scotch, 3/4 oz lemon juice, 3/4 oz honey-ginger syrup, Islay float."},
	"boozy":  {"Old Fashioned", "2 oz bourbon, 1 sugar cube, 2 dashes Angostura. Stir over a large cube, orange peel."},
	"light":  {"Aperol Spritz", "3 oz prosecco, 2 oz Aperol, 1 oz soda. Build over ice in a wine glass."},
	"fruity": {"Bramble", "2 oz gin, 1 oz lemon juice, 1/2 oz simple syrup, 1/2 oz creme de mure drizzled over crushed ice."},
}

var house = pour{"Gin and Tonic", "2 oz gin, 4 oz tonic water, lime wedge. Build over plenty of ice."}

// Canned is a deterministic recommender keyed on the first recognised tag.
// It never calls out and is what the stub serves without an API key.
type Canned struct{}

// Recommend implements backend.Backend.
func (Canned) Recommend(ctx context.Context, req backend.Request) (backend.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	choice := house
	for _, tag := range req.Tags {
		if p, ok := cannedByTag[strings.ToLower(strings.TrimSpace(tag))]; ok {
			choice = p
			break
		}
	}

	text := fmt.Sprintf("**%s**\n\n%s\n\n_Asked for: %s_", choice.Name, choice.Recipe, req.Query)
	return json.Marshal(recommendResponse{Response: text, Status: statusSuccess})
}
