// Package airports resolves free-text airport input to IATA codes and
// suggests substitute airports near a constrained endpoint.
package airports

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/nmehta6/awardsearch/log"
	"github.com/nmehta6/awardsearch/search"
)

var iataPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// Resolver implements both airport collaborators: code resolution with
// clarification, and nearby-airport substitution. A Google Maps client
// is optional and only refreshes the drive-time labels.
type Resolver struct {
	Maps *maps.Client
}

// NewResolver creates a resolver. mapsClient may be nil; static travel
// labels are used without it.
func NewResolver(mapsClient *maps.Client) *Resolver {
	return &Resolver{Maps: mapsClient}
}

// ResolveCode maps free text to an IATA code. Ambiguous or unknown input
// yields a clarification instead of a code; the error return is reserved
// for infrastructure failures.
func (r *Resolver) ResolveCode(ctx context.Context, freeText string) (string, *search.Clarification, error) {
	text := strings.TrimSpace(freeText)
	if text == "" {
		return "", &search.Clarification{
			Prompt: "Which airport did you mean? Please provide a city or a 3-letter airport code.",
		}, nil
	}

	if iataPattern.MatchString(text) {
		return strings.ToUpper(text), nil, nil
	}

	key := strings.ToLower(text)
	if codes, ok := ambiguousCities[key]; ok {
		return "", &search.Clarification{
			Prompt: fmt.Sprintf("%s has several airports (%s). Which one should I use?",
				text, strings.Join(codes, ", ")),
		}, nil
	}
	if code, ok := cityAliases[key]; ok {
		return code, nil, nil
	}

	return "", &search.Clarification{
		Prompt: fmt.Sprintf("I don't recognize %q as an airport. Please provide a 3-letter airport code.", text),
	}, nil
}

// Nearby returns substitute airports for the given code, most relevant
// first. Unknown codes yield an empty list, not an error.
func (r *Resolver) Nearby(ctx context.Context, code string) ([]search.Alternative, error) {
	candidates, ok := nearbyAirports[strings.ToUpper(code)]
	if !ok {
		return nil, nil
	}

	alts := make([]search.Alternative, len(candidates))
	copy(alts, candidates)
	for i := range alts {
		if label := r.driveLabel(ctx, code, alts[i].Code); label != "" {
			alts[i].TravelTimeLabel = label
		}
	}
	return alts, nil
}

// driveLabel asks the Distance Matrix API for a live drive time between
// the two airports. Best-effort: any failure keeps the static label.
func (r *Resolver) driveLabel(ctx context.Context, from, to string) string {
	if r.Maps == nil {
		return ""
	}
	resp, err := r.Maps.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{from + " airport"},
		Destinations: []string{to + " airport"},
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		log.Warnf(ctx, "distance matrix %s-%s failed: %v", from, to, err)
		return ""
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return ""
	}
	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return ""
	}
	return fmt.Sprintf("%d min drive", int(element.Duration.Minutes()))
}
