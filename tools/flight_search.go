// Package tools adapts the search orchestrator to the loosely typed
// tool-calling boundary of the surrounding conversational layer.
package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nmehta6/awardsearch/search"
)

// FlightSearchTool exposes the orchestrator as a callable tool.
type FlightSearchTool struct {
	Orchestrator *search.Orchestrator
}

func (t *FlightSearchTool) Name() string {
	return "flight_search"
}

func (t *FlightSearchTool) Description() string {
	return "Searches award and cash flight availability. Arguments: origin (IATA code or city), destination (IATA code or city), depart_date (YYYY-MM-DD), return_date (optional), cabin (economy|premium_economy|business|first), passengers (int, default 1), award_only (bool), non_stop (bool), flexibility_days (0-3), flexible_retry (bool, set when retrying a flexible-dates offer), session_id (string)."
}

// Execute maps tool arguments onto a search request and runs it. The
// returned value is the orchestrator's outcome union.
func (t *FlightSearchTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	if t.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator not initialized")
	}

	origin := stringArg(args, "origin")
	destination := stringArg(args, "destination")
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("origin and destination are required")
	}

	departDate, err := dateArg(args, "depart_date")
	if err != nil {
		return nil, err
	}
	if departDate.IsZero() {
		return nil, fmt.Errorf("depart_date is required")
	}

	returnDate, err := dateArg(args, "return_date")
	if err != nil {
		return nil, err
	}

	cabin, err := search.ParseCabin(stringArg(args, "cabin"))
	if err != nil {
		return nil, err
	}

	passengers := intArg(args, "passengers")
	if passengers == 0 {
		passengers = 1
	}

	req := search.Request{
		DepartDate:      departDate,
		Cabin:           cabin,
		Passengers:      passengers,
		AwardOnly:       boolArg(args, "award_only"),
		NonStop:         boolArg(args, "non_stop"),
		FlexibilityDays: intArg(args, "flexibility_days"),
		FlexibleRetry:   boolArg(args, "flexible_retry"),
		SessionID:       stringArg(args, "session_id"),
	}
	if !returnDate.IsZero() {
		req.ReturnDate = &returnDate
	}
	if programs := stringArg(args, "loyalty_programs"); programs != "" {
		req.LoyaltyPrograms = strings.Split(programs, ",")
	}

	// Free-text endpoints go through airport resolution first so
	// ambiguity surfaces as a clarification, never as a provider call.
	if t.Orchestrator.Codes != nil {
		return t.Orchestrator.ExecuteFreeform(ctx, origin, destination, req)
	}

	req.Origin = strings.ToUpper(origin)
	req.Destination = strings.ToUpper(destination)
	return t.Orchestrator.Execute(ctx, req)
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func boolArg(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		// JSON numbers decode as float64.
		return int(v)
	}
	return 0
}

func dateArg(args map[string]interface{}, key string) (time.Time, error) {
	s := stringArg(args, key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(search.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD, got %q", key, s)
	}
	return t, nil
}
