// Command awardsearch wires the full search stack and runs one query
// from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"googlemaps.github.io/maps"

	"github.com/nmehta6/awardsearch/airports"
	"github.com/nmehta6/awardsearch/audit"
	"github.com/nmehta6/awardsearch/config"
	"github.com/nmehta6/awardsearch/log"
	"github.com/nmehta6/awardsearch/providers"
	"github.com/nmehta6/awardsearch/providers/award"
	"github.com/nmehta6/awardsearch/providers/cash"
	"github.com/nmehta6/awardsearch/report"
	"github.com/nmehta6/awardsearch/search"
)

func main() {
	log.Init()
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	origin := flag.String("from", "", "origin airport (IATA code or city)")
	destination := flag.String("to", "", "destination airport (IATA code or city)")
	departDate := flag.String("date", "", "departure date (YYYY-MM-DD)")
	returnDate := flag.String("return", "", "return date (YYYY-MM-DD, optional)")
	cabinFlag := flag.String("cabin", "economy", "cabin class")
	passengers := flag.Int("passengers", 1, "passenger count (1-9)")
	awardOnly := flag.Bool("award-only", false, "search award inventory only")
	nonStop := flag.Bool("non-stop", false, "non-stop itineraries only")
	flexRetry := flag.Bool("flexible", false, "retry with flexible dates")
	sessionID := flag.String("session", "", "conversation/session ID for audit")
	flag.Parse()

	if *origin == "" || *destination == "" || *departDate == "" {
		fmt.Fprintln(os.Stderr, "usage: awardsearch -from FRA -to HKT -date 2026-03-15 [flags]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(ctx, "loading config: %v", err)
	}

	orchestrator, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		log.Fatalf(ctx, "wiring search stack: %v", err)
	}

	cabin, err := search.ParseCabin(*cabinFlag)
	if err != nil {
		log.Fatalf(ctx, "%v", err)
	}

	depart, err := time.Parse(search.DateFormat, *departDate)
	if err != nil {
		log.Fatalf(ctx, "bad -date: %v", err)
	}

	req := search.Request{
		DepartDate:    depart,
		Cabin:         cabin,
		Passengers:    *passengers,
		AwardOnly:     *awardOnly,
		NonStop:       *nonStop,
		FlexibleRetry: *flexRetry,
		SessionID:     *sessionID,
	}
	if *returnDate != "" {
		ret, err := time.Parse(search.DateFormat, *returnDate)
		if err != nil {
			log.Fatalf(ctx, "bad -return: %v", err)
		}
		req.ReturnDate = &ret
	}

	outcome, err := orchestrator.ExecuteFreeform(ctx, *origin, *destination, req)
	if err != nil {
		log.Fatalf(ctx, "search failed: %v", err)
	}

	printOutcome(outcome)
}

func buildOrchestrator(ctx context.Context, cfg *config.Config) (*search.Orchestrator, error) {
	limiter := providers.NewLimiter(cfg.Search.ProviderRate, cfg.Search.ProviderBurst)

	awardClient, err := award.NewClient(cfg.Award.BaseURL, cfg.Award.APIKey)
	if err != nil {
		return nil, err
	}
	awardClient.Limiter = limiter

	// Cash fares are optional; without credentials the search degrades to
	// award-only results.
	var cashProvider search.Provider
	if cfg.Cash.ClientID != "" {
		cashClient, err := cash.NewClient(cfg.Cash.ClientID, cfg.Cash.ClientSecret, cfg.Cash.Production)
		if err != nil {
			return nil, err
		}
		cashClient.Limiter = limiter
		cashProvider = cashClient
	}

	var mapsClient *maps.Client
	if cfg.Maps.APIKey != "" {
		mapsClient, err = maps.NewClient(maps.WithAPIKey(cfg.Maps.APIKey))
		if err != nil {
			log.Warnf(ctx, "maps client unavailable, using static travel labels: %v", err)
		}
	}
	resolver := airports.NewResolver(mapsClient)

	recorder, err := audit.Open(cfg.Audit.DBPath)
	if err != nil {
		return nil, err
	}

	orchestrator := search.New(awardClient, cashProvider)
	orchestrator.Airports = resolver
	orchestrator.Codes = resolver
	orchestrator.Recorder = recorder
	orchestrator.Format = &report.Formatter{}
	orchestrator.Links = report.SearchLinks
	orchestrator.Timeout = cfg.Search.Timeout
	orchestrator.StandardLimit = cfg.Search.StandardLimit
	orchestrator.FlexibleLimit = cfg.Search.FlexibleLimit
	orchestrator.FlexibilityDays = cfg.Search.FlexibilityDays
	orchestrator.MajorHubs = cfg.Search.MajorHubs
	return orchestrator, nil
}

func printOutcome(outcome search.Outcome) {
	switch outcome.Kind {
	case search.KindResults:
		fmt.Println(outcome.Results.Report)
	case search.KindFlexibleDatesOffer:
		p := outcome.FlexibleDates
		fmt.Printf("No flights found on the requested dates. Retry with -flexible to search ±%d days?\n", p.WindowDays)
		printLinks(p.Links)
	case search.KindAirportSubstitution:
		p := outcome.AirportSubstitution
		fmt.Printf("No availability. Nearby %s airports you could use instead:\n", p.Replaces)
		for _, alt := range p.Alternatives {
			fmt.Printf("  %s %s (%s, %s)\n", alt.Code, alt.DisplayName, alt.City, alt.TravelTimeLabel)
		}
		printLinks(p.Links)
	case search.KindClarificationNeeded:
		fmt.Println(outcome.Clarification.Prompt)
	case search.KindFailure:
		formatter := &report.Formatter{}
		fmt.Println(formatter.RenderFailure(outcome.Failure))
		os.Exit(1)
	}
}

func printLinks(links []search.Link) {
	if len(links) == 0 {
		return
	}
	fmt.Println("In the meantime you can check:")
	for _, link := range links {
		fmt.Printf("  %s: %s\n", link.Label, strings.TrimSpace(link.URL))
	}
}
