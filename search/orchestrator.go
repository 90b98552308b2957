package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nmehta6/awardsearch/log"
	"github.com/nmehta6/awardsearch/reqcontext"
)

// DefaultMajorHubs is the fixed hub set behind the alternate-airport
// heuristic: a hub origin points the substitution at the destination.
var DefaultMajorHubs = []string{
	"ATL", "ORD", "DFW", "DEN", "JFK", "LAX", "SFO",
	"LHR", "FRA", "CDG", "AMS", "IST", "DXB", "SIN",
	"HND", "NRT", "ICN", "PEK",
}

const (
	defaultStandardLimit   = 5
	defaultFlexibleLimit   = 15
	defaultFlexibilityDays = 3
	maxFlexibleResults     = 10

	toolName = "flight_search"

	// Audit statuses for the recorder.
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Orchestrator coordinates one search invocation end to end. Award and
// Cash are required; every other collaborator is optional and degrades
// gracefully when absent.
type Orchestrator struct {
	Award    Provider
	Cash     Provider
	Airports AirportResolver
	Codes    CodeResolver
	Recorder Recorder
	Format   Formatter

	// Links builds deterministic external search-engine links attached to
	// terminal failure and interactive payloads.
	Links func(Request) []Link

	// Clock is injectable for validation tests.
	Clock   func() time.Time
	Timeout time.Duration

	StandardLimit   int
	FlexibleLimit   int
	FlexibilityDays int
	MajorHubs       []string
}

// New builds an orchestrator with default limits and hub set.
func New(award, cash Provider) *Orchestrator {
	return &Orchestrator{
		Award:           award,
		Cash:            cash,
		Clock:           time.Now,
		StandardLimit:   defaultStandardLimit,
		FlexibleLimit:   defaultFlexibleLimit,
		FlexibilityDays: defaultFlexibilityDays,
		MajorHubs:       DefaultMajorHubs,
	}
}

// Execute runs one search invocation: validate, record, fan out to both
// providers, classify, and walk the fallback chain on a true empty. The
// returned error is non-nil only for wiring mistakes; every domain
// failure is an Outcome variant.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (Outcome, error) {
	if o.Award == nil {
		return Outcome{}, errors.New("search: award provider is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = reqcontext.WithCallID(ctx, reqcontext.NewCallID())

	if verr := req.Validate(o.now()); verr != nil {
		log.Warnf(ctx, "rejecting search %s-%s: %v", req.Origin, req.Destination, verr)
		return o.failure(req, ReasonValidation,
			"The search request is invalid.", verr.Error()), nil
	}

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	callID := o.recordStart(ctx, req)

	var out Outcome
	if req.FlexibleRetry {
		out = o.executeFlexible(ctx, req)
	} else {
		out = o.executeStandard(ctx, req)
	}

	o.recordFinal(ctx, callID, req, out)
	return out, nil
}

// ExecuteFreeform resolves free-text airport input first and surfaces a
// clarification outcome, without touching either provider, when the
// resolver cannot settle on a code.
func (o *Orchestrator) ExecuteFreeform(ctx context.Context, originText, destText string, req Request) (Outcome, error) {
	if o.Codes == nil {
		return Outcome{}, errors.New("search: code resolver is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	origin, originClar := o.resolveEndpoint(ctx, originText, "origin")
	dest, destClar := o.resolveEndpoint(ctx, destText, "destination")

	switch {
	case originClar != nil && destClar != nil:
		return Outcome{Kind: KindClarificationNeeded, Clarification: &Clarification{
			Field:  "both",
			Prompt: originClar.Prompt + " " + destClar.Prompt,
		}}, nil
	case originClar != nil:
		return Outcome{Kind: KindClarificationNeeded, Clarification: originClar}, nil
	case destClar != nil:
		return Outcome{Kind: KindClarificationNeeded, Clarification: destClar}, nil
	}

	req.Origin = origin
	req.Destination = dest
	return o.Execute(ctx, req)
}

func (o *Orchestrator) resolveEndpoint(ctx context.Context, freeText, field string) (string, *Clarification) {
	code, clar, err := o.Codes.ResolveCode(ctx, freeText)
	if err != nil {
		log.Warnf(ctx, "airport resolution for %s %q failed: %v", field, freeText, err)
		return "", &Clarification{
			Field:  field,
			Prompt: fmt.Sprintf("I couldn't identify the %s airport from %q. Please provide a 3-letter airport code.", field, freeText),
		}
	}
	if clar != nil {
		clar.Field = field
		return "", clar
	}
	return code, nil
}

// providerOutcome is the per-provider fan-in value. A skipped provider
// resolves immediately as an empty success.
type providerOutcome struct {
	source  Source
	offers  []Offer
	err     error
	skipped bool
}

// runProvider executes one provider call, converting panics and errors
// into a value so the sibling call's result is never lost.
func runProvider(ctx context.Context, source Source, p Provider, req Request, limit int) (out providerOutcome) {
	out = providerOutcome{source: source}
	defer func() {
		if r := recover(); r != nil {
			out.err = fmt.Errorf("%s provider panicked: %v", source, r)
		}
	}()

	offers, err := p.Search(ctx, req, limit)
	if err != nil {
		log.Warnf(ctx, "%s provider failed: %v", source, err)
		out.err = err
		return out
	}
	out.offers = offers
	return out
}

// fanOut queries the award provider (always) and the cash provider
// (unless AwardOnly) concurrently, joining both before returning. The
// shared ctx cancels both sides.
func (o *Orchestrator) fanOut(ctx context.Context, req Request, limit int) (award, cash providerOutcome) {
	results := make(chan providerOutcome, 2)
	expected := 1

	go func() {
		results <- runProvider(ctx, SourceAward, o.Award, req, limit)
	}()

	if req.AwardOnly || o.Cash == nil {
		cash = providerOutcome{source: SourceCash, skipped: true}
	} else {
		expected = 2
		go func() {
			results <- runProvider(ctx, SourceCash, o.Cash, req, limit)
		}()
	}

	for i := 0; i < expected; i++ {
		r := <-results
		if r.source == SourceAward {
			award = r
		} else {
			cash = r
		}
	}
	return award, cash
}

func (o *Orchestrator) executeStandard(ctx context.Context, req Request) Outcome {
	log.Infof(ctx, "searching %s-%s on %s (%s, %d pax)",
		req.Origin, req.Destination, req.DepartDate.Format(DateFormat), req.Cabin, req.Passengers)

	award, cash := o.fanOut(ctx, req, o.standardLimit())

	if offers := len(award.offers) + len(cash.offers); offers > 0 {
		return o.results(ctx, req, award, cash)
	}
	if allAttemptedFailed(award, cash) {
		return o.providerUnavailable(req, award, cash)
	}

	// True empty: both sides resolved without offers and at least one of
	// them genuinely succeeded. Offer the flexible-date window.
	window := req.FlexibilityDays
	if window == 0 {
		window = o.flexibilityDays()
	}
	log.Infof(ctx, "no offers for %s-%s, proposing ±%d day window", req.Origin, req.Destination, window)
	return Outcome{
		Kind: KindFlexibleDatesOffer,
		FlexibleDates: &FlexibleDatesPayload{
			Request:    req,
			WindowDays: window,
			Links:      o.links(req),
		},
	}
}

func (o *Orchestrator) executeFlexible(ctx context.Context, req Request) Outcome {
	window := req.FlexibilityDays
	if window == 0 {
		window = o.flexibilityDays()
	}
	log.Infof(ctx, "flexible retry %s-%s, ±%d days", req.Origin, req.Destination, window)

	offers, allFailed := o.searchWindow(ctx, req, window)
	if len(offers) > 0 {
		ranked := rankFlexible(offers, maxFlexibleResults)
		report := ""
		if o.Format != nil {
			report = o.Format.FormatFlexible(ctx, ranked, req)
		}
		return Outcome{Kind: KindResults, Results: &ResultsPayload{
			Report:   report,
			Award:    bySource(ranked, SourceAward),
			Cash:     bySource(ranked, SourceCash),
			Ranked:   ranked,
			Flexible: true,
		}}
	}
	if allFailed {
		return o.failure(req, ReasonProviderUnavailable,
			"Flight data providers are currently unavailable. Please try again shortly.",
			"all provider calls failed during flexible-date retry")
	}
	return o.alternativeAirports(ctx, req)
}

// alternativeAirports is Step C of the fallback chain: pick the endpoint
// more likely to be the constraint and ask the resolver for substitutes.
func (o *Orchestrator) alternativeAirports(ctx context.Context, req Request) Outcome {
	side, code := o.constrainedEndpoint(req)

	var alts []Alternative
	if o.Airports != nil {
		found, err := o.Airports.Nearby(ctx, code)
		if err != nil {
			// A resolver outage is treated as "no alternatives", not a crash.
			log.Warnf(ctx, "nearby-airport lookup for %s failed: %v", code, err)
		} else {
			alts = found
		}
	}

	if len(alts) > 0 {
		for i := range alts {
			alts[i].Replaces = side
		}
		log.Infof(ctx, "offering %d alternative airports for %s (%s)", len(alts), code, side)
		return Outcome{
			Kind: KindAirportSubstitution,
			AirportSubstitution: &AirportSubstitutionPayload{
				Request:      req,
				Alternatives: alts,
				Replaces:     side,
				Links:        o.links(req),
			},
		}
	}

	log.Infof(ctx, "fallback chain exhausted for %s-%s", req.Origin, req.Destination)
	return o.failure(req, ReasonNoResults,
		fmt.Sprintf("No flights found from %s to %s on %s, even with flexible dates.",
			req.Origin, req.Destination, req.DepartDate.Format(DateFormat)),
		"fallback chain exhausted")
}

// constrainedEndpoint applies the fixed hub heuristic: a major-hub origin
// implies the destination is the constrained endpoint.
func (o *Orchestrator) constrainedEndpoint(req Request) (EndpointSide, string) {
	for _, hub := range o.majorHubs() {
		if strings.EqualFold(hub, req.Origin) {
			return SideDestination, req.Destination
		}
	}
	return SideOrigin, req.Origin
}

func (o *Orchestrator) results(ctx context.Context, req Request, award, cash providerOutcome) Outcome {
	var notes []string
	if award.err != nil {
		notes = append(notes, "Award availability could not be loaded.")
	}
	if cash.err != nil {
		notes = append(notes, "Cash fares could not be loaded.")
	}

	report := ""
	if o.Format != nil {
		report = o.Format.Format(ctx, award.offers, cash.offers, req, notes)
	}
	log.Infof(ctx, "search succeeded: %d award, %d cash offers", len(award.offers), len(cash.offers))
	return Outcome{Kind: KindResults, Results: &ResultsPayload{
		Report: report,
		Award:  award.offers,
		Cash:   cash.offers,
		Notes:  notes,
	}}
}

func (o *Orchestrator) providerUnavailable(req Request, award, cash providerOutcome) Outcome {
	var details []string
	if award.err != nil {
		details = append(details, fmt.Sprintf("award: %v", award.err))
	}
	if cash.err != nil {
		details = append(details, fmt.Sprintf("cash: %v", cash.err))
	}
	return o.failure(req, ReasonProviderUnavailable,
		"Flight data providers are currently unavailable. Please try again shortly.",
		strings.Join(details, "; "))
}

func (o *Orchestrator) failure(req Request, reason FailureReason, message, detail string) Outcome {
	return Outcome{Kind: KindFailure, Failure: &FailurePayload{
		Reason:  reason,
		Message: message,
		Detail:  detail,
		Request: req,
		Links:   o.links(req),
	}}
}

// allAttemptedFailed reports whether every provider that actually ran
// returned an error. A one-failed/one-empty split deliberately degrades
// to the true-empty path instead.
func allAttemptedFailed(award, cash providerOutcome) bool {
	if award.err == nil && !award.skipped {
		return false
	}
	if cash.err == nil && !cash.skipped {
		return false
	}
	return award.err != nil || cash.err != nil
}

func (o *Orchestrator) recordStart(ctx context.Context, req Request) string {
	callID := reqcontext.CallIDFromContext(ctx)
	if o.Recorder == nil {
		return callID
	}
	bestEffort(ctx, "audit record start", func() error {
		id, err := o.Recorder.RecordStart(ctx, req.SessionID, toolName, req.Params())
		if err == nil && id != "" {
			callID = id
		}
		return err
	})
	return callID
}

func (o *Orchestrator) recordFinal(ctx context.Context, callID string, req Request, out Outcome) {
	if o.Recorder == nil {
		return
	}
	status := StatusSucceeded
	if out.Kind == KindFailure {
		status = StatusFailed
	}
	bestEffort(ctx, "audit record outcome", func() error {
		return o.Recorder.RecordOutcome(ctx, callID, status, out)
	})
	if req.SessionID != "" {
		bestEffort(ctx, "session state merge", func() error {
			return o.Recorder.MergeSessionState(ctx, req.SessionID, map[string]interface{}{
				"last_flight_search": req.Params(),
			})
		})
	}
}

// bestEffort runs a side-effecting call whose failure must never surface
// as a search failure. Errors and panics are logged and swallowed.
func bestEffort(ctx context.Context, what string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(ctx, "%s panicked (ignored): %v", what, r)
		}
	}()
	if err := fn(); err != nil {
		log.Warnf(ctx, "%s failed (ignored): %v", what, err)
	}
}

func bySource(offers []Offer, source Source) []Offer {
	var out []Offer
	for _, o := range offers {
		if o.Source == source {
			out = append(out, o)
		}
	}
	return out
}

func (o *Orchestrator) links(req Request) []Link {
	if o.Links == nil {
		return nil
	}
	return o.Links(req)
}

func (o *Orchestrator) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

func (o *Orchestrator) standardLimit() int {
	if o.StandardLimit > 0 {
		return o.StandardLimit
	}
	return defaultStandardLimit
}

func (o *Orchestrator) flexibleLimit() int {
	if o.FlexibleLimit > 0 {
		return o.FlexibleLimit
	}
	return defaultFlexibleLimit
}

func (o *Orchestrator) flexibilityDays() int {
	if o.FlexibilityDays > 0 {
		return o.FlexibilityDays
	}
	return defaultFlexibilityDays
}

func (o *Orchestrator) majorHubs() []string {
	if len(o.MajorHubs) > 0 {
		return o.MajorHubs
	}
	return DefaultMajorHubs
}
