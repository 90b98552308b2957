package search

import "context"

// OutcomeKind discriminates the terminal shapes a search can produce.
type OutcomeKind string

const (
	KindResults             OutcomeKind = "results"
	KindFlexibleDatesOffer  OutcomeKind = "flexible_dates_offer"
	KindAirportSubstitution OutcomeKind = "airport_substitution_offer"
	KindClarificationNeeded OutcomeKind = "clarification_needed"
	KindFailure             OutcomeKind = "failure"
)

// FailureReason categorizes terminal failures for the caller-facing layer.
type FailureReason string

const (
	ReasonValidation          FailureReason = "validation"
	ReasonProviderUnavailable FailureReason = "provider_unavailable"
	ReasonNoResults           FailureReason = "no_results"
)

// EndpointSide names which end of the route an airport substitution
// would replace.
type EndpointSide string

const (
	SideOrigin      EndpointSide = "origin"
	SideDestination EndpointSide = "destination"
)

// Link is a ready-to-use external search-engine deep link.
type Link struct {
	Label string
	URL   string
}

// Alternative is a candidate substitute airport near an endpoint of the
// original route.
type Alternative struct {
	Code            string
	DisplayName     string
	City            string
	TravelTimeLabel string
	Replaces        EndpointSide
}

// Clarification asks the caller for more specific airport input before
// any provider is invoked.
type Clarification struct {
	// Field is "origin", "destination" or "both".
	Field  string
	Prompt string
}

// ResultsPayload carries a successful search: the rendered report plus
// the raw offers it was built from.
type ResultsPayload struct {
	Report string
	Award  []Offer
	Cash   []Offer
	// Notes names provider categories that could not be loaded when the
	// search succeeded only partially.
	Notes []string
	// Flexible marks results produced by a flexible-date retry; Ranked is
	// then the merged cross-date list, price-sorted ascending and capped.
	Flexible bool
	Ranked   []Offer
}

// FlexibleDatesPayload proposes a ±N-day retry window. Terminal for this
// invocation; the caller re-invokes with Request.FlexibleRetry set.
type FlexibleDatesPayload struct {
	Request    Request
	WindowDays int
	Links      []Link
}

// AirportSubstitutionPayload proposes nearby substitute airports.
// Terminal for this invocation, pending the caller's airport choice.
type AirportSubstitutionPayload struct {
	Request      Request
	Alternatives []Alternative
	Replaces     EndpointSide
	Links        []Link
}

// FailurePayload is a terminal failure with enough structure for the
// caller to render a next action instead of a dead end.
type FailurePayload struct {
	Reason  FailureReason
	Message string
	// Detail carries machine-readable technical detail (wrapped provider
	// errors, validation problems).
	Detail  string
	Request Request
	Links   []Link
}

// Outcome is the tagged union returned by the orchestrator. Exactly one
// payload field matching Kind is non-nil.
type Outcome struct {
	Kind                OutcomeKind
	Results             *ResultsPayload
	FlexibleDates       *FlexibleDatesPayload
	AirportSubstitution *AirportSubstitutionPayload
	Clarification       *Clarification
	Failure             *FailurePayload
}

// Provider fetches normalized offers for one request. A provider must
// return an error for timeouts, non-success statuses and parse failures;
// zero matches is a nil error with an empty slice.
type Provider interface {
	Name() string
	Search(ctx context.Context, req Request, limit int) ([]Offer, error)
}

// AirportResolver returns substitute airports near a code, most relevant
// first.
type AirportResolver interface {
	Nearby(ctx context.Context, code string) ([]Alternative, error)
}

// CodeResolver maps free-text airport input to an IATA code, or asks for
// clarification.
type CodeResolver interface {
	ResolveCode(ctx context.Context, freeText string) (string, *Clarification, error)
}

// Recorder is the audit/session collaborator. Every call is best-effort
// from the orchestrator's point of view.
type Recorder interface {
	RecordStart(ctx context.Context, sessionID, name string, params interface{}) (string, error)
	RecordOutcome(ctx context.Context, callID, status string, payload interface{}) error
	MergeSessionState(ctx context.Context, sessionID string, partial map[string]interface{}) error
}

// Formatter renders merged offers into the final report.
type Formatter interface {
	Format(ctx context.Context, award, cash []Offer, req Request, notes []string) string
	FormatFlexible(ctx context.Context, offers []Offer, req Request) string
}
