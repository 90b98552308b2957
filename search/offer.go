package search

import (
	"math"
	"time"
)

// Source identifies which provider produced an offer.
type Source string

const (
	SourceAward Source = "award"
	SourceCash  Source = "cash"
)

// Price is a normalized fare amount. Award offers use a mileage unit
// ("miles"), cash offers an ISO currency code. Display is the
// human-readable rendering produced by the provider adapter.
type Price struct {
	Amount  float64
	Unit    string
	Display string
}

// Endpoint is one end of an itinerary.
type Endpoint struct {
	Airport  string
	Time     time.Time
	Terminal string
	Gate     string
}

// Offer is one normalized itinerary from either provider. Offers are
// immutable once built by a provider adapter; the orchestrator only
// re-orders them and stamps date-offset annotations on copies it owns.
type Offer struct {
	Source          Source
	AirlineCode     string
	Price           Price
	Departure       Endpoint
	Arrival         Endpoint
	DurationMinutes int
	StopCount       int
	// SeatsRemaining is award-only; 0 means not reported.
	SeatsRemaining int
	// FlightNumbers lists every segment of a connecting itinerary in order.
	FlightNumbers []string
	// Program is the loyalty program an award offer books through.
	Program string

	// DateOffsetDays and DateOffsetLabel are stamped only during
	// flexible-date retries ("Original date", "2 days later", ...).
	DateOffsetDays  int
	DateOffsetLabel string
}

// priceSortKey is the ranking key for flexible-date results. Offers
// without a parseable positive amount sort after everything else.
func (o Offer) priceSortKey() float64 {
	if o.Price.Amount <= 0 || math.IsNaN(o.Price.Amount) {
		return math.Inf(1)
	}
	return o.Price.Amount
}
