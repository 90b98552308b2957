// Package search implements the flight-search orchestration core: the
// concurrent fan-out to the award and cash providers, outcome
// classification, and the flexible-date / alternate-airport fallback chain.
package search

import (
	"fmt"
	"strings"
	"time"
)

// Cabin is the shared cabin class across both providers.
type Cabin int

const (
	Economy Cabin = iota
	PremiumEconomy
	Business
	First
)

func (c Cabin) String() string {
	switch c {
	case Economy:
		return "economy"
	case PremiumEconomy:
		return "premium_economy"
	case Business:
		return "business"
	case First:
		return "first"
	}
	return "unknown"
}

// ParseCabin maps loose user/tool input onto the cabin enum.
func ParseCabin(s string) (Cabin, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "", "economy", "coach":
		return Economy, nil
	case "premium_economy", "premium":
		return PremiumEconomy, nil
	case "business":
		return Business, nil
	case "first":
		return First, nil
	}
	return Economy, fmt.Errorf("unknown cabin class: %q", s)
}

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Request is one normalized search intent. It is treated as immutable:
// the orchestrator derives shifted copies for flexible-date retries but
// never mutates the original.
type Request struct {
	Origin      string
	Destination string
	DepartDate  time.Time
	ReturnDate  *time.Time
	Cabin       Cabin
	Passengers  int
	AwardOnly   bool
	NonStop     bool
	// FlexibilityDays bounds the ±N-day window proposed and searched by
	// the fallback chain (0 means the default window).
	FlexibilityDays int
	// LoyaltyPrograms is advisory only; it is passed through to the award
	// provider and never enforced here.
	LoyaltyPrograms []string
	// FlexibleRetry is set by the caller when re-invoking after a
	// flexible-dates offer. It is the only cross-invocation fallback state.
	FlexibleRetry bool
	// SessionID is pass-through for the audit/session recorder.
	SessionID string
}

// ValidationError reports a malformed or temporally invalid request.
// It accumulates every problem found rather than stopping at the first.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid search request: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the request against the given current time. It never
// touches the network; a failure here must prevent all provider calls.
func (r Request) Validate(now time.Time) *ValidationError {
	var problems []string

	if len(r.Origin) != 3 {
		problems = append(problems, fmt.Sprintf("origin must be a 3-letter IATA code, got %q", r.Origin))
	}
	if len(r.Destination) != 3 {
		problems = append(problems, fmt.Sprintf("destination must be a 3-letter IATA code, got %q", r.Destination))
	}

	today := now.Truncate(24 * time.Hour)
	if r.DepartDate.IsZero() {
		problems = append(problems, "departure date is missing")
	} else if r.DepartDate.Before(today) {
		problems = append(problems, fmt.Sprintf("departure date %s is in the past", r.DepartDate.Format(DateFormat)))
	}

	if r.ReturnDate != nil {
		if r.ReturnDate.Before(today) {
			problems = append(problems, fmt.Sprintf("return date %s is in the past", r.ReturnDate.Format(DateFormat)))
		}
		if !r.DepartDate.IsZero() && r.ReturnDate.Before(r.DepartDate) {
			problems = append(problems, "return date is before departure date")
		}
	}

	if r.Passengers < 1 || r.Passengers > 9 {
		problems = append(problems, fmt.Sprintf("passenger count must be 1-9, got %d", r.Passengers))
	}
	if r.FlexibilityDays < 0 || r.FlexibilityDays > 3 {
		problems = append(problems, fmt.Sprintf("flexibility must be 0-3 days, got %d", r.FlexibilityDays))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// shiftDates returns a copy of the request with both travel dates moved
// by the given number of days, preserving the trip length.
func (r Request) shiftDates(days int) Request {
	shifted := r
	shifted.DepartDate = r.DepartDate.AddDate(0, 0, days)
	if r.ReturnDate != nil {
		ret := r.ReturnDate.AddDate(0, 0, days)
		shifted.ReturnDate = &ret
	}
	return shifted
}

// Params mirrors the request into a flat map for session-state merging
// and audit payloads.
func (r Request) Params() map[string]interface{} {
	params := map[string]interface{}{
		"origin":      r.Origin,
		"destination": r.Destination,
		"depart_date": r.DepartDate.Format(DateFormat),
		"cabin":       r.Cabin.String(),
		"passengers":  r.Passengers,
		"award_only":  r.AwardOnly,
		"non_stop":    r.NonStop,
	}
	if r.ReturnDate != nil {
		params["return_date"] = r.ReturnDate.Format(DateFormat)
	}
	if len(r.LoyaltyPrograms) > 0 {
		params["loyalty_programs"] = strings.Join(r.LoyaltyPrograms, ",")
	}
	return params
}
