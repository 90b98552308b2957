// Package report renders merged, ranked offer lists into the final
// human-readable search report, including deterministic deep links to
// external search engines.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nmehta6/awardsearch/log"
	"github.com/nmehta6/awardsearch/search"
)

// BookingLinker creates a direct booking-session link for a route.
// Failures are non-fatal; the report simply omits the link.
type BookingLinker interface {
	CreateBookingSession(ctx context.Context, origin, destination string, depart time.Time, ret *time.Time, passengers int) (string, error)
}

// Formatter renders search outcomes. Booking is optional.
type Formatter struct {
	Booking BookingLinker
}

// Format produces the standard report: an award table in provider-native
// order, a cash table with per-row deep links, and partial-failure
// notices when one category could not be loaded.
func (f *Formatter) Format(ctx context.Context, award, cash []search.Offer, req search.Request, notes []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Flight options %s → %s on %s (%s, %d passenger(s))\n",
		req.Origin, req.Destination, req.DepartDate.Format(search.DateFormat),
		cabinLabel(req.Cabin), req.Passengers)
	if req.ReturnDate != nil {
		fmt.Fprintf(&b, "Returning %s\n", req.ReturnDate.Format(search.DateFormat))
	}

	for _, note := range notes {
		fmt.Fprintf(&b, "\nNote: %s\n", note)
	}

	if len(award) > 0 {
		b.WriteString("\nAward availability:\n")
		b.WriteString("| # | Airline | Flights | Departs | Arrives | Duration | Stops | Cost | Seats |\n")
		b.WriteString("|---|---------|---------|---------|---------|----------|-------|------|-------|\n")
		for i, offer := range award {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %d | %s | %s |\n",
				i+1, offer.AirlineCode, strings.Join(offer.FlightNumbers, ", "),
				timeLabel(offer.Departure), timeLabel(offer.Arrival),
				durationLabel(offer.DurationMinutes), offer.StopCount,
				priceLabel(offer), seatsLabel(offer.SeatsRemaining))
		}
	}

	if len(cash) > 0 {
		bookingURL := f.bookingLink(ctx, req)
		b.WriteString("\nCash fares:\n")
		b.WriteString("| # | Airline | Flights | Departs | Arrives | Duration | Stops | Price | Book |\n")
		b.WriteString("|---|---------|---------|---------|---------|----------|-------|-------|------|\n")
		for i, offer := range cash {
			links := SearchLinks(req)
			var linkParts []string
			for _, link := range links {
				linkParts = append(linkParts, fmt.Sprintf("[%s](%s)", link.Label, link.URL))
			}
			if bookingURL != "" {
				linkParts = append(linkParts, fmt.Sprintf("[Book direct](%s)", bookingURL))
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %d | %s | %s |\n",
				i+1, offer.AirlineCode, strings.Join(offer.FlightNumbers, ", "),
				timeLabel(offer.Departure), timeLabel(offer.Arrival),
				durationLabel(offer.DurationMinutes), offer.StopCount,
				priceLabel(offer), strings.Join(linkParts, " / "))
		}
	}

	if len(notes) > 0 {
		b.WriteString("\nYou can also check these searches directly:\n")
		for _, link := range SearchLinks(req) {
			fmt.Fprintf(&b, "- %s: %s\n", link.Label, link.URL)
		}
	}

	return b.String()
}

// FormatFlexible renders flexible-date results: the merged cross-date
// list, already price-sorted, with its date-offset annotations.
func (f *Formatter) FormatFlexible(ctx context.Context, offers []search.Offer, req search.Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "No flights matched %s exactly, but nearby dates have availability (%s → %s, %s):\n\n",
		req.DepartDate.Format(search.DateFormat), req.Origin, req.Destination, cabinLabel(req.Cabin))

	b.WriteString("| # | Date | Airline | Flights | Duration | Stops | Price | Source |\n")
	b.WriteString("|---|------|---------|---------|----------|-------|-------|--------|\n")
	for i, offer := range offers {
		date := offer.Departure.Time.Format(search.DateFormat)
		fmt.Fprintf(&b, "| %d | %s (%s) | %s | %s | %s | %d | %s | %s |\n",
			i+1, date, offer.DateOffsetLabel, offer.AirlineCode,
			strings.Join(offer.FlightNumbers, ", "),
			durationLabel(offer.DurationMinutes), offer.StopCount,
			priceLabel(offer), offer.Source)
	}

	return b.String()
}

// RenderFailure turns a terminal failure into caller-facing text with
// the fallback links attached.
func (f *Formatter) RenderFailure(payload *search.FailurePayload) string {
	var b strings.Builder
	b.WriteString(payload.Message)
	b.WriteString("\n\nSearched: ")
	fmt.Fprintf(&b, "%s → %s on %s, %s, %d passenger(s)\n",
		payload.Request.Origin, payload.Request.Destination,
		payload.Request.DepartDate.Format(search.DateFormat),
		cabinLabel(payload.Request.Cabin), payload.Request.Passengers)
	if len(payload.Links) > 0 {
		b.WriteString("\nTry these searches directly:\n")
		for _, link := range payload.Links {
			fmt.Fprintf(&b, "- %s: %s\n", link.Label, link.URL)
		}
	}
	return b.String()
}

func (f *Formatter) bookingLink(ctx context.Context, req search.Request) string {
	if f.Booking == nil {
		return ""
	}
	url, err := f.Booking.CreateBookingSession(ctx, req.Origin, req.Destination, req.DepartDate, req.ReturnDate, req.Passengers)
	if err != nil {
		log.Warnf(ctx, "booking session link unavailable: %v", err)
		return ""
	}
	return url
}

func priceLabel(offer search.Offer) string {
	if offer.Source == search.SourceAward {
		label := humanize.Comma(int64(offer.Price.Amount)) + " miles"
		if offer.Program != "" {
			label += " (" + offer.Program + ")"
		}
		return label
	}
	if offer.Price.Display != "" {
		return offer.Price.Display
	}
	return fmt.Sprintf("%.2f %s", offer.Price.Amount, offer.Price.Unit)
}

func durationLabel(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func timeLabel(e search.Endpoint) string {
	label := e.Airport
	if !e.Time.IsZero() {
		label += " " + e.Time.Format("15:04")
	}
	if e.Terminal != "" {
		label += " T" + e.Terminal
	}
	return label
}

func seatsLabel(seats int) string {
	if seats <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", seats)
}

func cabinLabel(c search.Cabin) string {
	return strings.ReplaceAll(c.String(), "_", " ")
}
