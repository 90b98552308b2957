package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmehta6/awardsearch/search"
)

func testRequest() search.Request {
	return search.Request{
		Origin:      "FRA",
		Destination: "HKT",
		DepartDate:  time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Cabin:       search.Business,
		Passengers:  1,
	}
}

func awardOffer() search.Offer {
	return search.Offer{
		Source:      search.SourceAward,
		AirlineCode: "LH",
		Program:     "aeroplan",
		Price:       search.Price{Amount: 70000, Unit: "miles", Display: "70000 miles"},
		Departure: search.Endpoint{
			Airport: "FRA",
			Time:    time.Date(2025, 3, 15, 10, 5, 0, 0, time.UTC),
		},
		Arrival: search.Endpoint{
			Airport: "HKT",
			Time:    time.Date(2025, 3, 16, 7, 40, 0, 0, time.UTC),
		},
		DurationMinutes: 815,
		StopCount:       1,
		SeatsRemaining:  4,
		FlightNumbers:   []string{"LH778", "LH792"},
	}
}

func cashOffer() search.Offer {
	return search.Offer{
		Source:      search.SourceCash,
		AirlineCode: "TG",
		Price:       search.Price{Amount: 2188.96, Unit: "EUR", Display: "2188.96 EUR"},
		Departure: search.Endpoint{
			Airport: "FRA",
			Time:    time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC),
		},
		Arrival: search.Endpoint{
			Airport: "HKT",
			Time:    time.Date(2025, 3, 16, 9, 25, 0, 0, time.UTC),
		},
		DurationMinutes: 785,
		StopCount:       1,
		FlightNumbers:   []string{"TG923", "TG201"},
	}
}

type stubBooking struct {
	url string
	err error
}

func (s *stubBooking) CreateBookingSession(ctx context.Context, origin, destination string, depart time.Time, ret *time.Time, passengers int) (string, error) {
	return s.url, s.err
}

func TestFormatRendersBothTables(t *testing.T) {
	f := &Formatter{}
	out := f.Format(context.Background(), []search.Offer{awardOffer()}, []search.Offer{cashOffer()}, testRequest(), nil)

	assert.Contains(t, out, "FRA → HKT on 2025-03-15")
	assert.Contains(t, out, "Award availability:")
	assert.Contains(t, out, "70,000 miles (aeroplan)")
	assert.Contains(t, out, "LH778, LH792")
	assert.Contains(t, out, "13h 35m")
	assert.Contains(t, out, "Cash fares:")
	assert.Contains(t, out, "2188.96 EUR")
	assert.Contains(t, out, "TG923, TG201")
	assert.Contains(t, out, "google.com/travel/flights")
	assert.Contains(t, out, "kayak.com")
	assert.NotContains(t, out, "Note:")
}

func TestFormatOmitsEmptyTables(t *testing.T) {
	f := &Formatter{}
	out := f.Format(context.Background(), []search.Offer{awardOffer()}, nil, testRequest(), nil)

	assert.Contains(t, out, "Award availability:")
	assert.NotContains(t, out, "Cash fares:")
}

func TestFormatNotesAndFallbackLinks(t *testing.T) {
	f := &Formatter{}
	notes := []string{"Cash fares could not be loaded; showing award availability only."}
	out := f.Format(context.Background(), []search.Offer{awardOffer()}, nil, testRequest(), notes)

	assert.Contains(t, out, "Note: Cash fares could not be loaded")
	assert.Contains(t, out, "You can also check these searches directly:")
	assert.Contains(t, out, "Google Flights:")
}

func TestFormatIncludesBookingLink(t *testing.T) {
	f := &Formatter{Booking: &stubBooking{url: "https://book.example/abc"}}
	out := f.Format(context.Background(), nil, []search.Offer{cashOffer()}, testRequest(), nil)

	assert.Contains(t, out, "[Book direct](https://book.example/abc)")
}

func TestFormatBookingFailureOmitsLink(t *testing.T) {
	f := &Formatter{Booking: &stubBooking{err: errors.New("session service down")}}
	out := f.Format(context.Background(), nil, []search.Offer{cashOffer()}, testRequest(), nil)

	assert.NotContains(t, out, "Book direct")
	assert.Contains(t, out, "Cash fares:")
}

func TestFormatFlexibleShowsOffsets(t *testing.T) {
	f := &Formatter{}
	offer := cashOffer()
	offer.DateOffsetDays = 1
	offer.DateOffsetLabel = "+1 day"
	offer.Departure.Time = offer.Departure.Time.AddDate(0, 0, 1)

	out := f.FormatFlexible(context.Background(), []search.Offer{offer}, testRequest())

	assert.Contains(t, out, "nearby dates have availability")
	assert.Contains(t, out, "2025-03-16 (+1 day)")
	assert.Contains(t, out, "cash")
}

func TestRenderFailureListsLinks(t *testing.T) {
	f := &Formatter{}
	req := testRequest()
	out := f.RenderFailure(&search.FailurePayload{
		Reason:  search.ReasonNoResults,
		Message: "No flights found for this search.",
		Request: req,
		Links:   SearchLinks(req),
	})

	assert.Contains(t, out, "No flights found for this search.")
	assert.Contains(t, out, "FRA → HKT on 2025-03-15")
	assert.Contains(t, out, "Google Flights:")
	assert.Contains(t, out, "Kayak:")
}

func TestSearchLinksAreDeterministic(t *testing.T) {
	req := testRequest()
	first := SearchLinks(req)
	second := SearchLinks(req)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "Google Flights", first[0].Label)
	assert.Equal(t, "Kayak", first[1].Label)
}

func TestGoogleFlightsURL(t *testing.T) {
	req := testRequest()
	ret := time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC)
	req.ReturnDate = &ret

	url := GoogleFlightsURL(req)
	assert.Contains(t, url, "https://www.google.com/travel/flights?")
	assert.Contains(t, url, "Flights+from+FRA+to+HKT+on+2025-03-15")
	assert.Contains(t, url, "returning+2025-03-22")
	assert.Contains(t, url, "business+class")
	assert.Contains(t, url, "curr=USD")
}

func TestKayakURL(t *testing.T) {
	req := testRequest()
	req.Passengers = 2
	req.NonStop = true
	ret := time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC)
	req.ReturnDate = &ret

	url := KayakURL(req)
	assert.Contains(t, url, "https://www.kayak.com/flights/FRA-HKT/2025-03-15/2025-03-22/business/2adults?")
	assert.Contains(t, url, "sort=bestflight_a")
	assert.Contains(t, url, "fs=stops%3D0")
}

func TestKayakURLOneWayEconomy(t *testing.T) {
	req := testRequest()
	req.Cabin = search.Economy

	url := KayakURL(req)
	assert.Contains(t, url, "/flights/FRA-HKT/2025-03-15?")
	assert.NotContains(t, url, "/business")
	assert.NotContains(t, url, "adults")
}
