package report

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nmehta6/awardsearch/search"
)

// SearchLinks builds the deterministic external search-engine deep links
// for a request. Pure function, no network calls; the caller-facing
// layer can always offer these as a next action.
func SearchLinks(req search.Request) []search.Link {
	return []search.Link{
		{Label: "Google Flights", URL: GoogleFlightsURL(req)},
		{Label: "Kayak", URL: KayakURL(req)},
	}
}

// GoogleFlightsURL builds a Google Flights query link for the route.
func GoogleFlightsURL(req search.Request) string {
	var q strings.Builder
	fmt.Fprintf(&q, "Flights from %s to %s on %s", req.Origin, req.Destination, req.DepartDate.Format(search.DateFormat))
	if req.ReturnDate != nil {
		fmt.Fprintf(&q, " returning %s", req.ReturnDate.Format(search.DateFormat))
	}
	if req.Cabin != search.Economy {
		fmt.Fprintf(&q, " %s class", strings.ReplaceAll(req.Cabin.String(), "_", " "))
	}

	values := url.Values{}
	values.Set("q", q.String())
	values.Set("curr", "USD")
	return "https://www.google.com/travel/flights?" + values.Encode()
}

// KayakURL builds a Kayak results link for the route.
func KayakURL(req search.Request) string {
	path := fmt.Sprintf("/flights/%s-%s/%s", req.Origin, req.Destination, req.DepartDate.Format(search.DateFormat))
	if req.ReturnDate != nil {
		path += "/" + req.ReturnDate.Format(search.DateFormat)
	}
	path += kayakCabinSegment(req.Cabin)
	if req.Passengers > 1 {
		path += fmt.Sprintf("/%dadults", req.Passengers)
	}

	values := url.Values{}
	values.Set("sort", "bestflight_a")
	if req.NonStop {
		values.Set("fs", "stops=0")
	}
	return "https://www.kayak.com" + path + "?" + values.Encode()
}

func kayakCabinSegment(c search.Cabin) string {
	switch c {
	case search.PremiumEconomy:
		return "/premium"
	case search.Business:
		return "/business"
	case search.First:
		return "/first"
	}
	return ""
}
