// Package award is the adapter for the points/miles availability
// provider. It maps the shared search request onto the provider's wire
// format and normalizes mileage offers.
package award

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nmehta6/awardsearch/providers"
	"github.com/nmehta6/awardsearch/search"
)

const providerName = "award-inventory"

// Client is the award-inventory API client. Requests authenticate with a
// partner API key header.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Limiter    *providers.Limiter
}

// NewClient creates an award-inventory client.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("award base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("award API key is required")
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *Client) Name() string {
	return providerName
}

// availabilityResponse is the provider's wire shape.
type availabilityResponse struct {
	Data []availabilityEntry `json:"data"`
}

type availabilityEntry struct {
	Carrier        string     `json:"carrier"`
	Program        string     `json:"program"`
	Cabin          string     `json:"cabin"`
	MileageCost    int64      `json:"mileageCost"`
	FlightNumbers  []string   `json:"flightNumbers"`
	Departure      wirePoint  `json:"departure"`
	Arrival        wirePoint  `json:"arrival"`
	DurationMin    int        `json:"durationMinutes"`
	Stops          int        `json:"stops"`
	SeatsRemaining int        `json:"seatsRemaining"`
}

type wirePoint struct {
	Airport  string `json:"airport"`
	At       string `json:"at"`
	Terminal string `json:"terminal,omitempty"`
	Gate     string `json:"gate,omitempty"`
}

// Search queries award availability. An HTTP 200 with zero entries is a
// genuine empty result, never an error.
func (c *Client) Search(ctx context.Context, req search.Request, limit int) ([]search.Offer, error) {
	if err := c.Limiter.Wait(ctx, providerName); err != nil {
		return nil, providers.NewError(providerName, err)
	}

	q := url.Values{}
	q.Set("origin", req.Origin)
	q.Set("destination", req.Destination)
	q.Set("depart_date", req.DepartDate.Format(search.DateFormat))
	if req.ReturnDate != nil {
		q.Set("return_date", req.ReturnDate.Format(search.DateFormat))
	}
	q.Set("cabin", req.Cabin.String())
	q.Set("passengers", strconv.Itoa(req.Passengers))
	q.Set("limit", strconv.Itoa(limit))
	if req.NonStop {
		q.Set("non_stop", "true")
	}
	if len(req.LoyaltyPrograms) > 0 {
		q.Set("programs", strings.Join(req.LoyaltyPrograms, ","))
	}

	endpoint := c.BaseURL + "/v1/availability?" + q.Encode()

	var wire availabilityResponse
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Partner-Authorization", c.APIKey)
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.HTTPClient.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return providers.Permanent(&providers.StatusError{Code: resp.StatusCode, Status: resp.Status})
		}
		if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding availability response: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(providers.Backoff(), ctx)); err != nil {
		return nil, providers.NewError(providerName, err)
	}

	offers := make([]search.Offer, 0, len(wire.Data))
	for _, entry := range wire.Data {
		offers = append(offers, normalize(entry))
	}
	return offers, nil
}

func normalize(entry availabilityEntry) search.Offer {
	return search.Offer{
		Source:      search.SourceAward,
		AirlineCode: entry.Carrier,
		Program:     entry.Program,
		Price: search.Price{
			Amount:  float64(entry.MileageCost),
			Unit:    "miles",
			Display: fmt.Sprintf("%d miles", entry.MileageCost),
		},
		Departure:       point(entry.Departure),
		Arrival:         point(entry.Arrival),
		DurationMinutes: entry.DurationMin,
		StopCount:       entry.Stops,
		SeatsRemaining:  entry.SeatsRemaining,
		FlightNumbers:   entry.FlightNumbers,
	}
}

func point(p wirePoint) search.Endpoint {
	return search.Endpoint{
		Airport:  p.Airport,
		Time:     parseLocalTime(p.At),
		Terminal: p.Terminal,
		Gate:     p.Gate,
	}
}

// parseLocalTime accepts the provider's zone-less local timestamps, with
// an RFC3339 fallback. A zero time is returned for unparseable input.
func parseLocalTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
