// Package cash is the adapter for the commercial-fare provider. The
// upstream API is Amadeus-shaped: OAuth2 client-credentials auth and a
// flight-offers search endpoint.
package cash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nmehta6/awardsearch/providers"
	"github.com/nmehta6/awardsearch/search"
)

const providerName = "cash-fares"

const (
	BaseURLTest       = "https://test.api.amadeus.com"
	BaseURLProduction = "https://api.amadeus.com"
)

// Client is the cash-fare API client.
type Client struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	HTTPClient   *http.Client
	Limiter      *providers.Limiter

	mu    sync.Mutex
	token *authToken
}

type authToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	expiry      time.Time
}

// NewClient creates a cash-fare client against the test or production host.
func NewClient(clientID, clientSecret string, isProduction bool) (*Client, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("client secret is required")
	}

	baseURL := BaseURLTest
	if isProduction {
		baseURL = BaseURLProduction
	}

	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseURL:      baseURL,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *Client) Name() string {
	return providerName
}

// authenticate obtains a fresh access token.
func (c *Client) authenticate(ctx context.Context) error {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/security/oauth2/token", bytes.NewBufferString(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &providers.StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var token authToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return err
	}

	// Refresh slightly early to avoid using a token at its expiry edge.
	token.expiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - 10*time.Second)

	c.mu.Lock()
	c.token = &token
	c.mu.Unlock()
	return nil
}

func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token == nil || time.Now().After(token.expiry) {
		if err := c.authenticate(ctx); err != nil {
			return "", fmt.Errorf("failed to refresh token: %w", err)
		}
		c.mu.Lock()
		token = c.token
		c.mu.Unlock()
	}
	return token.AccessToken, nil
}

// --- Wire shapes (trimmed to what the search path consumes) ---

type offersResponse struct {
	Data []wireOffer `json:"data"`
}

type wireOffer struct {
	ID                     string          `json:"id"`
	NumberOfBookableSeats  int             `json:"numberOfBookableSeats"`
	Itineraries            []wireItinerary `json:"itineraries"`
	Price                  wirePrice       `json:"price"`
	ValidatingAirlineCodes []string        `json:"validatingAirlineCodes"`
}

type wireItinerary struct {
	Duration string        `json:"duration"`
	Segments []wireSegment `json:"segments"`
}

type wireSegment struct {
	Departure   wireEndPoint `json:"departure"`
	Arrival     wireEndPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
	Duration    string       `json:"duration"`
}

type wireEndPoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type wirePrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

// Search queries commercial fares and normalizes them into shared offers.
func (c *Client) Search(ctx context.Context, req search.Request, limit int) ([]search.Offer, error) {
	if err := c.Limiter.Wait(ctx, providerName); err != nil {
		return nil, providers.NewError(providerName, err)
	}

	endpoint := fmt.Sprintf("/v2/shopping/flight-offers?originLocationCode=%s&destinationLocationCode=%s&adults=%d&travelClass=%s&max=%d",
		req.Origin, req.Destination, req.Passengers, travelClass(req.Cabin), limit)
	endpoint += "&departureDate=" + req.DepartDate.Format(search.DateFormat)
	if req.ReturnDate != nil {
		endpoint += "&returnDate=" + req.ReturnDate.Format(search.DateFormat)
	}
	if req.NonStop {
		endpoint += "&nonStop=true"
	}

	var wire offersResponse
	operation := func() error {
		token, err := c.bearer(ctx)
		if err != nil {
			return err
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return providers.Permanent(&providers.StatusError{Code: resp.StatusCode, Status: resp.Status})
		}
		if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding flight-offers response: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(providers.Backoff(), ctx)); err != nil {
		return nil, providers.NewError(providerName, err)
	}

	offers := make([]search.Offer, 0, len(wire.Data))
	for _, w := range wire.Data {
		offer, err := normalize(w)
		if err != nil {
			return nil, providers.NewError(providerName, err)
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func normalize(w wireOffer) (search.Offer, error) {
	if len(w.Itineraries) == 0 || len(w.Itineraries[0].Segments) == 0 {
		return search.Offer{}, fmt.Errorf("offer %s has no segments", w.ID)
	}
	outbound := w.Itineraries[0]
	first := outbound.Segments[0]
	last := outbound.Segments[len(outbound.Segments)-1]

	airline := first.CarrierCode
	if len(w.ValidatingAirlineCodes) > 0 {
		airline = w.ValidatingAirlineCodes[0]
	}

	var flightNumbers []string
	for _, seg := range outbound.Segments {
		flightNumbers = append(flightNumbers, seg.CarrierCode+seg.Number)
	}

	total := w.Price.GrandTotal
	if total == "" {
		total = w.Price.Total
	}
	amount, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return search.Offer{}, fmt.Errorf("offer %s has unparseable price %q", w.ID, total)
	}

	duration, err := parseISODuration(outbound.Duration)
	if err != nil {
		return search.Offer{}, fmt.Errorf("offer %s has unparseable duration %q", w.ID, outbound.Duration)
	}

	return search.Offer{
		Source:      search.SourceCash,
		AirlineCode: airline,
		Price: search.Price{
			Amount:  amount,
			Unit:    w.Price.Currency,
			Display: fmt.Sprintf("%.2f %s", amount, w.Price.Currency),
		},
		Departure: search.Endpoint{
			Airport:  first.Departure.IataCode,
			Time:     parseLocalTime(first.Departure.At),
			Terminal: first.Departure.Terminal,
		},
		Arrival: search.Endpoint{
			Airport:  last.Arrival.IataCode,
			Time:     parseLocalTime(last.Arrival.At),
			Terminal: last.Arrival.Terminal,
		},
		DurationMinutes: duration,
		StopCount:       len(outbound.Segments) - 1,
		FlightNumbers:   flightNumbers,
	}, nil
}

// travelClass maps the shared cabin enum onto the provider's codes.
func travelClass(c search.Cabin) string {
	switch c {
	case search.PremiumEconomy:
		return "PREMIUM_ECONOMY"
	case search.Business:
		return "BUSINESS"
	case search.First:
		return "FIRST"
	default:
		return "ECONOMY"
	}
}

// parseISODuration parses the provider's ISO-8601 durations ("PT13H35M").
func parseISODuration(s string) (int, error) {
	rest, ok := strings.CutPrefix(s, "PT")
	if !ok {
		return 0, fmt.Errorf("not an ISO-8601 duration: %q", s)
	}

	minutes := 0
	if h, tail, found := strings.Cut(rest, "H"); found {
		n, err := strconv.Atoi(h)
		if err != nil {
			return 0, fmt.Errorf("bad hours in %q", s)
		}
		minutes += n * 60
		rest = tail
	}
	if m, _, found := strings.Cut(rest, "M"); found {
		n, err := strconv.Atoi(m)
		if err != nil {
			return 0, fmt.Errorf("bad minutes in %q", s)
		}
		minutes += n
	}
	return minutes, nil
}

func parseLocalTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
