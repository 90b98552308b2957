package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmehta6/awardsearch/search"
)

type stubProvider struct {
	name   string
	offers []search.Offer
	last   search.Request
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, req search.Request, limit int) ([]search.Offer, error) {
	s.last = req
	return s.offers, nil
}

type stubCodes struct{}

func (stubCodes) ResolveCode(ctx context.Context, freeText string) (string, *search.Clarification, error) {
	if freeText == "london" {
		return "", &search.Clarification{Prompt: "Which London airport?"}, nil
	}
	return freeText, nil, nil
}

func awardOffer() search.Offer {
	return search.Offer{
		Source:      search.SourceAward,
		AirlineCode: "LH",
		Price:       search.Price{Amount: 70000, Unit: "miles", Display: "70000 miles"},
	}
}

func newTool(award, cash *stubProvider) *FlightSearchTool {
	o := search.New(award, cash)
	o.Clock = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return &FlightSearchTool{Orchestrator: o}
}

func baseArgs() map[string]interface{} {
	return map[string]interface{}{
		"origin":      "fra",
		"destination": "hkt",
		"depart_date": "2025-03-15",
	}
}

func TestExecuteMapsArguments(t *testing.T) {
	award := &stubProvider{name: "award", offers: []search.Offer{awardOffer()}}
	cash := &stubProvider{name: "cash"}
	tool := newTool(award, cash)

	args := baseArgs()
	args["return_date"] = "2025-03-22"
	args["cabin"] = "business"
	args["passengers"] = float64(2)
	args["non_stop"] = true
	args["flexibility_days"] = float64(2)
	args["session_id"] = "session-1"
	args["loyalty_programs"] = "aeroplan,lifemiles"

	result, err := tool.Execute(context.Background(), args)
	require.NoError(t, err)

	outcome, ok := result.(search.Outcome)
	require.True(t, ok)
	assert.Equal(t, search.KindResults, outcome.Kind)

	req := award.last
	assert.Equal(t, "FRA", req.Origin)
	assert.Equal(t, "HKT", req.Destination)
	assert.Equal(t, "2025-03-15", req.DepartDate.Format(search.DateFormat))
	require.NotNil(t, req.ReturnDate)
	assert.Equal(t, "2025-03-22", req.ReturnDate.Format(search.DateFormat))
	assert.Equal(t, search.Business, req.Cabin)
	assert.Equal(t, 2, req.Passengers)
	assert.True(t, req.NonStop)
	assert.Equal(t, 2, req.FlexibilityDays)
	assert.Equal(t, "session-1", req.SessionID)
	assert.Equal(t, []string{"aeroplan", "lifemiles"}, req.LoyaltyPrograms)
}

func TestExecuteDefaultsPassengersAndCabin(t *testing.T) {
	award := &stubProvider{name: "award", offers: []search.Offer{awardOffer()}}
	tool := newTool(award, &stubProvider{name: "cash"})

	_, err := tool.Execute(context.Background(), baseArgs())
	require.NoError(t, err)
	assert.Equal(t, 1, award.last.Passengers)
	assert.Equal(t, search.Economy, award.last.Cabin)
}

func TestExecuteAwardOnlySkipsCash(t *testing.T) {
	award := &stubProvider{name: "award", offers: []search.Offer{awardOffer()}}
	cash := &stubProvider{name: "cash"}
	tool := newTool(award, cash)

	args := baseArgs()
	args["award_only"] = true

	_, err := tool.Execute(context.Background(), args)
	require.NoError(t, err)
	assert.True(t, award.last.AwardOnly)
	assert.Empty(t, cash.last.Origin)
}

func TestExecuteMissingEndpoints(t *testing.T) {
	tool := newTool(&stubProvider{name: "award"}, &stubProvider{name: "cash"})

	_, err := tool.Execute(context.Background(), map[string]interface{}{"depart_date": "2025-03-15"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "origin and destination are required")
}

func TestExecuteMissingDepartDate(t *testing.T) {
	tool := newTool(&stubProvider{name: "award"}, &stubProvider{name: "cash"})

	_, err := tool.Execute(context.Background(), map[string]interface{}{
		"origin":      "fra",
		"destination": "hkt",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depart_date is required")
}

func TestExecuteBadDateFormat(t *testing.T) {
	tool := newTool(&stubProvider{name: "award"}, &stubProvider{name: "cash"})

	args := baseArgs()
	args["depart_date"] = "15/03/2025"

	_, err := tool.Execute(context.Background(), args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestExecuteBadCabin(t *testing.T) {
	tool := newTool(&stubProvider{name: "award"}, &stubProvider{name: "cash"})

	args := baseArgs()
	args["cabin"] = "suite"

	_, err := tool.Execute(context.Background(), args)
	require.Error(t, err)
}

func TestExecuteFreeformRoutesThroughResolver(t *testing.T) {
	award := &stubProvider{name: "award", offers: []search.Offer{awardOffer()}}
	tool := newTool(award, &stubProvider{name: "cash"})
	tool.Orchestrator.Codes = stubCodes{}

	args := baseArgs()
	args["origin"] = "london"

	result, err := tool.Execute(context.Background(), args)
	require.NoError(t, err)

	outcome, ok := result.(search.Outcome)
	require.True(t, ok)
	assert.Equal(t, search.KindClarificationNeeded, outcome.Kind)
	assert.Empty(t, award.last.Origin, "providers must not be called before clarification")
}

func TestToolMetadata(t *testing.T) {
	tool := &FlightSearchTool{}
	assert.Equal(t, "flight_search", tool.Name())
	assert.NotEmpty(t, tool.Description())
}
