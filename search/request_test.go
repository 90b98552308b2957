package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidate(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	depart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC)
	pastReturn := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     Request
		problem string
	}{
		{
			name: "valid one-way",
			req:  Request{Origin: "FRA", Destination: "HKT", DepartDate: depart, Passengers: 1},
		},
		{
			name: "valid round trip",
			req:  Request{Origin: "FRA", Destination: "HKT", DepartDate: depart, ReturnDate: &ret, Passengers: 2},
		},
		{
			name: "departure today is allowed",
			req:  Request{Origin: "FRA", Destination: "HKT", DepartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Passengers: 1},
		},
		{
			name:    "past departure",
			req:     Request{Origin: "FRA", Destination: "HKT", DepartDate: now.AddDate(0, 0, -5), Passengers: 1},
			problem: "in the past",
		},
		{
			name:    "missing departure",
			req:     Request{Origin: "FRA", Destination: "HKT", Passengers: 1},
			problem: "departure date is missing",
		},
		{
			name:    "return before departure",
			req:     Request{Origin: "FRA", Destination: "HKT", DepartDate: ret, ReturnDate: &pastReturn, Passengers: 1},
			problem: "before departure",
		},
		{
			name:    "bad origin",
			req:     Request{Origin: "FRAN", Destination: "HKT", DepartDate: depart, Passengers: 1},
			problem: "origin",
		},
		{
			name:    "zero passengers",
			req:     Request{Origin: "FRA", Destination: "HKT", DepartDate: depart},
			problem: "passenger count",
		},
		{
			name:    "too many passengers",
			req:     Request{Origin: "FRA", Destination: "HKT", DepartDate: depart, Passengers: 12},
			problem: "passenger count",
		},
		{
			name:    "flexibility out of range",
			req:     Request{Origin: "FRA", Destination: "HKT", DepartDate: depart, Passengers: 1, FlexibilityDays: 5},
			problem: "flexibility",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(now)
			if tt.problem == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestRequestValidate_CollectsAllProblems(t *testing.T) {
	req := Request{Origin: "X", Destination: "Y"}
	err := req.Validate(time.Now())
	require.NotNil(t, err)
	assert.GreaterOrEqual(t, len(err.Problems), 4)
}

func TestRequestShiftDatesPreservesTripLength(t *testing.T) {
	depart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	ret := depart.AddDate(0, 0, 7)
	req := Request{Origin: "FRA", Destination: "HKT", DepartDate: depart, ReturnDate: &ret, Passengers: 1}

	shifted := req.shiftDates(2)
	assert.Equal(t, depart.AddDate(0, 0, 2), shifted.DepartDate)
	require.NotNil(t, shifted.ReturnDate)
	assert.Equal(t, ret.AddDate(0, 0, 2), *shifted.ReturnDate)

	// The original request is untouched.
	assert.Equal(t, depart, req.DepartDate)
	assert.Equal(t, ret, *req.ReturnDate)
}

func TestParseCabin(t *testing.T) {
	tests := []struct {
		in      string
		want    Cabin
		wantErr bool
	}{
		{"economy", Economy, false},
		{"", Economy, false},
		{"Premium Economy", PremiumEconomy, false},
		{"BUSINESS", Business, false},
		{"first", First, false},
		{"steerage", Economy, true},
	}
	for _, tt := range tests {
		got, err := ParseCabin(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRequestParams(t *testing.T) {
	depart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	req := Request{
		Origin: "FRA", Destination: "HKT", DepartDate: depart,
		Cabin: Business, Passengers: 2, LoyaltyPrograms: []string{"aeroplan", "lifemiles"},
	}

	params := req.Params()
	assert.Equal(t, "FRA", params["origin"])
	assert.Equal(t, "2025-03-15", params["depart_date"])
	assert.Equal(t, "business", params["cabin"])
	assert.Equal(t, "aeroplan,lifemiles", params["loyalty_programs"])
	_, hasReturn := params["return_date"]
	assert.False(t, hasReturn)
}
