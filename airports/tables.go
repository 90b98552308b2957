package airports

import "github.com/nmehta6/awardsearch/search"

// cityAliases maps unambiguous city/airport names to their IATA code.
var cityAliases = map[string]string{
	"frankfurt":     "FRA",
	"phuket":        "HKT",
	"singapore":     "SIN",
	"amsterdam":     "AMS",
	"zurich":        "ZRH",
	"vienna":        "VIE",
	"madrid":        "MAD",
	"barcelona":     "BCN",
	"lisbon":        "LIS",
	"dubai":         "DXB",
	"hong kong":     "HKG",
	"bangkok":       "BKK",
	"san francisco": "SFO",
	"seattle":       "SEA",
	"boston":        "BOS",
	"atlanta":       "ATL",
	"denver":        "DEN",
	"krabi":         "KBV",
	"munich":        "MUC",
	"istanbul":      "IST",
	"sydney":        "SYD",
	"auckland":      "AKL",
}

// ambiguousCities are metro areas served by several airports; resolving
// them needs a caller decision.
var ambiguousCities = map[string][]string{
	"london":      {"LHR", "LGW", "STN", "LTN", "LCY"},
	"new york":    {"JFK", "LGA", "EWR"},
	"paris":       {"CDG", "ORY"},
	"tokyo":       {"HND", "NRT"},
	"milan":       {"MXP", "LIN", "BGY"},
	"chicago":     {"ORD", "MDW"},
	"los angeles": {"LAX", "BUR", "LGB", "SNA", "ONT"},
	"moscow":      {"SVO", "DME", "VKO"},
	"sao paulo":   {"GRU", "CGH"},
	"washington":  {"IAD", "DCA", "BWI"},
}

// nearbyAirports lists substitute airports per code, most relevant
// first, with conservative static travel labels.
var nearbyAirports = map[string][]search.Alternative{
	"JFK": {
		{Code: "LGA", DisplayName: "LaGuardia", City: "New York", TravelTimeLabel: "30 min drive"},
		{Code: "EWR", DisplayName: "Newark Liberty", City: "Newark", TravelTimeLabel: "50 min drive"},
		{Code: "HPN", DisplayName: "Westchester County", City: "White Plains", TravelTimeLabel: "55 min drive"},
	},
	"LGA": {
		{Code: "JFK", DisplayName: "John F. Kennedy", City: "New York", TravelTimeLabel: "30 min drive"},
		{Code: "EWR", DisplayName: "Newark Liberty", City: "Newark", TravelTimeLabel: "45 min drive"},
	},
	"LHR": {
		{Code: "LGW", DisplayName: "London Gatwick", City: "London", TravelTimeLabel: "1 h drive"},
		{Code: "LTN", DisplayName: "London Luton", City: "London", TravelTimeLabel: "50 min drive"},
		{Code: "STN", DisplayName: "London Stansted", City: "London", TravelTimeLabel: "1 h 20 min drive"},
	},
	"FRA": {
		{Code: "CGN", DisplayName: "Cologne Bonn", City: "Cologne", TravelTimeLabel: "1 h by train"},
		{Code: "STR", DisplayName: "Stuttgart", City: "Stuttgart", TravelTimeLabel: "1 h 20 min by train"},
	},
	"CDG": {
		{Code: "ORY", DisplayName: "Paris Orly", City: "Paris", TravelTimeLabel: "50 min drive"},
		{Code: "BVA", DisplayName: "Beauvais-Tillé", City: "Beauvais", TravelTimeLabel: "1 h 15 min drive"},
	},
	"HND": {
		{Code: "NRT", DisplayName: "Narita", City: "Tokyo", TravelTimeLabel: "1 h 30 min by train"},
	},
	"NRT": {
		{Code: "HND", DisplayName: "Haneda", City: "Tokyo", TravelTimeLabel: "1 h 30 min by train"},
	},
	"SFO": {
		{Code: "OAK", DisplayName: "Oakland", City: "Oakland", TravelTimeLabel: "35 min drive"},
		{Code: "SJC", DisplayName: "San José Mineta", City: "San Jose", TravelTimeLabel: "40 min drive"},
	},
	"LAX": {
		{Code: "BUR", DisplayName: "Hollywood Burbank", City: "Burbank", TravelTimeLabel: "40 min drive"},
		{Code: "SNA", DisplayName: "John Wayne", City: "Santa Ana", TravelTimeLabel: "50 min drive"},
		{Code: "ONT", DisplayName: "Ontario", City: "Ontario", TravelTimeLabel: "1 h drive"},
	},
	"HKT": {
		{Code: "KBV", DisplayName: "Krabi", City: "Krabi", TravelTimeLabel: "2 h 30 min drive"},
		{Code: "UTP", DisplayName: "U-Tapao Rayong-Pattaya", City: "Rayong", TravelTimeLabel: "short domestic hop"},
	},
	"BKK": {
		{Code: "DMK", DisplayName: "Don Mueang", City: "Bangkok", TravelTimeLabel: "45 min drive"},
	},
	"MXP": {
		{Code: "LIN", DisplayName: "Milan Linate", City: "Milan", TravelTimeLabel: "50 min drive"},
		{Code: "BGY", DisplayName: "Orio al Serio", City: "Bergamo", TravelTimeLabel: "1 h drive"},
	},
}
