package domain

// ListResult is the outcome of a listing request.
type ListResult struct {
	// Tickets contains the filtered and sorted tickets, ready for display
	Tickets []TicketView `json:"tickets"`

	// Facets lists the filter values available across the visible inventory
	Facets Facets `json:"facets"`

	// IsLoading is set when a refresh was still in flight when the result was built
	IsLoading bool `json:"isLoading"`

	// Error is the human-readable load failure, empty on success
	Error string `json:"error,omitempty"`

	// Source tells where the tickets came from: cache, backend, stale, or empty
	Source string `json:"source"`
}

// Result sources.
const (
	SourceCache   = "cache"
	SourceBackend = "backend"
	SourceStale   = "stale"
	SourceEmpty   = "empty"
)

// Facets holds the distinct filter values derived from visible tickets.
type Facets struct {
	Routes   []string `json:"routes"`
	Airlines []string `json:"airlines"`
}

// TicketView is a ticket with its references resolved for display.
type TicketView struct {
	ID                  ID       `json:"id"`
	OwnerOrganizationID ID       `json:"organizationId"`
	AirlineName         string   `json:"airlineName"`
	AirlineLogo         string   `json:"airlineLogo,omitempty"`
	RouteCode           string   `json:"routeCode"`
	AdultPrice          float64  `json:"adultPrice"`
	LeftSeats           int      `json:"leftSeats"`
	IsRefundable        bool     `json:"isRefundable"`
	IsMealIncluded      bool     `json:"isMealIncluded"`
	IsUmrahSeat         bool     `json:"isUmrahSeat"`
	IsClosed            bool     `json:"isClosed"`
	IsDeleted           bool     `json:"isDeleted"`
	ResellingAllowed    bool     `json:"resellingAllowed"`
	PNR                 string   `json:"pnr,omitempty"`
	Outbound            *LegView `json:"outbound,omitempty"`
	Return              *LegView `json:"return,omitempty"`
}

// LegView is a trip leg with resolved city names and its matched stopover.
type LegView struct {
	DepartureCity     string        `json:"departureCity"`
	DepartureCityCode string        `json:"departureCityCode"`
	ArrivalCity       string        `json:"arrivalCity"`
	ArrivalCityCode   string        `json:"arrivalCityCode"`
	DepartureAt       Timestamp     `json:"departureAt"`
	ArrivalAt         Timestamp     `json:"arrivalAt"`
	FlightNumber      string        `json:"flightNumber,omitempty"`
	Stopover          *StopoverView `json:"stopover,omitempty"`
}

// StopoverView is a stopover with a resolved city and formatted duration.
type StopoverView struct {
	City         string `json:"city"`
	Duration     string `json:"duration,omitempty"`
	FlightNumber string `json:"flightNumber,omitempty"`
}
