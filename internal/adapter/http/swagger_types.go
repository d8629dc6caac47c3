// Package http provides swagger type definitions for API documentation.
// These types mirror domain types but are defined here to help swag generate proper documentation.
package http

import "time"

// SwaggerListTicketsResponse represents the ticket listing response.
// @Description Visible tickets with facets and load metadata
type SwaggerListTicketsResponse struct {
	// Tickets contains the filtered and sorted tickets
	Tickets []SwaggerTicket `json:"tickets"`

	// Facets lists the filter values available across the visible inventory
	Facets SwaggerFacets `json:"facets"`

	// Metadata tells where the listing came from
	Metadata SwaggerMetadata `json:"metadata"`
}

// SwaggerFacets lists filter values.
// @Description Distinct route codes and airline names, sorted ascending
type SwaggerFacets struct {
	Routes   []string `json:"routes" example:"LHE-JED,LHE-JED-LHE"`
	Airlines []string `json:"airlines" example:"PIA,Saudia"`
}

// SwaggerMetadata describes the listing source.
// @Description Listing source and load state
type SwaggerMetadata struct {
	// TotalResults is the number of tickets returned
	TotalResults int `json:"totalResults" example:"12"`

	// Source is one of cache, backend, stale, empty
	Source string `json:"source" example:"cache"`

	// IsLoading is set while a refresh is still running
	IsLoading bool `json:"isLoading" example:"false"`

	// Error is the load failure shown to the user
	Error string `json:"error,omitempty" example:"Unable to reach the inventory service. Check your connection and try again."`
}

// SwaggerTicket represents a ticket ready for display.
// @Description Ticket with airline and cities resolved
type SwaggerTicket struct {
	ID               string      `json:"id" example:"101"`
	OrganizationID   string      `json:"organizationId" example:"7"`
	AirlineName      string      `json:"airlineName" example:"PIA"`
	AirlineLogo      string      `json:"airlineLogo,omitempty" example:"https://cdn.example.com/pia.png"`
	RouteCode        string      `json:"routeCode" example:"LHE-JED-LHE"`
	AdultPrice       float64     `json:"adultPrice" example:"185000"`
	LeftSeats        int         `json:"leftSeats" example:"9"`
	IsRefundable     bool        `json:"isRefundable" example:"true"`
	IsMealIncluded   bool        `json:"isMealIncluded" example:"true"`
	IsUmrahSeat      bool        `json:"isUmrahSeat" example:"true"`
	IsClosed         bool        `json:"isClosed" example:"false"`
	IsDeleted        bool        `json:"isDeleted" example:"false"`
	ResellingAllowed bool        `json:"resellingAllowed" example:"true"`
	PNR              string      `json:"pnr,omitempty" example:"PK7788"`
	Outbound         *SwaggerLeg `json:"outbound,omitempty"`
	Return           *SwaggerLeg `json:"return,omitempty"`
}

// SwaggerLeg represents one direction of a trip.
// @Description Trip leg with resolved cities
type SwaggerLeg struct {
	DepartureCity     string           `json:"departureCity" example:"Lahore"`
	DepartureCityCode string           `json:"departureCityCode" example:"LHE"`
	ArrivalCity       string           `json:"arrivalCity" example:"Jeddah"`
	ArrivalCityCode   string           `json:"arrivalCityCode" example:"JED"`
	DepartureAt       time.Time        `json:"departureAt" example:"2025-03-12T04:30:00Z"`
	ArrivalAt         time.Time        `json:"arrivalAt" example:"2025-03-12T09:10:00Z"`
	FlightNumber      string           `json:"flightNumber,omitempty" example:"PK-759"`
	Stopover          *SwaggerStopover `json:"stopover,omitempty"`
}

// SwaggerStopover represents a stop within a leg.
// @Description Stopover with resolved city
type SwaggerStopover struct {
	City         string `json:"city" example:"Dubai"`
	Duration     string `json:"duration,omitempty" example:"2h 30m"`
	FlightNumber string `json:"flightNumber,omitempty" example:"EK-623"`
}
