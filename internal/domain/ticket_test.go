package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want ID
	}{
		{"number", `42`, "42"},
		{"string", `" 42 "`, "42"},
		{"null", `null`, ""},
		{"expanded object", `{"id": 7, "name": "Agency"}`, "7"},
		{"uuid string", `"a1b2-c3"`, "a1b2-c3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.json), &id))
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestID_IsNumeric(t *testing.T) {
	assert.True(t, ID("42").IsNumeric())
	assert.False(t, ID("").IsNumeric())
	assert.False(t, ID("a1").IsNumeric())
	assert.False(t, ID("-1").IsNumeric())
}

func TestParseTripType(t *testing.T) {
	assert.Equal(t, TripDeparture, ParseTripType(" departure "))
	assert.Equal(t, TripDeparture, ParseTripType("Outbound"))
	assert.Equal(t, TripReturn, ParseTripType("RETURN"))
	assert.Equal(t, TripType(""), ParseTripType("layover"))
}

func TestTicket_UnmarshalJSON(t *testing.T) {
	body := `{
		"id": 11,
		"organization": "7",
		"airline": {"id": 3, "name": "PIA", "logo": "pia.png"},
		"adult_price": 950.5,
		"reselling_allowed": true,
		"is_umrah_seat": true,
		"trip_details": [
			{"trip_type": "departure", "departure_city": 1, "arrival_city": {"id": 2}, "departure_date_time": "2025-03-14 08:00:00"},
			{"trip_type": "Return", "departure_city": 2, "arrival_city": 1, "departure_date_time": "not a date"}
		],
		"stopovers": [{"trip_type": "Departure", "stopover_city": 8, "stopover_duration": "150"}],
		"booking": {"pnr_number": "PK7788"}
	}`

	var ticket Ticket
	require.NoError(t, json.Unmarshal([]byte(body), &ticket))

	assert.Equal(t, ID("11"), ticket.ID)
	assert.Equal(t, ID("7"), ticket.OwnerOrganizationID)
	assert.True(t, ticket.Airline.IsInline())
	assert.Equal(t, 950.5, ticket.AdultPrice)
	assert.True(t, ticket.IsUmrahSeat)

	out := ticket.Outbound()
	require.NotNil(t, out)
	assert.Equal(t, ID("2"), out.ArrivalCity.ID())
	assert.False(t, out.ArrivalCity.IsInline(), "an object without a name is a bare id")
	assert.Equal(t, time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC), out.DepartureAt.Time)

	ret := ticket.Return()
	require.NotNil(t, ret)
	assert.True(t, ret.DepartureAt.IsZero(), "unparseable timestamps decode as absent")

	stop := ticket.StopoverFor(TripDeparture)
	require.NotNil(t, stop)
	assert.Equal(t, 150, stop.Duration.Minutes)
	assert.Nil(t, ticket.StopoverFor(TripReturn))

	assert.Equal(t, []string{"PK7788"}, ticket.PNRCandidates())
}

func TestTicket_Legs(t *testing.T) {
	leg := func(tt TripType, from string) TripLeg {
		return TripLeg{TripType: tt, DepartureCity: ByID(ID(from))}
	}

	tests := []struct {
		name         string
		legs         []TripLeg
		wantOutbound string
		wantReturn   string
	}{
		{"no legs", nil, "", ""},
		{"typed legs out of order", []TripLeg{leg(TripReturn, "2"), leg(TripDeparture, "1")}, "1", "2"},
		{"untyped one way", []TripLeg{leg("", "1")}, "1", ""},
		{"untyped round trip", []TripLeg{leg("", "1"), leg("", "2")}, "1", "2"},
		{"three untyped legs have no return", []TripLeg{leg("", "1"), leg("", "2"), leg("", "3")}, "1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := Ticket{TripLegs: tt.legs}
			assert.Equal(t, len(tt.legs) > 0, ticket.HasLegs())

			if tt.wantOutbound == "" {
				assert.Nil(t, ticket.Outbound())
			} else {
				require.NotNil(t, ticket.Outbound())
				assert.Equal(t, ID(tt.wantOutbound), ticket.Outbound().DepartureCity.ID())
			}

			if tt.wantReturn == "" {
				assert.Nil(t, ticket.Return())
			} else {
				require.NotNil(t, ticket.Return())
				assert.Equal(t, ID(tt.wantReturn), ticket.Return().DepartureCity.ID())
			}
		})
	}
}

func TestTicket_StopoverForUntypedIndex(t *testing.T) {
	ticket := Ticket{Stopovers: []Stopover{
		{StopoverCity: ByID("8")},
		{StopoverCity: ByID("9")},
	}}

	assert.Equal(t, ID("8"), ticket.StopoverFor(TripDeparture).StopoverCity.ID())
	assert.Equal(t, ID("9"), ticket.StopoverFor(TripReturn).StopoverCity.ID())
}

func TestTicket_PNRCandidatesOrder(t *testing.T) {
	ticket := Ticket{
		PNR:            " ",
		Code:           "C1",
		BookingDetails: &BookingInfo{BookingReference: "BR2"},
		Booking:        &BookingInfo{PNR: "B1"},
	}

	assert.Equal(t, []string{"C1", "B1", "BR2"}, ticket.PNRCandidates())
}

func TestTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2025-03-14T08:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC), ts.Time)

	_, err = ParseTimestamp("14/03/2025")
	assert.Error(t, err)

	var absent Timestamp
	assert.Zero(t, absent.UnixMilli())
	data, err := json.Marshal(absent)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-14T08:00:00Z"`, string(data))
}

func TestStopoverDuration(t *testing.T) {
	tests := []struct {
		json      string
		minutes   int
		text      string
		formatted string
	}{
		{`150`, 150, "", "2h 30m"},
		{`"120"`, 120, "", "2h"},
		{`45`, 45, "", "45m"},
		{`"overnight"`, 0, "overnight", "overnight"},
		{`null`, 0, "", ""},
		{`-5`, 0, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			var d StopoverDuration
			require.NoError(t, json.Unmarshal([]byte(tt.json), &d))

			assert.Equal(t, tt.minutes, d.Minutes)
			assert.Equal(t, tt.text, d.Text)
			assert.Equal(t, tt.formatted, d.Formatted())
			assert.Equal(t, tt.formatted == "", d.IsZero())
		})
	}
}
