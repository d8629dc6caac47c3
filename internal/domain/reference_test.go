package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantUnset  bool
		wantInline bool
		wantID     ID
	}{
		{name: "null", json: `null`, wantUnset: true},
		{name: "number", json: `3`, wantID: "3"},
		{name: "string", json: `"3"`, wantID: "3"},
		{name: "empty string", json: `""`, wantUnset: true},
		{name: "object with name", json: `{"id": 3, "name": "PIA"}`, wantInline: true, wantID: "3"},
		{name: "object without name", json: `{"id": 3}`, wantID: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			require.NoError(t, json.Unmarshal([]byte(tt.json), &r))

			assert.Equal(t, tt.wantUnset, r.IsUnset())
			assert.Equal(t, tt.wantInline, r.IsInline())
			assert.Equal(t, tt.wantID, r.ID())
		})
	}
}

func TestRef_MarshalRoundTripKeepsVariant(t *testing.T) {
	for _, r := range []Ref{Unset(), ByID("3"), Inline(ReferenceEntity{ID: "3", Name: "PIA", Logo: "pia.png"})} {
		data, err := json.Marshal(r)
		require.NoError(t, err)

		var back Ref
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, r, back, r.String())
	}
}

func TestRef_String(t *testing.T) {
	assert.Equal(t, "unset", Unset().String())
	assert.Equal(t, "id:3", ByID("3").String())
	assert.Equal(t, "inline:3(PIA)", Inline(ReferenceEntity{ID: "3", Name: "PIA"}).String())
	assert.True(t, ByID("").IsUnset())
}

func TestReferenceKind_Path(t *testing.T) {
	assert.Equal(t, "airlines", KindAirline.Path())
	assert.Equal(t, "cities", KindCity.Path())
}

func TestNewSnapshot(t *testing.T) {
	captured := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	snap := NewSnapshot(nil,
		[]ReferenceEntity{{ID: "3", Name: "PIA"}, {Name: "no id"}},
		[]ReferenceEntity{{ID: "1", Name: "Lahore", Code: "LHE"}, {ID: "8", Name: "Dubai"}},
		captured)

	assert.NotNil(t, snap.Tickets)
	assert.Len(t, snap.Airlines, 1)
	assert.Equal(t, "PIA", snap.Table(KindAirline)["3"].Name)
	assert.Equal(t, "Lahore", snap.Table(KindCity)["1"].Name)
	assert.Equal(t, map[ID]string{"1": "LHE"}, snap.CityCodes)
	assert.Equal(t, captured, snap.CapturedAt)

	var none *Snapshot
	assert.Nil(t, none.Table(KindCity))
}

func TestSnapshot_CheckUsable(t *testing.T) {
	captured := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	withTickets := NewSnapshot([]Ticket{{ID: "1"}}, nil, nil, captured)
	empty := NewSnapshot(nil, nil, nil, captured)

	assert.NoError(t, withTickets.CheckUsable(captured.Add(4*time.Minute), 5*time.Minute))
	assert.ErrorIs(t, withTickets.CheckUsable(captured.Add(5*time.Minute), 5*time.Minute), ErrSnapshotExpired, "age equal to the TTL is stale")
	assert.ErrorIs(t, empty.CheckUsable(captured, 5*time.Minute), ErrSnapshotEmpty)
	assert.ErrorIs(t, empty.CheckUsable(captured.Add(time.Hour), 5*time.Minute), ErrSnapshotEmpty, "emptiness wins over age")

	var none *Snapshot
	assert.ErrorIs(t, none.CheckUsable(captured, time.Minute), ErrSnapshotEmpty)
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	captured := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	snap := NewSnapshot([]Ticket{{
		ID:       "1",
		Airline:  Inline(ReferenceEntity{ID: "3", Name: "PIA"}),
		TripLegs: []TripLeg{{TripType: TripDeparture, DepartureCity: ByID("1"), ArrivalCity: ByID("2")}},
	}}, []ReferenceEntity{{ID: "3", Name: "PIA"}}, []ReferenceEntity{{ID: "1", Name: "Lahore", Code: "LHE"}}, captured)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))

	assert.True(t, back.CapturedAt.Equal(captured))
	assert.Equal(t, snap.Airlines, back.Airlines)
	assert.Equal(t, snap.CityCodes, back.CityCodes)
	require.Len(t, back.Tickets, 1)
	assert.True(t, back.Tickets[0].Airline.IsInline())
	assert.Equal(t, ID("2"), back.Tickets[0].Outbound().ArrivalCity.ID())
}
