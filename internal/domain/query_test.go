package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
		ok   bool
	}{
		{"price", SortByPrice, true},
		{" PRICE ", SortByPrice, true},
		{"departuredate", SortByDepartureDate, true},
		{"travelDatePassed", SortByTravelDatePassed, true},
		{"rating", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSortKey(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortKey_AllValid(t *testing.T) {
	for _, k := range AllSortKeys {
		assert.True(t, k.IsValid(), k)
	}
	assert.False(t, SortKey("best").IsValid())
}

func TestQuery_Validate(t *testing.T) {
	valid := Query{SortKeys: []SortKey{SortByAirline, SortByDeleteHistory}}
	assert.NoError(t, valid.Validate())

	invalid := Query{SortKeys: []SortKey{SortByPrice, "rating"}}
	err := invalid.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "rating")
}

func TestQuery_ActiveSortKeys(t *testing.T) {
	q := Query{SortKeys: []SortKey{SortByPrice, SortByAirline, SortByPrice, SortByUmrahGroups}}

	assert.Equal(t, []SortKey{SortByPrice, SortByAirline, SortByUmrahGroups}, q.ActiveSortKeys())
	assert.Empty(t, (&Query{}).ActiveSortKeys())
}

func TestSession_IsValid(t *testing.T) {
	assert.True(t, Session{OrganizationID: "7", Token: "t"}.IsValid())
	assert.False(t, Session{OrganizationID: "7"}.IsValid())
	assert.False(t, Session{Token: "t"}.IsValid())
}
