package model

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.June, 1), d)
	assert.Equal(t, "2024-06-01", d.String())

	for _, bad := range []string{"", "2024-6-1", "01/06/2024", "2024-02-30", "2024-06-01T10:00:00Z"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateOrderingAndNights(t *testing.T) {
	a := NewDate(2024, time.June, 1)
	b := NewDate(2024, time.June, 4)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.Equal(t, 3, a.DaysUntil(b))
	assert.Equal(t, b, a.AddDays(3))

	// across a DST change in most zones and a month boundary
	assert.Equal(t, 2, NewDate(2024, time.March, 30).DaysUntil(NewDate(2024, time.April, 1)))
	// ISO form sorts the same way as the dates themselves
	assert.Less(t, a.String(), b.String())
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2024, time.June, 1, 23, 30, 0, 0, time.UTC).In(loc)
	assert.Equal(t, NewDate(2024, time.June, 2), DateOf(ts))
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		CheckIn  Date `json:"check_in"`
		CheckOut Date `json:"check_out"`
	}
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"check_in":"2024-06-01","check_out":null}`), &p))
	assert.Equal(t, NewDate(2024, time.June, 1), p.CheckIn)
	assert.True(t, p.CheckOut.IsZero())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"check_in":"2024-06-01","check_out":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"check_in":"June 1st"}`), &p))
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-06-01"))
	assert.Equal(t, NewDate(2024, time.June, 1), d)

	require.NoError(t, d.Scan([]byte("2024-06-02 00:00:00")))
	assert.Equal(t, NewDate(2024, time.June, 2), d)

	require.NoError(t, d.Scan(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2024, time.June, 3), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2024, time.June, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
