package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityFixedPoint(t *testing.T) {
	assert.Equal(t, Quantity(50_000), NewQuantityFromInt(5))
	assert.Equal(t, Quantity(25_000), NewQuantityFromFloat64(2.5))
	assert.Equal(t, Quantity(-25_000), NewQuantityFromFloat64(-2.5))
	assert.Equal(t, 2.5, Quantity(25_000).Float64())

	assert.True(t, Quantity(0).IsZero())
	assert.True(t, NewQuantityFromInt(1).IsPositive())
	assert.True(t, NewQuantityFromInt(-1).IsNegative())
	assert.Equal(t, NewQuantityFromInt(4), NewQuantityFromInt(-4).Abs())
	assert.Equal(t, NewQuantityFromInt(-4), NewQuantityFromInt(4).Neg())
}

func TestQuantityFloorZero(t *testing.T) {
	// available = max(0, on_hand - reserved)
	assert.Equal(t, Quantity(0), NewQuantityFromInt(-3).FloorZero())
	assert.Equal(t, NewQuantityFromInt(3), NewQuantityFromInt(3).FloorZero())
	assert.Equal(t, Quantity(0), Quantity(0).FloorZero())
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "5.0000", NewQuantityFromInt(5).String())
	assert.Equal(t, "2.5000", NewQuantityFromFloat64(2.5).String())
	assert.Equal(t, "-0.2500", NewQuantityFromFloat64(-0.25).String())
	assert.Equal(t, "0.0000", Quantity(0).String())
}

func TestQuantityJSON(t *testing.T) {
	data, err := json.Marshal(NewQuantityFromFloat64(12.25))
	require.NoError(t, err)
	// JSON carries a plain number with four fractional digits.
	assert.Equal(t, "12.2500", string(data))

	var q Quantity
	require.NoError(t, json.Unmarshal([]byte("12.25"), &q))
	assert.Equal(t, NewQuantityFromFloat64(12.25), q)

	// String form is accepted too.
	require.NoError(t, json.Unmarshal([]byte(`"7.5"`), &q))
	assert.Equal(t, NewQuantityFromFloat64(7.5), q)

	require.NoError(t, json.Unmarshal([]byte("null"), &q))
	assert.Equal(t, Quantity(0), q)
}

func TestParseQuantityString(t *testing.T) {
	tests := []struct {
		in      string
		want    Quantity
		wantErr bool
	}{
		{"5", NewQuantityFromInt(5), false},
		{"-5", NewQuantityFromInt(-5), false},
		{"+5", NewQuantityFromInt(5), false},
		{"2.5", Quantity(25_000), false},
		{"0.0001", Quantity(1), false},
		{".5", Quantity(5_000), false},
		{"2.50009", Quantity(25_000), false}, // extra digits truncated
		{"1e3", NewQuantityFromInt(1000), false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseQuantityString(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
