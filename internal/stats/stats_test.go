package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestPer90(t *testing.T) {
	tests := []struct {
		name    string
		total   *float64
		minutes float64
		want    *float64
	}{
		{name: "full match", total: fptr(2), minutes: 90, want: fptr(2)},
		{name: "half match doubles the rate", total: fptr(1), minutes: 45, want: fptr(2)},
		{name: "below one minute is undefined, not zero", total: fptr(1), minutes: 0.5, want: nil},
		{name: "zero minutes", total: fptr(3), minutes: 0, want: nil},
		{name: "missing stat", total: nil, minutes: 90, want: nil},
		{name: "zero total over real minutes is a real zero", total: fptr(0), minutes: 90, want: fptr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Per90(tt.total, tt.minutes)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestRatio(t *testing.T) {
	got := Ratio(fptr(3), fptr(4))
	require.NotNil(t, got)
	assert.InDelta(t, 0.75, *got, 1e-9)

	assert.Nil(t, Ratio(fptr(3), fptr(0)))
	assert.Nil(t, Ratio(nil, fptr(4)))
	assert.Nil(t, Ratio(fptr(3), nil))
}

func TestQuantileMonotonic(t *testing.T) {
	values := []float64{4, 1, 7, 2, 9, 3, 8, 5, 6}
	p25 := Quantile(values, 25)
	p50 := Quantile(values, 50)
	p75 := Quantile(values, 75)
	p90 := Quantile(values, 90)
	require.NotNil(t, p25)
	require.NotNil(t, p50)
	require.NotNil(t, p75)
	require.NotNil(t, p90)
	assert.LessOrEqual(t, *p25, *p50)
	assert.LessOrEqual(t, *p50, *p75)
	assert.LessOrEqual(t, *p75, *p90)

	assert.Nil(t, Quantile(nil, 50))
}

func TestSampleStd(t *testing.T) {
	assert.Nil(t, SampleStd([]float64{5}))

	got := SampleStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NotNil(t, got)
	// sample std with n-1 denominator
	assert.InDelta(t, 2.13809, *got, 1e-4)
}

func TestECDFPercentile(t *testing.T) {
	peers := []float64{1, 2, 3, 4}
	assert.InDelta(t, 0, ECDFPercentile(peers, 1), 1e-9)
	assert.InDelta(t, 50, ECDFPercentile(peers, 3), 1e-9)
	assert.InDelta(t, 100, ECDFPercentile(peers, 99), 1e-9)
	assert.InDelta(t, 0, ECDFPercentile(nil, 5), 1e-9)

	// strictly below: ties do not count as beaten peers
	assert.InDelta(t, 25, ECDFPercentile([]float64{1, 2, 2, 2}, 2), 1e-9)
}

func TestParseRatio(t *testing.T) {
	num, den, rate, ok := ParseRatio("23/56 (41%)")
	require.True(t, ok)
	assert.Equal(t, 23, num)
	assert.Equal(t, 56, den)
	assert.InDelta(t, 0.41, rate, 1e-9)

	_, _, _, ok = ParseRatio("41%")
	assert.False(t, ok)
	_, _, _, ok = ParseRatio("")
	assert.False(t, ok)
}

func TestParsePercent(t *testing.T) {
	v, ok := ParsePercent("52%")
	require.True(t, ok)
	assert.InDelta(t, 0.52, v, 1e-9)

	v, ok = ParsePercent("0.4")
	require.True(t, ok)
	assert.InDelta(t, 0.4, v, 1e-9)

	_, ok = ParsePercent("n/a")
	assert.False(t, ok)
}

func TestParseStatValue(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"7", fptr(7)},
		{"52%", fptr(0.52)},
		{"23/56 (41%)", fptr(0.41)},
		{"0/0 (0%)", nil},
		{"", nil},
		{"1.73", fptr(1.73)},
		{"abc", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseStatValue(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}
