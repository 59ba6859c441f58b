// Package stats is the statistical kernel shared by the build stages and
// the data-quality checker: per-90 normalization, ratio construction,
// quantile estimates, empirical-CDF percentiles, and the raw stat-value
// parsers for the extraction collaborator's mixed count/percent/ratio
// formats.
package stats

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	mstats "github.com/montanaflynn/stats"
)

// Per90 normalizes a cumulative stat to a 90-minute rate. Defined only when
// minutes >= 1; below that it returns nil, never zero — a zero would imply
// measured-but-absent performance.
func Per90(total *float64, minutes float64) *float64 {
	if total == nil || minutes < 1 {
		return nil
	}
	v := *total / minutes * 90
	return &v
}

// Ratio returns num/den as a [0,1] rate, nil when the denominator is zero
// or either input is missing.
func Ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}

// Mean averages the non-nil values; nil when none exist.
func Mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m, err := mstats.Mean(values)
	if err != nil {
		return nil
	}
	return &m
}

// Quantile computes the given percentile (0-100) over values. Requires at
// least one observation; callers enforce the >=2 sample floor for published
// benchmarks. Quantile is nondecreasing in percent for fixed data, which is
// what guarantees p25 <= median <= p75 <= p90 downstream.
func Quantile(values []float64, percent float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	q, err := mstats.Percentile(values, percent)
	if err != nil {
		return nil
	}
	return &q
}

// SampleStd is the sample standard deviation (n-1 denominator), nil below
// two observations.
func SampleStd(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	sd, err := mstats.StandardDeviationSample(values)
	if err != nil {
		return nil
	}
	return &sd
}

// ECDFPercentile returns the percentile rank of v within peers: the
// fraction of peers strictly below v, expressed 0-100.
func ECDFPercentile(peers []float64, v float64) float64 {
	if len(peers) == 0 {
		return 0
	}
	below := 0
	for _, p := range peers {
		if p < v {
			below++
		}
	}
	return 100 * float64(below) / float64(len(peers))
}

var ratioPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)\s*\(\s*(\d+(?:\.\d+)?)\s*%\)$`)

// ParseRatio parses "23/56 (41%)" into (23, 56, 0.41). ok is false when the
// string does not carry the ratio shape.
func ParseRatio(s string) (num, den int, rate float64, ok bool) {
	m := ratioPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, 0, false
	}
	num, _ = strconv.Atoi(m[1])
	den, _ = strconv.Atoi(m[2])
	pct, _ := strconv.ParseFloat(m[3], 64)
	return num, den, pct / 100, true
}

// ParsePercent parses "52%" into 0.52. ok is false for non-numeric input.
func ParsePercent(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if v > 1 {
		return v / 100, true
	}
	return v, true
}

// ParseStatValue parses a raw team-statistic cell. Ratios resolve to their
// rate, strings with an explicit '%' resolve to a [0,1] fraction, and
// everything else is a plain count. A bare count like "7" must stay 7 and
// never become 0.07.
func ParseStatValue(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, den, rate, ok := ParseRatio(s); ok {
		if den == 0 {
			return nil
		}
		return &rate
	}
	if strings.Contains(s, "%") {
		if p, ok := ParsePercent(s); ok {
			return &p
		}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}
