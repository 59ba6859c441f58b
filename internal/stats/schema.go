package stats

// Polarity and sign contracts for the published stat names. Declared once
// here and consumed by the benchmark stage, the percentile stage, and the
// data-quality checker, so the three can never drift apart.

// LowerIsBetter lists stats where a smaller value is the stronger
// performance. Percentile ranks for these are inverted (100 - raw) before
// storage so that 100 always means elite.
var LowerIsBetter = map[string]bool{
	"fouls_per90":              true,
	"totalOffside_per90":       true,
	"possessionLostCtrl_per90": true,
	"dispossessed_per90":       true,
	"yellow_cards":             true,
	"red_cards":                true,
}

// NegativeAllowed lists the stats that are legitimately negative in source
// data: goals prevented goes negative when a keeper concedes more than
// expected, the value-normalized averages are value-added deltas, and ball
// progression can run backwards. Every other published stat must be
// non-negative; flagging these as errors would produce false failures.
var NegativeAllowed = map[string]bool{
	"goalsPrevented_per90":   true,
	"totalProgression_per90": true,
	"pass_value_avg":         true,
	"shot_value_avg":         true,
	"defensive_value_avg":    true,
	"dribble_value_avg":      true,
	"gk_value_avg":           true,
}
