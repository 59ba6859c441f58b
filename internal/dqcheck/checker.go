// Package dqcheck validates every processed artifact and renders a
// structured PASS / WARN / FAIL report. A FAIL anywhere makes the whole
// check fail; WARN rows are advisory and never affect the exit status.
package dqcheck

// Severity of one check outcome
type Severity string

const (
	SeverityPass Severity = "PASS"
	SeverityWarn Severity = "WARN"
	SeverityFail Severity = "FAIL"
)

// Result is one executed check
type Result struct {
	File   string   `json:"file"`
	Check  string   `json:"check"`
	Status Severity `json:"status"`
	Detail string   `json:"detail"`
}

// Checker accumulates check results in execution order
type Checker struct {
	results []Result
}

// Check records a hard check: PASS when ok, otherwise FAIL
func (c *Checker) Check(file, name string, ok bool, detail string) {
	c.record(file, name, ok, detail, SeverityFail)
}

// Warn records an advisory check: PASS when ok, otherwise WARN
func (c *Checker) Warn(file, name string, ok bool, detail string) {
	c.record(file, name, ok, detail, SeverityWarn)
}

// MissingFile records the FAIL emitted when an artifact does not exist
func (c *Checker) MissingFile(file, path string) {
	c.results = append(c.results, Result{
		File: file, Check: "file_exists", Status: SeverityFail,
		Detail: "missing: " + path,
	})
}

func (c *Checker) record(file, name string, ok bool, detail string, level Severity) {
	status := level
	if ok {
		status = SeverityPass
	}
	c.results = append(c.results, Result{File: file, Check: name, Status: status, Detail: detail})
}

// Results returns the accumulated checks in execution order
func (c *Checker) Results() []Result { return c.results }

// inRange reports whether every value lies within [lo, hi].
// An empty slice passes.
func inRange(vals []float64, lo, hi float64) bool {
	for _, v := range vals {
		if v < lo || v > hi {
			return false
		}
	}
	return true
}

// noNegatives reports whether every value is >= 0
func noNegatives(vals []float64) bool {
	for _, v := range vals {
		if v < 0 {
			return false
		}
	}
	return true
}

// pctNull is the null fraction of a column with total rows and nulls nulls
func pctNull(nulls, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(nulls) / float64(total)
}
