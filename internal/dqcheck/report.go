package dqcheck

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Report is the tallied outcome of one suite run
type Report struct {
	Results []Result
	Pass    int
	Warn    int
	Fail    int
}

// NewReport tallies the results
func NewReport(results []Result) *Report {
	r := &Report{Results: results}
	for _, res := range results {
		switch res.Status {
		case SeverityPass:
			r.Pass++
		case SeverityWarn:
			r.Warn++
		case SeverityFail:
			r.Fail++
		}
	}
	return r
}

// HasFailures reports whether any hard check failed
func (r *Report) HasFailures() bool { return r.Fail > 0 }

// Render prints the aligned check table, the tally line, and any
// remediation hints for known failure modes
func (r *Report) Render(w io.Writer) {
	fileWidth, checkWidth := 0, 0
	for _, res := range r.Results {
		if len(res.File) > fileWidth {
			fileWidth = len(res.File)
		}
		if len(res.Check) > checkWidth {
			checkWidth = len(res.Check)
		}
	}

	for _, res := range r.Results {
		detail := ""
		if res.Detail != "" {
			detail = "  (" + res.Detail + ")"
		}
		fmt.Fprintf(w, "%-7s %-*s %-*s%s\n",
			"["+string(res.Status)+"]", fileWidth+2, res.File, checkWidth+2, res.Check, detail)
	}

	fmt.Fprintf(w, "\nSummary: %d PASS, %d WARN, %d FAIL\n", r.Pass, r.Warn, r.Fail)

	if !r.HasFailures() {
		fmt.Fprintln(w, "\nAll checks passed (with warnings noted above).")
		return
	}
	fmt.Fprintln(w, "\nFAILURES DETECTED")
	if r.hasFailedCheck("all_matches_csv_ids_present") {
		fmt.Fprintln(w, "  Remediation: sync processed artifacts with the index by rerunning the score stages:")
		fmt.Fprintln(w, "    pipeline --from-step scores --to-step summary")
		fmt.Fprintln(w, "  then rerun the full pipeline or at least: --from-step scores --to-step validate")
	}
}

func (r *Report) hasFailedCheck(name string) bool {
	for _, res := range r.Results {
		if res.Status == SeverityFail && res.Check == name {
			return true
		}
	}
	return false
}

// reportJSON is the on-disk shape of dq_report.json
type reportJSON struct {
	Summary struct {
		Pass int `json:"pass"`
		Warn int `json:"warn"`
		Fail int `json:"fail"`
	} `json:"summary"`
	Checks []Result `json:"checks"`
}

// WriteJSON persists the report next to the artifacts it validated
func (r *Report) WriteJSON(path string) error {
	var payload reportJSON
	payload.Summary.Pass = r.Pass
	payload.Summary.Warn = r.Warn
	payload.Summary.Fail = r.Fail
	payload.Checks = r.Results

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
