package operations

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Run statuses as recorded in pipeline_runs.csv
const (
	RunStatusRunning = "running"
	RunStatusOK      = "ok"
	RunStatusFail    = "fail"
)

var runLogHeader = []string{"run_id", "started_utc", "ended_utc", "steps_run", "status", "failed_step", "env"}

// RunRecord is one row of the pipeline run log
type RunRecord struct {
	RunID      string
	StartedUTC time.Time
	EndedUTC   *time.Time
	StepsRun   string
	Status     string
	FailedStep string
	Env        string
}

// RunLog persists pipeline invocations to an append-style CSV plus a JSON
// marker naming the latest fully-successful run. Rows are appended as
// `running` when a run starts and upserted in place on completion, so a
// crashed process leaves a visible running row behind.
type RunLog struct {
	csvPath    string
	latestPath string
}

// NewRunLog wires the run log over its two files
func NewRunLog(csvPath, latestPath string) *RunLog {
	return &RunLog{csvPath: csvPath, latestPath: latestPath}
}

// Load reads every recorded run. A missing log file means no runs yet.
func (l *RunLog) Load() ([]RunRecord, error) {
	f, err := os.Open(l.csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open run log %s: %w", l.csvPath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse run log %s: %w", l.csvPath, err)
	}
	if len(all) <= 1 {
		return nil, nil
	}

	records := make([]RunRecord, 0, len(all)-1)
	for _, row := range all[1:] {
		if len(row) < len(runLogHeader) {
			continue
		}
		rec := RunRecord{
			RunID:      row[0],
			StepsRun:   row[3],
			Status:     row[4],
			FailedStep: row[5],
			Env:        row[6],
		}
		if t, err := time.Parse(time.RFC3339, row[1]); err == nil {
			rec.StartedUTC = t
		}
		if row[2] != "" {
			if t, err := time.Parse(time.RFC3339, row[2]); err == nil {
				rec.EndedUTC = &t
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Begin closes any stale running rows left by interrupted processes, then
// appends a running row for this run.
func (l *RunLog) Begin(rec RunRecord) error {
	records, err := l.Load()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range records {
		if records[i].Status == RunStatusRunning {
			records[i].Status = RunStatusFail
			records[i].EndedUTC = &now
		}
	}
	rec.Status = RunStatusRunning
	records = append(records, rec)
	return l.write(records)
}

// Complete upserts the run's row with its outcome. Only an ok run rewrites
// the latest-success marker.
func (l *RunLog) Complete(runID, status, failedStep string) error {
	records, err := l.Load()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	var completed *RunRecord
	for i := range records {
		if records[i].RunID == runID {
			records[i].Status = status
			records[i].FailedStep = failedStep
			records[i].EndedUTC = &now
			completed = &records[i]
		}
	}
	if completed == nil {
		return fmt.Errorf("run %s not found in run log", runID)
	}
	if err := l.write(records); err != nil {
		return err
	}
	if status == RunStatusOK {
		return l.writeLatestSuccess(*completed)
	}
	return nil
}

func (l *RunLog) write(records []RunRecord) error {
	if err := os.MkdirAll(filepath.Dir(l.csvPath), 0o755); err != nil {
		return fmt.Errorf("failed to create run log dir: %w", err)
	}
	f, err := os.Create(l.csvPath)
	if err != nil {
		return fmt.Errorf("failed to write run log %s: %w", l.csvPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(runLogHeader); err != nil {
		return fmt.Errorf("failed to write run log header: %w", err)
	}
	for _, rec := range records {
		ended := ""
		if rec.EndedUTC != nil {
			ended = rec.EndedUTC.Format(time.RFC3339)
		}
		row := []string{
			rec.RunID,
			rec.StartedUTC.Format(time.RFC3339),
			ended,
			rec.StepsRun,
			rec.Status,
			rec.FailedStep,
			rec.Env,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write run log row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// latestSuccess is the JSON shape of the latest-success marker
type latestSuccess struct {
	RunID    string `json:"run_id"`
	EndedUTC string `json:"ended_utc"`
	StepsRun string `json:"steps_run"`
	Env      string `json:"env"`
}

func (l *RunLog) writeLatestSuccess(rec RunRecord) error {
	payload := latestSuccess{
		RunID:    rec.RunID,
		StepsRun: rec.StepsRun,
		Env:      rec.Env,
	}
	if rec.EndedUTC != nil {
		payload.EndedUTC = rec.EndedUTC.Format(time.RFC3339)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal latest success: %w", err)
	}
	if err := os.WriteFile(l.latestPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", l.latestPath, err)
	}
	return nil
}

// LatestSuccess reads the latest-success marker. ok is false when no
// successful run exists yet.
func (l *RunLog) LatestSuccess() (runID string, ok bool, err error) {
	data, err := os.ReadFile(l.latestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", l.latestPath, err)
	}
	var payload latestSuccess
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", false, fmt.Errorf("failed to parse %s: %w", l.latestPath, err)
	}
	return payload.RunID, true, nil
}
