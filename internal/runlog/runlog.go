package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Status summarizes how tracking went for one tracker in a run.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNoAlert     Status = "no-alert"
	StatusFetchFailed Status = "fetch-failed"
	StatusError       Status = "error"
)

// Entry is one row in the run log: one tracker in one run.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Tracker   string
	District  string
	TeamUs    int64
	TeamThem  int64
	Alerts    int
	Status    Status
}

// Header is the CSV header for ie-runs.csv.
const Header = "timestamp,run_id,tracker,district,team_us,team_them,alerts,status"

// FileName is the log file created inside the log directory.
const FileName = "ie-runs.csv"

const (
	numFields   = 8
	colTime     = 0
	colRunID    = 1
	colTracker  = 2
	colDistrict = 3
	colTeamUs   = 4
	colTeamThem = 5
	colAlerts   = 6
	colStatus   = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colTracker] = e.Tracker
	row[colDistrict] = e.District
	row[colTeamUs] = strconv.FormatInt(e.TeamUs, 10)
	row[colTeamThem] = strconv.FormatInt(e.TeamThem, 10)
	row[colAlerts] = strconv.Itoa(e.Alerts)
	row[colStatus] = string(e.Status)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	us, err := strconv.ParseInt(record[colTeamUs], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing team_us %q: %w", record[colTeamUs], err)
	}
	them, err := strconv.ParseInt(record[colTeamThem], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing team_them %q: %w", record[colTeamThem], err)
	}
	alerts, err := strconv.Atoi(record[colAlerts])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing alerts %q: %w", record[colAlerts], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Tracker:   record[colTracker],
		District:  record[colDistrict],
		TeamUs:    us,
		TeamThem:  them,
		Alerts:    alerts,
		Status:    Status(record[colStatus]),
	}, nil
}

// Append writes entries to <dir>/ie-runs.csv, creating the directory, file
// and header if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/ie-runs.csv.
// Returns an empty slice if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
