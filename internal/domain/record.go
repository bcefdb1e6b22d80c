package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of a task, kept in the backend's wire spelling
// so unknown upstream values survive a round trip through an edit draft.
type Status string

const (
	StatusUnspecified Status = "未指定"
	StatusNotStarted  Status = "未開始"
	StatusInProgress  Status = "進行中"
	StatusDelayed     Status = "延遲"
	StatusDone        Status = "完成"
)

// Statuses lists the selectable statuses in display order
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusDelayed, StatusDone, StatusUnspecified}

var statusNames = map[Status]string{
	StatusUnspecified: "unspecified",
	StatusNotStarted:  "not-started",
	StatusInProgress:  "in-progress",
	StatusDelayed:     "delayed",
	StatusDone:        "done",
}

// Known reports whether s is one of the five recognised statuses
func (s Status) Known() bool {
	_, ok := statusNames[s]
	return ok
}

// Normalized maps empty and unrecognised values to StatusUnspecified
func (s Status) Normalized() Status {
	if s.Known() {
		return s
	}
	return StatusUnspecified
}

// String returns the English name of the status
func (s Status) String() string {
	return statusNames[s.Normalized()]
}

// StatusNames lists the English names of Statuses, comma separated
func StatusNames() string {
	names := make([]string, len(Statuses))
	for i, st := range Statuses {
		names[i] = st.String()
	}
	return strings.Join(names, ", ")
}

// ParseStatus accepts either the wire label or the English name
func ParseStatus(value string) Status {
	v := strings.TrimSpace(value)
	if st := Status(v); st.Known() {
		return st
	}
	for st, name := range statusNames {
		if strings.EqualFold(v, name) {
			return st
		}
	}
	return Status(v)
}

// Progress is the upstream progress value as delivered: a fraction ("0.4"),
// a percentage ("40") or a percent-suffixed string ("40%"). Use Percent for
// the canonical integer.
type Progress string

// Percent returns the normalized 0-100 value
func (p Progress) Percent() int {
	return NormalizeProgress(p)
}

// TaskRecord is one row of the project table
type TaskRecord struct {
	RowKey        string   `json:"PID,omitempty"`
	ProjectID     string   `json:"專案ID"`
	ProjectName   string   `json:"專案名稱"`
	TaskName      string   `json:"任務名稱"`
	Description   string   `json:"任務描述"`
	Status        Status   `json:"任務狀態"`
	Member        string   `json:"成員姓名"`
	Department    string   `json:"部門"`
	Progress      Progress `json:"進度百分比"`
	StartDate     string   `json:"開始日期"`
	DueDate       string   `json:"預計完成日期"`
	CompletedDate string   `json:"實際完成日期"`
	Risks         string   `json:"風險與問題"`
	NextSteps     string   `json:"下一步計劃"`
	UpdatedDate   string   `json:"更新日期"`
}

// UnmarshalJSON accepts the loosely typed rows the spreadsheet backend emits:
// numbers, booleans and nulls are converted to their text form.
func (r *TaskRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rec := TaskRecord{}
	for key, value := range raw {
		field, ok := fieldByWireKey[key]
		if !ok {
			continue
		}
		text, err := textValue(value)
		if err != nil {
			return fmt.Errorf("column %s: %w", key, err)
		}
		rec.Set(field, text)
	}
	if v, ok := raw[rowKeyWire]; ok {
		text, err := textValue(v)
		if err != nil {
			return fmt.Errorf("column %s: %w", rowKeyWire, err)
		}
		rec.RowKey = text
	}

	*r = rec
	return nil
}

func textValue(raw json.RawMessage) (string, error) {
	var v any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported value %s", string(raw))
	}
}

// CloneRecords returns an independent copy of records
func CloneRecords(records []TaskRecord) []TaskRecord {
	if records == nil {
		return nil
	}
	out := make([]TaskRecord, len(records))
	copy(out, records)
	return out
}

// Snapshot is the ordered result of one full fetch of the project table
type Snapshot struct {
	Records   []TaskRecord
	FetchedAt time.Time
}

// DateLayout is the calendar-date format used by the backend
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	time.RFC3339,
}

// ParseDate parses a calendar date. Date-only values resolve to midnight UTC.
func ParseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t as a calendar date in t's own location
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
