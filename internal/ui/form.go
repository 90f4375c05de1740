package ui

import (
	"strings"
	"time"
)

const (
	defaultStartTime = "00:00"
	defaultEndTime   = "23:59"

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// SearchForm holds the raw inputs of the search form
type SearchForm struct {
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
	ActionID  string
}

// SearchParams is what a submitted form resolves to
type SearchParams struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	ActionID  string `json:"actionId,omitempty"`
}

// SameDay reports whether both boundaries fall on the same non-empty date.
// The time inputs are disabled in that case.
func (f SearchForm) SameDay() bool {
	return f.StartDate != "" && f.StartDate == f.EndDate
}

// Range composes the start and end instants. A same-day search always spans
// the whole day; otherwise the chosen times are used with :00 and :59 seconds.
func (f SearchForm) Range() (string, string) {
	startTime, endTime := f.StartTime, f.EndTime
	if startTime == "" {
		startTime = defaultStartTime
	}
	if endTime == "" {
		endTime = defaultEndTime
	}
	if f.SameDay() {
		startTime, endTime = defaultStartTime, defaultEndTime
	}

	var start, end string
	if f.StartDate != "" {
		start = f.StartDate + "T" + startTime + ":00"
	}
	if f.EndDate != "" {
		end = f.EndDate + "T" + endTime + ":59"
	}
	return start, end
}

// Params resolves the form into search parameters
func (f SearchForm) Params() SearchParams {
	start, end := f.Range()
	return SearchParams{
		StartDate: start,
		EndDate:   end,
		ActionID:  strings.TrimSpace(f.ActionID),
	}
}

// FormFromParams rebuilds the form inputs from stored parameters
func FormFromParams(p SearchParams) SearchForm {
	form := SearchForm{
		StartTime: defaultStartTime,
		EndTime:   defaultEndTime,
		ActionID:  p.ActionID,
	}
	if date, clock := Decompose(p.StartDate); date != "" {
		form.StartDate, form.StartTime = date, clock
	}
	if date, clock := Decompose(p.EndDate); date != "" {
		form.EndDate, form.EndTime = date, clock
	}
	return form
}

var decomposeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// Decompose splits an ISO string into a date and an HH:MM time.
// A date-only value gets 00:00; anything unparseable yields two empty strings.
func Decompose(iso string) (string, string) {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return "", ""
	}

	if !strings.Contains(iso, "T") {
		t, err := time.Parse(dateLayout, iso)
		if err != nil {
			return "", ""
		}
		return t.Format(dateLayout), defaultStartTime
	}

	for _, layout := range decomposeLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format(dateLayout), t.Format(timeLayout)
		}
	}
	return "", ""
}
