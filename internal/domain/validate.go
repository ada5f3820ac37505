package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SheetTimeLayout is the minute-precision layout used by the job sheet and
// the legacy jobs.json file.
const SheetTimeLayout = "2006-01-02 15:04"

// timeLayouts are tried in order when parsing raw timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	SheetTimeLayout,
}

// Builder validates RawFields and constructs JobRecords.
type Builder struct {
	// Location interprets timestamps that carry no zone. Defaults to UTC.
	Location *time.Location
	// Now stamps both times when the caller omits them. Defaults to time.Now.
	Now func() time.Time
	// NewID assigns an id when the caller leaves it empty. Defaults to UUIDv7.
	NewID func() (string, error)
	// Precision, when set, truncates both times and moves them into
	// Location before the duration is derived, so a medium that keeps
	// coarser times reads back the record it was given.
	Precision time.Duration
}

// ValidateAndBuild builds a record with the default Builder.
func ValidateAndBuild(raw RawFields) (JobRecord, error) {
	return Builder{}.Build(raw)
}

// Build checks raw and returns the normalized record. Field checks run in a
// fixed order and the first failure is returned as a *ValidationError.
func (b Builder) Build(raw RawFields) (JobRecord, error) {
	rec := JobRecord{
		ID:         strings.TrimSpace(raw.ID),
		Address:    strings.TrimSpace(raw.Address),
		Issue:      strings.TrimSpace(raw.Issue),
		Resolution: strings.TrimSpace(raw.Resolution),
		TechName:   strings.TrimSpace(raw.TechName),
	}

	if rec.Address == "" {
		return JobRecord{}, &ValidationError{Field: "address", Reason: "is required"}
	}
	if rec.Issue == "" {
		return JobRecord{}, &ValidationError{Field: "issue", Reason: "is required"}
	}
	if rec.TechName == "" {
		return JobRecord{}, &ValidationError{Field: "techName", Reason: "is required"}
	}

	sig, ok := ParseSignal(raw.Signal)
	if !ok {
		return JobRecord{}, &ValidationError{
			Field:  "signal",
			Reason: fmt.Sprintf("%q is not one of Good, Fair, Bad", strings.TrimSpace(raw.Signal)),
		}
	}
	rec.Signal = sig

	start, end, err := b.parseWindow(raw.StartTime, raw.EndTime)
	if err != nil {
		return JobRecord{}, err
	}
	if b.Precision > 0 {
		start = start.In(b.location()).Truncate(b.Precision)
		end = end.In(b.location()).Truncate(b.Precision)
	}
	rec.StartTime = start
	rec.EndTime = end
	rec.DurationMinutes = int64(end.Sub(start) / time.Minute)

	if rec.ID == "" {
		id, err := b.newID()
		if err != nil {
			return JobRecord{}, fmt.Errorf("generate job id: %w", err)
		}
		rec.ID = id
	}

	return rec, nil
}

func (b Builder) parseWindow(rawStart, rawEnd string) (time.Time, time.Time, error) {
	rawStart = strings.TrimSpace(rawStart)
	rawEnd = strings.TrimSpace(rawEnd)

	if rawStart == "" && rawEnd == "" {
		now := b.now().In(b.location()).Round(0)
		return now, now, nil
	}

	start, err := b.parseTime("startTime", rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := b.parseTime("endTime", rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, &ValidationError{Field: "endTime", Reason: "is before startTime"}
	}
	return start, end, nil
}

func (b Builder) parseTime(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &ValidationError{Field: field, Reason: "is required when the other time is set"}
	}
	t, ok := ParseTimestamp(raw, b.location())
	if !ok {
		return time.Time{}, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a recognized timestamp", raw)}
	}
	return t, nil
}

// ParseTimestamp accepts RFC 3339 or the zone-less sheet layouts, the latter
// interpreted in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (b Builder) location() *time.Location {
	if b.Location == nil {
		return time.UTC
	}
	return b.Location
}

func (b Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b Builder) newID() (string, error) {
	if b.NewID != nil {
		return b.NewID()
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
