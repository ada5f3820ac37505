package domain

import (
	"strings"
	"time"
)

// Signal is the signal quality observed at the job site.
type Signal string

const (
	SignalGood Signal = "Good"
	SignalFair Signal = "Fair"
	SignalBad  Signal = "Bad"
)

// Signals lists the accepted signal values in display order.
var Signals = []Signal{SignalGood, SignalFair, SignalBad}

// ParseSignal normalizes raw input to a canonical Signal. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseSignal(raw string) (Signal, bool) {
	s := strings.TrimSpace(raw)
	for _, sig := range Signals {
		if strings.EqualFold(s, string(sig)) {
			return sig, true
		}
	}
	return "", false
}

// IsValid reports whether s is one of the canonical values.
func (s Signal) IsValid() bool {
	return s == SignalGood || s == SignalFair || s == SignalBad
}

// JobRecord is one completed field-service job. Records are built once by a
// Builder and never mutated afterwards.
type JobRecord struct {
	ID              string    `json:"id"`
	Address         string    `json:"address"`
	Issue           string    `json:"issue"`
	Resolution      string    `json:"resolution"`
	TechName        string    `json:"techName"`
	Signal          Signal    `json:"signal"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int64     `json:"durationMinutes"`
}

// JobCollection is the ordered set of stored records, in append order.
type JobCollection []JobRecord

// Contains reports whether a record with the given id is present.
func (c JobCollection) Contains(id string) bool {
	for i := range c {
		if c[i].ID == id {
			return true
		}
	}
	return false
}

// Find returns the record with the given id.
func (c JobCollection) Find(id string) (JobRecord, bool) {
	for i := range c {
		if c[i].ID == id {
			return c[i], true
		}
	}
	return JobRecord{}, false
}

// RawFields is the unvalidated input collected by a front end.
type RawFields struct {
	ID         string `json:"id"`
	Address    string `json:"address"`
	Issue      string `json:"issue"`
	Resolution string `json:"resolution"`
	TechName   string `json:"techName"`
	Signal     string `json:"signal"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// ErrorDetail is the wire form of a failed CreateJob call.
type ErrorDetail struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	ID      string    `json:"id,omitempty"`
}

// CreateResult is the outcome of JobService.CreateJob.
type CreateResult struct {
	Saved bool         `json:"saved"`
	Job   *JobRecord   `json:"job,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`

	// Err is the underlying error for callers that want errors.Is.
	Err error `json:"-"`
}

// StatsReport is the aggregate view over a JobCollection.
type StatsReport struct {
	TotalJobs            int            `json:"totalJobs"`
	TotalMinutes         int64          `json:"totalMinutes"`
	AverageMinutesPerJob float64        `json:"averageMinutesPerJob"`
	BadSignalCount       int            `json:"badSignalCount"`
	BadSignalPercent     float64        `json:"badSignalPercent"`
	JobsPerTechnician    map[string]int `json:"jobsPerTechnician"`
	JobsPerAddress       map[string]int `json:"jobsPerAddress"`
	JobsPerDay           map[string]int `json:"jobsPerDay"`
	LongestJob           *JobRecord     `json:"longestJob"`
	ShortestJob          *JobRecord     `json:"shortestJob"`
	MostCommonIssue      string         `json:"mostCommonIssue"`
}
