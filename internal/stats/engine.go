// Package stats derives aggregate reports from a job collection.
package stats

import (
	"math"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

// dayLayout keys JobsPerDay by the start time's calendar date.
const dayLayout = "2006-01-02"

// Compute aggregates jobs in a single pass. The result depends only on the
// input: no clock, no randomness. Ties for longest, shortest and most common
// issue go to the earliest record in append order.
func Compute(jobs domain.JobCollection) domain.StatsReport {
	report := domain.StatsReport{
		JobsPerTechnician: make(map[string]int),
		JobsPerAddress:    make(map[string]int),
		JobsPerDay:        make(map[string]int),
	}

	issueCounts := make(map[string]int)
	var issueOrder []string
	longest, shortest := -1, -1

	for i := range jobs {
		j := &jobs[i]

		report.TotalJobs++
		report.TotalMinutes += j.DurationMinutes
		if j.Signal == domain.SignalBad {
			report.BadSignalCount++
		}
		report.JobsPerTechnician[j.TechName]++
		report.JobsPerAddress[j.Address]++
		report.JobsPerDay[j.StartTime.Format(dayLayout)]++

		if _, seen := issueCounts[j.Issue]; !seen {
			issueOrder = append(issueOrder, j.Issue)
		}
		issueCounts[j.Issue]++

		if longest < 0 || j.DurationMinutes > jobs[longest].DurationMinutes {
			longest = i
		}
		if shortest < 0 || j.DurationMinutes < jobs[shortest].DurationMinutes {
			shortest = i
		}
	}

	if report.TotalJobs == 0 {
		return report
	}

	n := float64(report.TotalJobs)
	report.AverageMinutesPerJob = round2(float64(report.TotalMinutes) / n)
	report.BadSignalPercent = round2(float64(report.BadSignalCount) / n * 100)

	l, s := jobs[longest], jobs[shortest]
	report.LongestJob = &l
	report.ShortestJob = &s

	best := 0
	for _, issue := range issueOrder {
		if c := issueCounts[issue]; c > best {
			best = c
			report.MostCommonIssue = issue
		}
	}

	return report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
