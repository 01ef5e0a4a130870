// Package usage produces the synthetic API usage series backing the
// analytics view.
//
// The numbers are demo data: regenerated per client session, stable within
// one (the seed is derived from the session id), and never persisted.
package usage

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/docdeck/docdeck/internal/domain/models"
)

const (
	// Days is the length of the generated series.
	Days = 30

	minCalls = 500
	maxCalls = 2000
	// maxErrorRate bounds errors to a fraction of a day's calls.
	maxErrorRate = 0.1
)

// Series generates Days of usage data ending today. The same seed always
// yields the same series.
func Series(seed int64, now time.Time) []models.ApiUsageData {
	rnd := rand.New(rand.NewSource(seed))

	data := make([]models.ApiUsageData, 0, Days)
	for i := Days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		calls := minCalls + rnd.Intn(maxCalls-minCalls+1)
		errors := int(float64(calls) * rnd.Float64() * maxErrorRate)
		data = append(data, models.ApiUsageData{
			Date:   day.Format("Jan 2"),
			Calls:  calls,
			Errors: errors,
		})
	}
	return data
}

// SeedFor derives a stable seed from a client session id.
func SeedFor(clientID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(clientID))
	return int64(h.Sum64())
}

// Totals sums calls and errors across the series.
func Totals(data []models.ApiUsageData) (calls, errors int) {
	for _, d := range data {
		calls += d.Calls
		errors += d.Errors
	}
	return calls, errors
}

// ErrorRate returns the overall error percentage for the series.
func ErrorRate(data []models.ApiUsageData) float64 {
	calls, errors := Totals(data)
	if calls == 0 {
		return 0
	}
	return float64(errors) / float64(calls) * 100
}

// StatusCounts tallies registrations per status for the distribution chart.
func StatusCounts(apis []models.ApiRegistration) map[string]int {
	counts := make(map[string]int)
	for _, a := range apis {
		counts[a.Status]++
	}
	return counts
}
