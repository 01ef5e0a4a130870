// internal/app/features/analytics/stats_test.go
package analytics

import (
	"testing"

	"github.com/docdeck/docdeck/internal/domain/models"
)

func TestFormatErrorRate(t *testing.T) {
	series := []models.ApiUsageData{
		{Date: "2026-08-25", Calls: 60, Errors: 3},
		{Date: "2026-08-26", Calls: 40, Errors: 2},
	}
	// 5 errors over 100 calls is a 5% rate.
	if got := formatErrorRate(series); got != "5.0%" {
		t.Errorf("formatErrorRate = %q, want %q", got, "5.0%")
	}
}

func TestFormatErrorRate_NoCalls(t *testing.T) {
	if got := formatErrorRate(nil); got != "0.0%" {
		t.Errorf("formatErrorRate = %q, want %q", got, "0.0%")
	}
}
