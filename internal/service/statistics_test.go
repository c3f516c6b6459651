package service

import (
	"alcyxob/gym-membership/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(ts time.Time, kind domain.ActivityKind, present bool) domain.AttendanceRecord {
	return domain.AttendanceRecord{Timestamp: ts, Activity: kind, Present: present}
}

func shareOf(t *testing.T, stats PlanStatistics, kind domain.ActivityKind) domain.ActivityShare {
	t.Helper()
	for _, s := range stats.ActivityBreakdown {
		if s.Activity == kind {
			return s
		}
	}
	t.Fatalf("no share for %s", kind)
	return domain.ActivityShare{}
}

func TestComputePlanStatistics(t *testing.T) {
	plan := domain.TrainingPlan{StartDate: at(2024, 3, 1, 0), TargetSessions: 3}
	attendance := []domain.AttendanceRecord{
		rec(at(2024, 2, 20, 10), domain.ActivityStrength, true), // before start
		rec(at(2024, 3, 2, 10), domain.ActivityStrength, true),  // Saturday
		rec(at(2024, 3, 3, 10), domain.ActivityOther, false),    // absent
		rec(at(2024, 3, 5, 10), domain.ActivityIntermittent, true),
		rec(at(2024, 3, 9, 10), domain.ActivityStrength, true), // Saturday
	}

	stats := ComputePlanStatistics(plan, attendance, time.UTC)

	require.Len(t, stats.Window, 3)
	assert.Equal(t, 2, stats.SessionsAttended)
	assert.Equal(t, "Saturday", stats.MostFrequentWeekday)
	assert.Equal(t, at(2024, 3, 9, 10), stats.EndDate)

	assert.Equal(t, "66.67%", shareOf(t, stats, domain.ActivityStrength).Percentage)
	assert.Equal(t, "33.33%", shareOf(t, stats, domain.ActivityIntermittent).Percentage)
	other := shareOf(t, stats, domain.ActivityOther)
	assert.Equal(t, 0, other.Count)
	assert.Equal(t, "0.00%", other.Percentage)
}

func TestComputePlanStatistics_EmptyWindow(t *testing.T) {
	plan := domain.TrainingPlan{StartDate: at(2024, 3, 1, 0), TargetSessions: 4}
	attendance := []domain.AttendanceRecord{
		rec(at(2024, 2, 27, 10), domain.ActivityStrength, true),
		rec(at(2024, 3, 4, 10), domain.ActivityStrength, false),
	}

	stats := ComputePlanStatistics(plan, attendance, nil)

	assert.Empty(t, stats.Window)
	assert.Zero(t, stats.SessionsAttended)
	assert.Equal(t, domain.NotApplicable, stats.MostFrequentWeekday)
	assert.Equal(t, at(2024, 3, 5, 0), stats.EndDate, "falls back to start plus target days")
	require.Len(t, stats.ActivityBreakdown, len(domain.ActivityKinds))
	for _, s := range stats.ActivityBreakdown {
		assert.Equal(t, domain.NotApplicable, s.Percentage)
	}
}

func TestComputePlanStatistics_WeekdayTieAndTimezone(t *testing.T) {
	plan := domain.TrainingPlan{StartDate: at(2024, 3, 1, 0), TargetSessions: 5}
	// Monday and Wednesday once each in UTC.
	attendance := []domain.AttendanceRecord{
		rec(at(2024, 3, 6, 12), domain.ActivityOther, true),
		rec(at(2024, 3, 4, 12), domain.ActivityOther, true),
	}
	stats := ComputePlanStatistics(plan, attendance, time.UTC)
	assert.Equal(t, "Monday", stats.MostFrequentWeekday)
	assert.Equal(t, at(2024, 3, 4, 12), stats.Window[0].Timestamp, "window is ordered")

	// 02:00 UTC on Monday is still Sunday evening in New York.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	late := []domain.AttendanceRecord{rec(at(2024, 3, 4, 2), domain.ActivityStrength, true)}
	assert.Equal(t, "Sunday", ComputePlanStatistics(plan, late, ny).MostFrequentWeekday)
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "100.00%", formatPercentage(3, 3))
	assert.Equal(t, "14.29%", formatPercentage(1, 7))
	assert.Equal(t, "50.00%", formatPercentage(1, 2))
}
