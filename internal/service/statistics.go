package service

import (
	"alcyxob/gym-membership/internal/domain"
	"fmt"
	"math"
	"sort"
	"time"
)

// PlanStatistics summarises the attendance of a member over a plan window.
type PlanStatistics struct {
	Window              []domain.AttendanceRecord // Present check-ins at or after the start date, oldest first
	SessionsAttended    int
	MostFrequentWeekday string
	ActivityBreakdown   []domain.ActivityShare
	EndDate             time.Time
}

// ComputePlanStatistics derives the history summary of plan from the member's attendance.
// Weekdays are taken in loc. Records before the plan start never contribute.
func ComputePlanStatistics(plan domain.TrainingPlan, attendance []domain.AttendanceRecord, loc *time.Location) PlanStatistics {
	if loc == nil {
		loc = time.UTC
	}

	window := make([]domain.AttendanceRecord, 0, len(attendance))
	for _, r := range attendance {
		if r.Present && !r.Timestamp.Before(plan.StartDate) {
			window = append(window, r)
		}
	}
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Timestamp.Before(window[j].Timestamp)
	})

	stats := PlanStatistics{
		Window:              window,
		MostFrequentWeekday: domain.NotApplicable,
		EndDate:             plan.StartDate.AddDate(0, 0, plan.TargetSessions),
	}

	var weekdays [7]int
	perActivity := make(map[domain.ActivityKind]int, len(domain.ActivityKinds))
	var lastStrength time.Time
	for _, r := range window {
		weekdays[r.Timestamp.In(loc).Weekday()]++
		perActivity[r.Activity]++
		if r.Activity == domain.ActivityStrength {
			stats.SessionsAttended++
			lastStrength = r.Timestamp
		}
	}
	if !lastStrength.IsZero() {
		stats.EndDate = lastStrength
	}

	if len(window) > 0 {
		// Ties go to the earliest weekday, Sunday first.
		best := time.Sunday
		for d := time.Sunday; d <= time.Saturday; d++ {
			if weekdays[d] > weekdays[best] {
				best = d
			}
		}
		stats.MostFrequentWeekday = best.String()
	}

	stats.ActivityBreakdown = make([]domain.ActivityShare, 0, len(domain.ActivityKinds))
	for _, kind := range domain.ActivityKinds {
		share := domain.ActivityShare{Activity: kind, Count: perActivity[kind], Percentage: domain.NotApplicable}
		if len(window) > 0 {
			share.Percentage = formatPercentage(perActivity[kind], len(window))
		}
		stats.ActivityBreakdown = append(stats.ActivityBreakdown, share)
	}
	return stats
}

func formatPercentage(count, total int) string {
	pct := math.Round(float64(count)/float64(total)*100*100) / 100
	return fmt.Sprintf("%.2f%%", pct)
}
