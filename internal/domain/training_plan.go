// internal/domain/training_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Severity bands used by listings to highlight plans that are about to finish.
type Severity string

const (
	SeverityNormal   Severity = "normal"   // more than 10 sessions left
	SeverityWarning  Severity = "warning"  // 6 to 10
	SeverityCritical Severity = "critical" // 5 or fewer
)

// TrainingPlan is the active plan of a member: a number of Strength sessions to attend
// from StartDate onwards. It lives in the member's plan slot until it completes.
type TrainingPlan struct {
	StartDate         time.Time `bson:"startDate" json:"startDate"`
	TargetSessions    int       `bson:"targetSessions" json:"targetSessions"`       // Always > 0
	RemainingSessions int       `bson:"remainingSessions" json:"remainingSessions"` // Only goes down
	Completed         bool      `bson:"completed" json:"completed"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
}

// InProgress reports whether the plan still accepts decrements.
func (p *TrainingPlan) InProgress() bool {
	return p != nil && !p.Completed
}

// SessionsCounted is the number of check-ins already applied to the plan.
func (p *TrainingPlan) SessionsCounted() int {
	return p.TargetSessions - p.RemainingSessions
}

// DaysRemaining is the read-side projection shown on listings. It is derived from the
// counted sessions and therefore always equals RemainingSessions.
func (p *TrainingPlan) DaysRemaining() int {
	left := p.TargetSessions - p.SessionsCounted()
	if left < 0 {
		return 0
	}
	return left
}

// SeverityFor maps a days-remaining value to its display band.
func SeverityFor(days int) Severity {
	switch {
	case days > 10:
		return SeverityNormal
	case days > 5:
		return SeverityWarning
	default:
		return SeverityCritical
	}
}

// ActivityShare is the share of windowed check-ins for one activity kind.
type ActivityShare struct {
	Activity   ActivityKind `bson:"activity" json:"activity"`
	Count      int          `bson:"count" json:"count"`
	Percentage string       `bson:"percentage" json:"percentage"` // e.g. "66.67%", or NotApplicable
}

// PlanHistoryEntry is the archived snapshot of a completed plan.
type PlanHistoryEntry struct {
	ID                  primitive.ObjectID `bson:"_id" json:"id"`
	StartDate           time.Time          `bson:"startDate" json:"startDate"`
	EndDate             time.Time          `bson:"endDate" json:"endDate"`
	TargetSessions      int                `bson:"targetSessions" json:"targetSessions"`
	SessionsAttended    int                `bson:"sessionsAttended" json:"sessionsAttended"`
	MostFrequentWeekday string             `bson:"mostFrequentWeekday" json:"mostFrequentWeekday"`
	ActivityBreakdown   []ActivityShare    `bson:"activityBreakdown" json:"activityBreakdown"`
	ReportKey           string             `bson:"reportKey,omitempty" json:"-"` // Object key of the archived report, if any
	ArchivedAt          time.Time          `bson:"archivedAt" json:"archivedAt"`
}

// NotApplicable is reported for statistics that have no data to work from.
const NotApplicable = "N/A"
