// internal/domain/attendance.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceRecord is one check-in embedded in a Member document.
// Records are addressed by ID, never by their position in the slice.
type AttendanceRecord struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"` // When the member checked in
	Activity  ActivityKind       `bson:"activity" json:"activity"`
	Present   bool               `bson:"present" json:"present"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// CountsTowardPlan reports whether the record would decrement a plan that started at start.
func (r AttendanceRecord) CountsTowardPlan(start time.Time) bool {
	return r.Activity == ActivityStrength && r.Present && !r.Timestamp.Before(start)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
