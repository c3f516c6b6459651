package domain

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a gym participant. The whole aggregate (attendance log, active plan and
// plan history) is stored as a single document and saved in one write.
type Member struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"` // Destination for plan notifications
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Attendance  []AttendanceRecord `bson:"attendance" json:"attendance"`         // Sorted by Timestamp
	Plan        *TrainingPlan      `bson:"plan,omitempty" json:"plan,omitempty"` // At most one active plan
	PlanHistory []PlanHistoryEntry `bson:"planHistory" json:"planHistory"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindAttendance returns the index of the record with the given id, or -1.
func (m *Member) FindAttendance(id primitive.ObjectID) int {
	for i := range m.Attendance {
		if m.Attendance[i].ID == id {
			return i
		}
	}
	return -1
}

// HasPresentCheckIn reports whether a present record of kind exists on the calendar day of
// day (in loc), ignoring the record identified by exclude.
func (m *Member) HasPresentCheckIn(day time.Time, kind ActivityKind, loc *time.Location, exclude primitive.ObjectID) bool {
	for _, r := range m.Attendance {
		if r.ID == exclude || !r.Present {
			continue
		}
		if r.Activity == kind && SameDay(r.Timestamp, day, loc) {
			return true
		}
	}
	return false
}

// HasCheckIn is like HasPresentCheckIn but also counts records marked absent.
func (m *Member) HasCheckIn(day time.Time, kind ActivityKind, loc *time.Location, exclude primitive.ObjectID) bool {
	for _, r := range m.Attendance {
		if r.ID == exclude {
			continue
		}
		if r.Activity == kind && SameDay(r.Timestamp, day, loc) {
			return true
		}
	}
	return false
}

// AddAttendance appends the record and keeps the log ordered by timestamp.
func (m *Member) AddAttendance(r AttendanceRecord) {
	m.Attendance = append(m.Attendance, r)
	m.SortAttendance()
}

// SortAttendance restores timestamp order after an edit.
func (m *Member) SortAttendance() {
	sort.SliceStable(m.Attendance, func(i, j int) bool {
		return m.Attendance[i].Timestamp.Before(m.Attendance[j].Timestamp)
	})
}

// RemoveAttendance deletes the record with the given id and reports whether it existed.
func (m *Member) RemoveAttendance(id primitive.ObjectID) bool {
	i := m.FindAttendance(id)
	if i < 0 {
		return false
	}
	m.Attendance = append(m.Attendance[:i], m.Attendance[i+1:]...)
	return true
}

// RemoveHistoryEntry deletes the archived entry with the given id and returns it.
func (m *Member) RemoveHistoryEntry(id primitive.ObjectID) (PlanHistoryEntry, bool) {
	for i := range m.PlanHistory {
		if m.PlanHistory[i].ID == id {
			removed := m.PlanHistory[i]
			m.PlanHistory = append(m.PlanHistory[:i], m.PlanHistory[i+1:]...)
			return removed, true
		}
	}
	return PlanHistoryEntry{}, false
}
