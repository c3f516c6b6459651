package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseActivityKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ActivityKind
		wantErr bool
	}{
		{"strength", ActivityStrength, false},
		{" Intermittent ", ActivityIntermittent, false},
		{"OTHER", ActivityOther, false},
		{"yoga", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseActivityKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, SeverityNormal, SeverityFor(11))
	assert.Equal(t, SeverityWarning, SeverityFor(10))
	assert.Equal(t, SeverityWarning, SeverityFor(6))
	assert.Equal(t, SeverityCritical, SeverityFor(5))
	assert.Equal(t, SeverityCritical, SeverityFor(0))
}

func TestTrainingPlan_DaysRemainingMatchesRemainingSessions(t *testing.T) {
	p := &TrainingPlan{TargetSessions: 12, RemainingSessions: 12}
	for p.RemainingSessions > 0 {
		assert.Equal(t, p.RemainingSessions, p.DaysRemaining())
		p.RemainingSessions--
	}
	assert.Equal(t, 0, p.DaysRemaining())
	assert.Equal(t, 12, p.SessionsCounted())
}

func TestSameDay_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	a := time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)  // 1 March 22:00 local
	b := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC) // 1 March 12:00 local

	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(a, b, time.UTC))
}

func TestMember_AttendanceOrderingAndRemoval(t *testing.T) {
	m := &Member{}
	late := AttendanceRecord{ID: primitive.NewObjectID(), Timestamp: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), Activity: ActivityStrength, Present: true}
	early := AttendanceRecord{ID: primitive.NewObjectID(), Timestamp: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), Activity: ActivityOther, Present: true}
	m.AddAttendance(late)
	m.AddAttendance(early)

	require.Len(t, m.Attendance, 2)
	assert.Equal(t, early.ID, m.Attendance[0].ID)
	assert.True(t, m.HasPresentCheckIn(late.Timestamp.Add(3*time.Hour), ActivityStrength, time.UTC, primitive.NilObjectID))
	assert.False(t, m.HasPresentCheckIn(late.Timestamp, ActivityStrength, time.UTC, late.ID))

	assert.True(t, m.RemoveAttendance(late.ID))
	assert.False(t, m.RemoveAttendance(late.ID))
	assert.Equal(t, -1, m.FindAttendance(late.ID))
}

func TestAttendanceRecord_CountsTowardPlan(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := AttendanceRecord{Timestamp: start, Activity: ActivityStrength, Present: true}
	assert.True(t, r.CountsTowardPlan(start))

	r.Present = false
	assert.False(t, r.CountsTowardPlan(start))

	r.Present = true
	r.Activity = ActivityIntermittent
	assert.False(t, r.CountsTowardPlan(start))

	r.Activity = ActivityStrength
	r.Timestamp = start.Add(-time.Minute)
	assert.False(t, r.CountsTowardPlan(start))
}
