package service

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/notify"
	"alcyxob/gym-membership/internal/repository"
	"alcyxob/gym-membership/internal/storage"
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Inputs and Outputs ---

type StartPlanInput struct {
	StartDate      time.Time
	TargetSessions int
}

type RecordAttendanceInput struct {
	Timestamp time.Time
	Activity  domain.ActivityKind
	Present   bool
}

type EditAttendanceInput struct {
	Timestamp time.Time
	Activity  domain.ActivityKind
}

// AttendanceOutcome is what a check-in did to the member.
type AttendanceOutcome struct {
	Member      *domain.Member
	Record      domain.AttendanceRecord
	Decremented bool                     // The check-in counted towards the active plan
	Completed   *domain.PlanHistoryEntry // Set when the check-in finished the plan
}

// PlanStatus is the read-side view of the active plan.
type PlanStatus struct {
	Plan          *domain.TrainingPlan `json:"plan"`
	DaysRemaining int                  `json:"daysRemaining"`
	Severity      domain.Severity      `json:"severity,omitempty"`
}

// StatusOf projects the plan status of m without touching storage.
func StatusOf(m *domain.Member) PlanStatus {
	if m.Plan == nil {
		return PlanStatus{}
	}
	days := m.Plan.DaysRemaining()
	return PlanStatus{Plan: m.Plan, DaysRemaining: days, Severity: domain.SeverityFor(days)}
}

// --- Service Interface ---

// PlanService runs the training-plan lifecycle: plans are started by staff, counted
// down by Strength check-ins and archived into the member's history when they reach zero.
// Callers are expected to serialise mutations of the same member.
type PlanService interface {
	StartPlan(ctx context.Context, memberID primitive.ObjectID, in StartPlanInput) (*domain.TrainingPlan, error)
	RecordAttendance(ctx context.Context, memberID primitive.ObjectID, in RecordAttendanceInput) (*AttendanceOutcome, error)
	EditAttendance(ctx context.Context, memberID, recordID primitive.ObjectID, in EditAttendanceInput) (*domain.AttendanceRecord, error)
	DeleteAttendance(ctx context.Context, memberID, recordID primitive.ObjectID) error
	DeletePlan(ctx context.Context, memberID primitive.ObjectID) error
	DeleteHistoryEntry(ctx context.Context, memberID, entryID primitive.ObjectID) error
	PlanStatus(ctx context.Context, memberID primitive.ObjectID) (PlanStatus, error)
	History(ctx context.Context, memberID primitive.ObjectID) ([]domain.PlanHistoryEntry, error)
}

// --- Service Implementation ---

type planService struct {
	memberRepo repository.MemberRepository
	dispatcher notify.Dispatcher     // nil disables completion notices
	reports    storage.ReportStorage // nil disables report archiving
	loc        *time.Location
	now        func() time.Time
}

// NewPlanService creates the plan lifecycle service. loc decides calendar days for the
// one-check-in-per-activity-per-day rule and weekday statistics.
func NewPlanService(
	memberRepo repository.MemberRepository,
	dispatcher notify.Dispatcher,
	reports storage.ReportStorage,
	loc *time.Location,
) PlanService {
	if loc == nil {
		loc = time.UTC
	}
	return &planService{
		memberRepo: memberRepo,
		dispatcher: dispatcher,
		reports:    reports,
		loc:        loc,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// StartPlan opens a new plan for the member. Only one plan may be in progress.
func (s *planService) StartPlan(ctx context.Context, memberID primitive.ObjectID, in StartPlanInput) (*domain.TrainingPlan, error) {
	if in.StartDate.IsZero() {
		return nil, invalid("startDate", "is required")
	}
	if in.TargetSessions <= 0 {
		return nil, invalid("targetSessions", "must be greater than zero")
	}

	m, err := s.load(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.Plan.InProgress() {
		return nil, ErrPlanConflict
	}

	m.Plan = &domain.TrainingPlan{
		StartDate:         in.StartDate,
		TargetSessions:    in.TargetSessions,
		RemainingSessions: in.TargetSessions,
		CreatedAt:         s.now(),
	}
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "plan_started", "member_id", memberID.Hex(), "target_sessions", in.TargetSessions, "start_date", in.StartDate)
	return m.Plan, nil
}

// RecordAttendance appends a check-in and applies it to the active plan.
func (s *planService) RecordAttendance(ctx context.Context, memberID primitive.ObjectID, in RecordAttendanceInput) (*AttendanceOutcome, error) {
	if in.Timestamp.IsZero() {
		return nil, invalid("timestamp", "is required")
	}
	if !in.Activity.Valid() {
		return nil, invalid("activity", "unknown activity kind")
	}

	m, err := s.load(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.HasPresentCheckIn(in.Timestamp, in.Activity, s.loc, primitive.NilObjectID) {
		return nil, ErrDuplicateAttendance
	}

	record := domain.AttendanceRecord{
		ID:        primitive.NewObjectID(),
		Timestamp: in.Timestamp,
		Activity:  in.Activity,
		Present:   in.Present,
		CreatedAt: s.now(),
	}
	m.AddAttendance(record)

	outcome := &AttendanceOutcome{Member: m, Record: record}
	var window []domain.AttendanceRecord

	plan := m.Plan
	if plan.InProgress() && plan.RemainingSessions > 0 && record.CountsTowardPlan(plan.StartDate) {
		plan.RemainingSessions--
		outcome.Decremented = true

		if plan.RemainingSessions == 0 {
			plan.Completed = true
			entry, w := s.archive(m, *plan)
			m.PlanHistory = append(m.PlanHistory, entry)
			m.Plan = nil
			outcome.Completed = &m.PlanHistory[len(m.PlanHistory)-1]
			window = w
		}
	}

	if err := s.save(ctx, m); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "attendance_recorded",
		"member_id", memberID.Hex(),
		"record_id", record.ID.Hex(),
		"activity", record.Activity,
		"present", record.Present,
		"decremented", outcome.Decremented,
	)

	if outcome.Completed != nil {
		// The completion is durable at this point; nothing below may undo it.
		s.afterCompletion(context.WithoutCancel(ctx), m, *outcome.Completed, window)
	}
	return outcome, nil
}

// archive snapshots a plan that just reached zero into a history entry.
func (s *planService) archive(m *domain.Member, plan domain.TrainingPlan) (domain.PlanHistoryEntry, []domain.AttendanceRecord) {
	stats := ComputePlanStatistics(plan, m.Attendance, s.loc)
	entry := domain.PlanHistoryEntry{
		ID:                  primitive.NewObjectID(),
		StartDate:           plan.StartDate,
		EndDate:             stats.EndDate,
		TargetSessions:      plan.TargetSessions,
		SessionsAttended:    stats.SessionsAttended,
		MostFrequentWeekday: stats.MostFrequentWeekday,
		ActivityBreakdown:   stats.ActivityBreakdown,
		ArchivedAt:          s.now(),
	}
	if s.reports != nil {
		entry.ReportKey = storage.ReportKey(m.ID, entry.ID)
	}
	return entry, stats.Window
}

// afterCompletion archives the report and notifies the member. Failures are logged only.
func (s *planService) afterCompletion(ctx context.Context, m *domain.Member, entry domain.PlanHistoryEntry, window []domain.AttendanceRecord) {
	slog.InfoContext(ctx, "plan_completed",
		"member_id", m.ID.Hex(),
		"entry_id", entry.ID.Hex(),
		"sessions_attended", entry.SessionsAttended,
		"most_frequent_weekday", entry.MostFrequentWeekday,
	)

	notice := notify.PlanCompleted{
		Destination: m.Email,
		MemberName:  m.Name,
		Attendance:  window,
		Summary:     entry,
	}

	if s.reports != nil && entry.ReportKey != "" {
		if url, err := s.storeReport(ctx, entry.ReportKey, notice); err != nil {
			slog.ErrorContext(ctx, "plan_report_upload_failed", "member_id", m.ID.Hex(), "entry_id", entry.ID.Hex(), "error", err)
		} else {
			notice.ReportURL = url
		}
	}

	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.SendPlanCompleted(ctx, notice); err != nil {
		if errors.Is(err, notify.ErrNoDestination) {
			// Members may register without an email address.
			slog.InfoContext(ctx, "notification_skipped", "member_id", m.ID.Hex(), "entry_id", entry.ID.Hex(), "reason", err.Error())
			return
		}
		nerr := &NotificationError{MemberID: m.ID, Err: err}
		slog.ErrorContext(ctx, "notification_failed", "member_id", m.ID.Hex(), "entry_id", entry.ID.Hex(), "error", nerr)
		return
	}
	slog.InfoContext(ctx, "notification_sent", "member_id", m.ID.Hex(), "entry_id", entry.ID.Hex())
}

func (s *planService) storeReport(ctx context.Context, key string, notice notify.PlanCompleted) (string, error) {
	body, err := notify.RenderReport(notice)
	if err != nil {
		return "", err
	}
	if err := s.reports.PutObject(ctx, key, "text/html; charset=utf-8", body); err != nil {
		return "", err
	}
	return s.reports.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
}

// EditAttendance changes the time or activity of a record. Plan counters are left as
// they are: the decrement applied when the record was created stays applied.
func (s *planService) EditAttendance(ctx context.Context, memberID, recordID primitive.ObjectID, in EditAttendanceInput) (*domain.AttendanceRecord, error) {
	if in.Timestamp.IsZero() {
		return nil, invalid("timestamp", "is required")
	}
	if !in.Activity.Valid() {
		return nil, invalid("activity", "unknown activity kind")
	}

	m, err := s.load(ctx, memberID)
	if err != nil {
		return nil, err
	}
	i := m.FindAttendance(recordID)
	if i < 0 {
		return nil, ErrAttendanceNotFound
	}
	if m.HasCheckIn(in.Timestamp, in.Activity, s.loc, recordID) {
		return nil, ErrDuplicateAttendance
	}

	m.Attendance[i].Timestamp = in.Timestamp
	m.Attendance[i].Activity = in.Activity
	updated := m.Attendance[i]
	m.SortAttendance()

	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "attendance_edited", "member_id", memberID.Hex(), "record_id", recordID.Hex())
	return &updated, nil
}

// DeleteAttendance removes a record. Remaining sessions are not given back.
func (s *planService) DeleteAttendance(ctx context.Context, memberID, recordID primitive.ObjectID) error {
	m, err := s.load(ctx, memberID)
	if err != nil {
		return err
	}
	if !m.RemoveAttendance(recordID) {
		return ErrAttendanceNotFound
	}
	if err := s.save(ctx, m); err != nil {
		return err
	}
	slog.InfoContext(ctx, "attendance_deleted", "member_id", memberID.Hex(), "record_id", recordID.Hex())
	return nil
}

// DeletePlan cancels the active plan without archiving it.
func (s *planService) DeletePlan(ctx context.Context, memberID primitive.ObjectID) error {
	m, err := s.load(ctx, memberID)
	if err != nil {
		return err
	}
	if m.Plan == nil {
		return ErrPlanNotFound
	}
	m.Plan = nil
	if err := s.save(ctx, m); err != nil {
		return err
	}
	slog.InfoContext(ctx, "plan_cancelled", "member_id", memberID.Hex())
	return nil
}

// DeleteHistoryEntry removes one archived plan and, best effort, its stored report.
func (s *planService) DeleteHistoryEntry(ctx context.Context, memberID, entryID primitive.ObjectID) error {
	m, err := s.load(ctx, memberID)
	if err != nil {
		return err
	}
	removed, ok := m.RemoveHistoryEntry(entryID)
	if !ok {
		return ErrHistoryEntryNotFound
	}
	if err := s.save(ctx, m); err != nil {
		return err
	}
	slog.InfoContext(ctx, "plan_history_deleted", "member_id", memberID.Hex(), "entry_id", entryID.Hex())

	if s.reports != nil && removed.ReportKey != "" {
		if err := s.reports.DeleteObject(context.WithoutCancel(ctx), removed.ReportKey); err != nil {
			slog.WarnContext(ctx, "plan_report_delete_failed", "member_id", memberID.Hex(), "key", removed.ReportKey, "error", err)
		}
	}
	return nil
}

func (s *planService) PlanStatus(ctx context.Context, memberID primitive.ObjectID) (PlanStatus, error) {
	m, err := s.load(ctx, memberID)
	if err != nil {
		return PlanStatus{}, err
	}
	return StatusOf(m), nil
}

func (s *planService) History(ctx context.Context, memberID primitive.ObjectID) ([]domain.PlanHistoryEntry, error) {
	m, err := s.load(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.PlanHistory == nil {
		return []domain.PlanHistoryEntry{}, nil
	}
	return m.PlanHistory, nil
}

// --- Store helpers ---

func (s *planService) load(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	return loadMember(ctx, s.memberRepo, id)
}

func (s *planService) save(ctx context.Context, m *domain.Member) error {
	return saveMember(ctx, s.memberRepo, m)
}

func loadMember(ctx context.Context, repo repository.MemberRepository, id primitive.ObjectID) (*domain.Member, error) {
	if id == primitive.NilObjectID {
		return nil, invalid("memberId", "is required")
	}
	m, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, &StorageError{Op: "load member", Err: err}
	}
	return m, nil
}

func saveMember(ctx context.Context, repo repository.MemberRepository, m *domain.Member) error {
	if err := repo.Save(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrMemberEmailTaken
		}
		return &StorageError{Op: "save member", Err: err}
	}
	return nil
}
