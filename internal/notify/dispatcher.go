package notify

import (
	"alcyxob/gym-membership/internal/domain"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// CategoryPlanCompleted tags plan completion mail at the provider.
const CategoryPlanCompleted = "plan_completed"

// ErrNoDestination is returned when the member has no address to notify.
var ErrNoDestination = errors.New("member has no notification destination")

// PlanCompleted is the payload sent when a member finishes a training plan.
type PlanCompleted struct {
	Destination string // Member e-mail
	MemberName  string
	Attendance  []domain.AttendanceRecord // Check-ins inside the plan window, oldest first
	Summary     domain.PlanHistoryEntry
	ReportURL   string // Optional link to the archived report
}

// Dispatcher delivers plan-completion summaries to members.
type Dispatcher interface {
	SendPlanCompleted(ctx context.Context, n PlanCompleted) error
}

// EmailDispatcher renders the summary and hands it to a Sender.
type EmailDispatcher struct {
	sender  Sender
	appName string
}

func NewEmailDispatcher(sender Sender, appName string) *EmailDispatcher {
	if appName == "" {
		appName = "Gym"
	}
	return &EmailDispatcher{sender: sender, appName: appName}
}

func (d *EmailDispatcher) SendPlanCompleted(ctx context.Context, n PlanCompleted) error {
	if strings.TrimSpace(n.Destination) == "" {
		return ErrNoDestination
	}

	md := SummaryMarkdown(n)
	html, err := RenderHTML(md)
	if err != nil {
		return fmt.Errorf("render plan summary: %w", err)
	}

	_, err = d.sender.Send(ctx, SendRequest{
		To:      []string{n.Destination},
		Subject: fmt.Sprintf("[%s] Training plan completed", d.appName),
		HTML:    string(html),
		Text:    md,

		Category:       CategoryPlanCompleted,
		IdempotencyKey: "plan-completed/" + n.Summary.ID.Hex(),
	})
	return err
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// RenderHTML converts summary markdown to HTML. Raw HTML in the input is not passed through.
func RenderHTML(md string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderReport produces the standalone HTML document archived for a completed plan.
func RenderReport(n PlanCompleted) ([]byte, error) {
	body, err := RenderHTML(SummaryMarkdown(n))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Training plan report</title></head><body>\n")
	buf.Write(body)
	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}

const dateLayout = "2006-01-02"

// SummaryMarkdown builds the human-readable plan summary.
func SummaryMarkdown(n PlanCompleted) string {
	s := n.Summary
	var b strings.Builder

	fmt.Fprintf(&b, "# Well done, %s!\n\n", mdEscape(n.MemberName))
	fmt.Fprintf(&b, "You completed your training plan of **%d** sessions.\n\n", s.TargetSessions)
	fmt.Fprintf(&b, "- Started: %s\n", s.StartDate.Format(dateLayout))
	fmt.Fprintf(&b, "- Finished: %s\n", s.EndDate.Format(dateLayout))
	fmt.Fprintf(&b, "- Sessions attended: %d\n", s.SessionsAttended)
	fmt.Fprintf(&b, "- Favourite training day: %s\n\n", s.MostFrequentWeekday)

	if len(s.ActivityBreakdown) > 0 {
		b.WriteString("## Activities\n\n| Activity | Check-ins | Share |\n|---|---:|---:|\n")
		for _, a := range s.ActivityBreakdown {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", a.Activity.Label(), a.Count, a.Percentage)
		}
		b.WriteString("\n")
	}

	if len(n.Attendance) > 0 {
		b.WriteString("## Attendance\n\n| Date | Activity | Present |\n|---|---|---|\n")
		for _, r := range n.Attendance {
			present := "no"
			if r.Present {
				present = "yes"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Timestamp.Format("2006-01-02 15:04"), r.Activity.Label(), present)
		}
		b.WriteString("\n")
	}

	if n.ReportURL != "" {
		fmt.Fprintf(&b, "[Download the full report](%s)\n", n.ReportURL)
	}
	return b.String()
}

var mdReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `_`, `\_`, `|`, `\|`, `[`, `\[`, `]`, `\]`, `<`, `&lt;`, `>`, `&gt;`, "`", "\\`", `#`, `\#`)

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
